// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// WriteCSV writes the accepted rows to path.
func WriteCSV(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.values()); err != nil {
			return fmt.Errorf("writing row %s: %w", row.Record.PID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}
