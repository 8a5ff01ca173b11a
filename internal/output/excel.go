// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/doi-resolver/internal/diva"
)

const sheetName = "DOI candidates"

// linkColumn describes a hyperlink column inserted after a value column.
type linkColumn struct {
	header  string
	display string
	url     func(portal string, row Row) string
}

// linkColumns maps a value column to the hyperlink column inserted after it,
// for the identifiers that have a canonical landing page.
var linkColumns = map[string]linkColumn{
	"PID": {"PID link", "PID", func(portal string, r Row) string {
		return diva.PIDURL(portal, r.Record.PID)
	}},
	"Possible DOI:s": {"Possible DOI link", "Possible DOI", func(_ string, r Row) string {
		return diva.DOIURL(r.Decision.PossibleDOI)
	}},
	"Verified DOI": {"Verified DOI link", "Verified DOI", func(_ string, r Row) string {
		return diva.DOIURL(r.Decision.VerifiedDOI)
	}},
	"ISI": {"ISI link", "ISI", func(_ string, r Row) string {
		return diva.ISIURL(r.Record.ISI)
	}},
	"ScopusId": {"Scopus link", "Scopus", func(_ string, r Row) string {
		return diva.ScopusURL(r.Record.ScopusID)
	}},
}

// WriteWorkbook writes the accepted rows to an Excel workbook at path, with
// clickable hyperlink columns next to the PID, DOI, ISI and Scopus values.
func WriteWorkbook(path, portal string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	// Header row.
	col := 1
	for _, name := range columns {
		if err := setCell(f, col, 1, name); err != nil {
			return err
		}
		col++
		if link, ok := linkColumns[name]; ok {
			if err := setCell(f, col, 1, link.header); err != nil {
				return err
			}
			col++
		}
	}

	for i, row := range rows {
		values := row.values()
		col = 1
		for j, name := range columns {
			if err := setCell(f, col, i+2, values[j]); err != nil {
				return err
			}
			col++
			link, ok := linkColumns[name]
			if !ok {
				continue
			}
			if url := link.url(portal, row); url != "" {
				if err := setLinkCell(f, col, i+2, link.display, url); err != nil {
					return err
				}
			}
			col++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell coordinates (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("setting cell %s: %w", cell, err)
	}
	return nil
}

func setLinkCell(f *excelize.File, col, row int, display, url string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell coordinates (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellValue(sheetName, cell, display); err != nil {
		return fmt.Errorf("setting cell %s: %w", cell, err)
	}
	if err := f.SetCellHyperLink(sheetName, cell, url, "External"); err != nil {
		return fmt.Errorf("setting hyperlink on %s: %w", cell, err)
	}
	return nil
}
