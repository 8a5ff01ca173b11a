// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package diva

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/doi-resolver/internal/normalize"
	"github.com/pdiddy/doi-resolver/pkg/types"
)

// issnColumns are the export columns whose non-empty values form the
// record's ISSN set.
var issnColumns = []string{"JournalISSN", "JournalEISSN", "SeriesISSN", "SeriesEISSN"}

// excludedTitles are editorial items that never have their own DOI.
var excludedTitles = map[string]bool{
	"foreword": true,
	"preface":  true,
}

// ReadRecords parses a DiVA CSV export into source records. Validation
// happens once here: titles are cleaned of non-printable characters, the
// year is parsed (zero when absent or unparseable), and the ISSN set is
// collected from the journal and series columns. Column order in the export
// is not assumed; the header row decides.
func ReadRecords(path string) ([]types.SourceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading export header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["PID"]; !ok {
		return nil, fmt.Errorf("export %s has no PID column", path)
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []types.SourceRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading export row: %w", err)
		}

		rec := types.SourceRecord{
			PID:             field(row, "PID"),
			Title:           normalize.CleanText(field(row, "Title")),
			PublicationType: field(row, "PublicationType"),
			Journal:         field(row, "Journal"),
			Volume:          field(row, "Volume"),
			Issue:           field(row, "Issue"),
			Pages:           field(row, "Pages"),
			StartPage:       field(row, "StartPage"),
			EndPage:         field(row, "EndPage"),
			Names:           field(row, "Name"),
			DOI:             field(row, "DOI"),
			ISI:             field(row, "ISI"),
			ScopusID:        field(row, "ScopusId"),
		}
		if year, err := strconv.Atoi(field(row, "Year")); err == nil {
			rec.Year = year
		}
		for _, c := range issnColumns {
			if v := field(row, c); v != "" {
				rec.ISSNs = append(rec.ISSNs, v)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Select applies the row filters deciding which records enter matching:
// the configured year range, the excluded editorial titles, the identifier
// selection mode, and the presence of a usable title and year. It prints a
// running account of the surviving row counts to w.
func Select(records []types.SourceRecord, cfg types.DivaConfig, w io.Writer) ([]types.SourceRecord, error) {
	inRange := records[:0:0]
	for _, rec := range records {
		if rec.Year >= cfg.FromYear && rec.Year <= cfg.ToYear {
			inRange = append(inRange, rec)
		}
	}
	fmt.Fprintf(w, "After year filter %d-%d: %d rows\n", cfg.FromYear, cfg.ToYear, len(inRange))

	titled := inRange[:0:0]
	for _, rec := range inRange {
		if !excludedTitles[strings.ToLower(strings.TrimSpace(rec.Title))] {
			titled = append(titled, rec)
		}
	}
	fmt.Fprintf(w, "After excluding editorial titles: %d rows\n", len(titled))

	var selected []types.SourceRecord
	for _, rec := range titled {
		ok, err := selectRecord(rec, cfg.Selection)
		if err != nil {
			return nil, err
		}
		if ok && rec.Title != "" && rec.Year != 0 {
			selected = append(selected, rec)
		}
	}
	fmt.Fprintf(w, "Working rows (%s): %d\n", cfg.Selection, len(selected))
	return selected, nil
}

// selectRecord applies the identifier-presence selection mode. Matching only
// makes sense for records that lack a DOI; the mode decides which of the
// remaining identifier combinations to work on.
func selectRecord(rec types.SourceRecord, mode string) (bool, error) {
	hasDOI := rec.DOI != ""
	hasISI := rec.ISI != ""
	hasScopus := rec.ScopusID != ""

	switch mode {
	case "no-id":
		return !hasDOI && !hasISI && !hasScopus, nil
	case "scopus-only":
		return !hasDOI && !hasISI && hasScopus, nil
	case "isi-only":
		return !hasDOI && hasISI && !hasScopus, nil
	case "either":
		return !hasDOI && (hasISI != hasScopus), nil
	default:
		return false, fmt.Errorf("unknown selection mode %q", mode)
	}
}
