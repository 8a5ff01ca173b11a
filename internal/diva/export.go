// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package diva builds DiVA portal export queries, downloads the CSV export,
// parses it into source records, and applies the row selection that decides
// which records enter matching.
package diva

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pdiddy/doi-resolver/pkg/types"
)

// exportFields is the fl parameter of the export query: the full column set
// carried through to the output artifacts.
const exportFields = "PID,ArticleId,DOI,EndPage,ISBN,ISBN_ELECTRONIC,ISBN_PRINT,ISBN_UNDEFINED," +
	"ISI,Issue,Journal,JournalEISSN,JournalISSN,Pages,PublicationType,PMID," +
	"ScopusId,SeriesEISSN,SeriesISSN,StartPage,Title,Name,Volume,Year"

// browserUserAgent is sent with export downloads. The DiVA export endpoint
// rejects requests from obvious non-browser agents.
const browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0 Safari/537.36"

// ExportURL builds the smash/export.jsf query for one portal and year range:
// CSV format, the publication-type filter covering the matchable categories,
// and the full field list.
func ExportURL(portal string, fromYear, toYear int) string {
	aq := fmt.Sprintf(`[[{"dateIssued":{"from":"%d","to":"%d"}}]]`, fromYear, toYear)
	aq2 := `[[{"publicationTypeCode":["bookReview","review","article","book","chapter","conferencePaper"]}]]`

	params := url.Values{
		"format":       {"csv"},
		"addFilename":  {"true"},
		"aq":           {aq},
		"aqe":          {"[]"},
		"aq2":          {aq2},
		"onlyFullText": {"false"},
		"noOfRows":     {"99999"},
		"sortOrder":    {"title_sort_asc"},
		"sortOrder2":   {"title_sort_asc"},
		"csvType":      {"publication"},
		"fl":           {exportFields},
	}
	return fmt.Sprintf("https://%s.diva-portal.org/smash/export.jsf?%s", portal, params.Encode())
}

// ExportPath returns the local path for a downloaded export, named after the
// year range so successive ranges never collide.
func ExportPath(cfg types.DivaConfig) string {
	return filepath.Join(cfg.ExportsDir, fmt.Sprintf("%d-%d_diva_raw.csv", cfg.FromYear, cfg.ToYear))
}

// Download fetches url to destPath using a temporary file renamed on success,
// so a failed download never leaves a partial export behind.
func Download(client *http.Client, url, destPath string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing export: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
