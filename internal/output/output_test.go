// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doi-resolver/internal/match"
	"github.com/pdiddy/doi-resolver/pkg/types"
)

func sampleRecords() []types.SourceRecord {
	return []types.SourceRecord{
		{PID: "1001", Title: "First paper", Year: 1999, PublicationType: "article",
			Journal: "Acta", Volume: "5", Issue: "2", StartPage: "10", EndPage: "20",
			ISSNs: []string{"1234-5678"}, Names: "Doe, Jane (KTH)", ISI: "A1999X"},
		{PID: "1002", Title: "Second paper", Year: 1999},
		{PID: "1003", Title: "Third paper", Year: 1999, ScopusID: "2-s2.0-42"},
	}
}

func sampleDecisions() map[string]types.MatchDecision {
	return map[string]types.MatchDecision{
		"1001": {PID: "1001", VerifiedDOI: "10.1/first", Similarity: 1.0, CandidateYear: 1999},
		"1003": {PID: "1003", PossibleDOI: "10.1/third", Similarity: 0.95, CandidateYear: 1999},
	}
}

func TestAcceptedRows(t *testing.T) {
	rows := AcceptedRows(sampleRecords(), sampleDecisions())

	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2 (undecided record left out)", len(rows))
	}
	if rows[0].Record.PID != "1001" || rows[1].Record.PID != "1003" {
		t.Errorf("row order = %s, %s; want record order", rows[0].Record.PID, rows[1].Record.PID)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "candidates.csv")
	rows := AcceptedRows(sampleRecords(), sampleDecisions())

	if err := WriteCSV(path, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(records))
	}
	header := records[0]
	// The DOI tiers sit directly after PID.
	if header[0] != "PID" || header[1] != "Possible DOI:s" || header[2] != "Verified DOI" || header[3] != "DOI" {
		t.Errorf("header = %v", header[:4])
	}
	if records[1][2] != "10.1/first" || records[1][1] != "" {
		t.Errorf("verified row = %v", records[1])
	}
	if records[2][1] != "10.1/third" || records[2][2] != "" {
		t.Errorf("possible row = %v", records[2])
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "candidates.xlsx")
	rows := AcceptedRows(sampleRecords(), sampleDecisions())

	if err := WriteWorkbook(path, "kth", rows); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(sheetName, "A1")
	if err != nil || got != "PID" {
		t.Errorf("A1 = %q (%v), want PID", got, err)
	}
	got, err = f.GetCellValue(sheetName, "B1")
	if err != nil || got != "PID link" {
		t.Errorf("B1 = %q (%v), want PID link", got, err)
	}

	// First data row: the PID link cell carries a hyperlink.
	ok, link, err := f.GetCellHyperLink(sheetName, "B2")
	if err != nil {
		t.Fatalf("GetCellHyperLink: %v", err)
	}
	if !ok || !strings.Contains(link, "kth.diva-portal.org") || !strings.Contains(link, "1001") {
		t.Errorf("PID hyperlink = %q (ok=%v)", link, ok)
	}
	display, err := f.GetCellValue(sheetName, "B2")
	if err != nil || display != "PID" {
		t.Errorf("link display = %q (%v)", display, err)
	}

	// A record without an ISI value gets no hyperlink in the ISI link column.
	ok, _, err = f.GetCellHyperLink(sheetName, "I3")
	if err != nil {
		t.Fatalf("GetCellHyperLink: %v", err)
	}
	if ok {
		t.Error("empty ISI must not produce a hyperlink")
	}
}

func TestWriteDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "decisions.db")
	outcomes := []match.Outcome{
		{PID: "1001", Status: match.StatusVerified,
			Decision: types.MatchDecision{PID: "1001", VerifiedDOI: "10.1/first", Similarity: 1.0, CandidateYear: 1999}},
		{PID: "1002", Status: match.StatusRejected, Reason: "no candidate passed the minimum checks"},
		{PID: "1004", Status: match.StatusSkipped, Reason: "empty title"},
	}

	if err := WriteDatabase(context.Background(), path, outcomes); err != nil {
		t.Fatalf("WriteDatabase: %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT count(*) FROM decisions`).Scan(&count); err != nil {
		t.Fatalf("counting decisions: %v", err)
	}
	if count != 3 {
		t.Errorf("decisions = %d, want 3", count)
	}

	var doi, status string
	err = db.QueryRow(`SELECT verified_doi, status FROM decisions WHERE pid = '1001'`).Scan(&doi, &status)
	if err != nil {
		t.Fatalf("querying decision: %v", err)
	}
	if doi != "10.1/first" || status != "verified" {
		t.Errorf("decision = %q %q", doi, status)
	}
}

func TestWriteDatabaseReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.db")

	first := []match.Outcome{{PID: "1", Status: match.StatusRejected}}
	if err := WriteDatabase(context.Background(), path, first); err != nil {
		t.Fatal(err)
	}
	second := []match.Outcome{{PID: "2", Status: match.StatusRejected}, {PID: "3", Status: match.StatusRejected}}
	if err := WriteDatabase(context.Background(), path, second); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT count(*) FROM decisions`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("decisions = %d, want 2 (previous run replaced)", count)
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "report.yaml")

	cfg := types.DefaultConfig()
	cfg.Diva.FromYear = 1999
	cfg.Diva.ToYear = 2000
	result := match.RunResult{
		Outcomes:   make([]match.Outcome, 5),
		Verified:   2,
		Possible:   1,
		Rejected:   1,
		Skipped:    1,
		Candidates: 12,
	}

	if err := WriteReport(path, BuildReport(cfg, result)); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Report
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("parsing report: %v", err)
	}
	if got.Processed != 5 || got.Accepted != 3 || got.FromYear != 1999 {
		t.Errorf("report = %+v", got)
	}
	if got.SimilarityThreshold != 0.9 {
		t.Errorf("threshold = %v", got.SimilarityThreshold)
	}
	if got.CompletedAt.IsZero() {
		t.Error("completed_at missing")
	}
}

func TestSummaryTable(t *testing.T) {
	result := match.RunResult{
		Outcomes:   make([]match.Outcome, 4),
		Verified:   2,
		Possible:   1,
		Rejected:   1,
		Candidates: 9,
		CapReached: true,
	}

	rendered := SummaryTable(result)
	for _, want := range []string{"verified", "possible", "candidates considered", "cap reached"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("summary table missing %q:\n%s", want, rendered)
		}
	}
}
