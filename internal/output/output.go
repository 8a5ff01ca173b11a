// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes the result artifacts of a resolution run: the
// candidate CSV, the hyperlink workbook, the SQLite decisions database, the
// YAML run report, and the stdout summary table.
package output

import (
	"strconv"
	"strings"

	"github.com/pdiddy/doi-resolver/pkg/types"
)

// Row pairs an accepted source record with its match decision.
type Row struct {
	Record   types.SourceRecord
	Decision types.MatchDecision
}

// AcceptedRows joins records with their accepted decisions, preserving
// record order. Records without an accepted decision are left out: the
// candidate artifacts carry only rows that gained a DOI.
func AcceptedRows(records []types.SourceRecord, decisions map[string]types.MatchDecision) []Row {
	var rows []Row
	for _, rec := range records {
		if d, ok := decisions[rec.PID]; ok && d.Accepted() {
			rows = append(rows, Row{Record: rec, Decision: d})
		}
	}
	return rows
}

// columns is the artifact column order: the new DOI tiers sit directly
// after PID so reviewers see the result before the original identifiers.
var columns = []string{
	"PID",
	"Possible DOI:s",
	"Verified DOI",
	"DOI",
	"ISI",
	"ScopusId",
	"Title",
	"Year",
	"PublicationType",
	"Journal",
	"Volume",
	"Issue",
	"Pages",
	"StartPage",
	"EndPage",
	"ISSNs",
	"Name",
}

// values renders one row in column order.
func (r Row) values() []string {
	rec := r.Record
	year := ""
	if rec.Year != 0 {
		year = strconv.Itoa(rec.Year)
	}
	return []string{
		rec.PID,
		r.Decision.PossibleDOI,
		r.Decision.VerifiedDOI,
		rec.DOI,
		rec.ISI,
		rec.ScopusID,
		rec.Title,
		year,
		rec.PublicationType,
		rec.Journal,
		rec.Volume,
		rec.Issue,
		rec.Pages,
		rec.StartPage,
		rec.EndPage,
		strings.Join(rec.ISSNs, ";"),
		rec.Names,
	}
}
