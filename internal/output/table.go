// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pdiddy/doi-resolver/internal/match"
)

// SummaryTable renders the outcome tallies of a run as a rounded table for
// the terminal.
func SummaryTable(result match.RunResult) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"outcome", "count"})

	rows := []struct {
		label string
		count int
	}{
		{"processed", result.Processed()},
		{"candidates considered", result.Candidates},
		{"verified", result.Verified},
		{"possible", result.Possible},
		{"rejected", result.Rejected},
		{"skipped", result.Skipped},
		{"failed", result.Failed},
	}
	for _, r := range rows {
		tw.AppendRow(table.Row{r.label, r.count})
	}
	tw.AppendFooter(table.Row{"accepted", strconv.Itoa(result.Accepted()) + capSuffix(result)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func capSuffix(result match.RunResult) string {
	if result.CapReached {
		return " (cap reached)"
	}
	return ""
}
