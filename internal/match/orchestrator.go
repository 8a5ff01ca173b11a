// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/doi-resolver/pkg/types"
)

// Status classifies the outcome of one record iteration.
type Status string

const (
	// StatusVerified and StatusPossible carry an accepted decision.
	StatusVerified Status = "verified"
	StatusPossible Status = "possible"

	// StatusRejected means the record was searched but no candidate
	// passed the minimum gates.
	StatusRejected Status = "rejected"

	// StatusSkipped means the record never entered matching: empty title,
	// missing year, no candidates, or a failed search.
	StatusSkipped Status = "skipped"

	// StatusFailed means the record raised an unexpected error that was
	// caught at the record boundary.
	StatusFailed Status = "failed"
)

// Outcome is the explicit per-record result. Decision is meaningful only
// for StatusVerified and StatusPossible.
type Outcome struct {
	PID      string
	Status   Status
	Reason   string
	Decision types.MatchDecision
}

// RunResult summarizes a batch run.
type RunResult struct {
	Outcomes []Outcome

	Verified   int
	Possible   int
	Rejected   int
	Skipped    int
	Failed     int
	Candidates int
	CapReached bool
}

// Accepted returns the number of records with a decision in either tier.
func (r RunResult) Accepted() int { return r.Verified + r.Possible }

// Processed returns the number of record iterations that ran.
func (r RunResult) Processed() int { return len(r.Outcomes) }

// Decisions returns the accepted decisions keyed by record PID.
func (r RunResult) Decisions() map[string]types.MatchDecision {
	decisions := make(map[string]types.MatchDecision, r.Accepted())
	for _, out := range r.Outcomes {
		if out.Decision.Accepted() {
			decisions[out.PID] = out.Decision
		}
	}
	return decisions
}

// Orchestrator resolves source records strictly sequentially: one record is
// fully handled, including its detail fetches, before the next begins. The
// accepted count and the growing outcome list are the only state crossing
// record boundaries, and both are mutated only between iterations.
type Orchestrator struct {
	Search Searcher
	Fetch  Fetcher
	Config types.MatchConfig

	// Rows is the candidate count requested per title search.
	Rows int

	Log zerolog.Logger
}

// Run processes records in input order, writing a running account to w.
// Once the accepted count reaches the configured cap no further searches
// are issued; outcomes gathered so far are returned. After every record
// iteration a fixed pause bounds the outbound request rate, regardless of
// the iteration's outcome. Detail fetches within a record are not throttled
// beyond that pause.
func (o *Orchestrator) Run(ctx context.Context, records []types.SourceRecord, w io.Writer) RunResult {
	var result RunResult

	// The limiter starts drained so every Wait pauses one full interval.
	var limiter *rate.Limiter
	if o.Config.RecordDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(o.Config.RecordDelay), 1)
		limiter.Allow()
	}

	for i, rec := range records {
		if o.Config.MaxAccepted > 0 && result.Accepted() >= o.Config.MaxAccepted {
			fmt.Fprintf(w, "reached acceptance cap (%d), stopping early\n", o.Config.MaxAccepted)
			result.CapReached = true
			break
		}

		out, considered := o.processRecord(ctx, rec)
		result.Outcomes = append(result.Outcomes, out)
		result.Candidates += considered

		switch out.Status {
		case StatusVerified:
			result.Verified++
		case StatusPossible:
			result.Possible++
		case StatusRejected:
			result.Rejected++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}

		fmt.Fprintf(w, "[%d/%d] %s: %s%s (accepted %d)\n",
			i+1, len(records), rec.PID, out.Status, reasonSuffix(out), result.Accepted())

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				o.Log.Warn().Err(err).Msg("run interrupted during record pause")
				break
			}
		}
	}

	fmt.Fprintf(w, "\nprocessed: %d, verified: %d, possible: %d, rejected: %d, skipped: %d, failed: %d\n",
		result.Processed(), result.Verified, result.Possible, result.Rejected, result.Skipped, result.Failed)
	return result
}

// processRecord resolves one record. Unexpected failures are caught here,
// at the record boundary, and become a failed outcome: one bad record never
// aborts the batch, and no partial decision is kept for it.
func (o *Orchestrator) processRecord(ctx context.Context, rec types.SourceRecord) (out Outcome, considered int) {
	defer func() {
		if p := recover(); p != nil {
			o.Log.Error().Str("pid", rec.PID).Interface("panic", p).
				Msg("unexpected failure while resolving record")
			out = Outcome{PID: rec.PID, Status: StatusFailed, Reason: fmt.Sprintf("unexpected failure: %v", p)}
		}
	}()

	if rec.Title == "" {
		return Outcome{PID: rec.PID, Status: StatusSkipped, Reason: "empty title"}, 0
	}
	if rec.Year == 0 {
		return Outcome{PID: rec.PID, Status: StatusSkipped, Reason: "missing or unparseable year"}, 0
	}

	candidates, err := o.Search.SearchTitle(ctx, rec.Title, rec.Year, o.Rows)
	if err != nil {
		// Transient search failures degrade to no candidates for this
		// record only; the run continues.
		o.Log.Warn().Str("pid", rec.PID).Err(err).Msg("candidate search failed")
		return Outcome{PID: rec.PID, Status: StatusSkipped, Reason: fmt.Sprintf("search failed: %v", err)}, 0
	}
	if len(candidates) == 0 {
		return Outcome{PID: rec.PID, Status: StatusSkipped, Reason: "no candidates"}, 0
	}

	decision := EvaluateCandidates(ctx, rec, candidates, o.Fetch, o.Config, o.Log)

	switch {
	case decision.Verified():
		o.Log.Info().Str("pid", rec.PID).Str("doi", decision.VerifiedDOI).
			Float64("similarity", decision.Similarity).Msg("accepted verified DOI")
		return Outcome{PID: rec.PID, Status: StatusVerified, Decision: decision}, len(candidates)
	case decision.Accepted():
		o.Log.Info().Str("pid", rec.PID).Str("doi", decision.PossibleDOI).
			Float64("similarity", decision.Similarity).Msg("accepted possible DOI")
		return Outcome{PID: rec.PID, Status: StatusPossible, Decision: decision}, len(candidates)
	default:
		o.Log.Info().Str("pid", rec.PID).Msg("rejected all candidates")
		return Outcome{PID: rec.PID, Status: StatusRejected, Reason: "no candidate passed the minimum checks"}, len(candidates)
	}
}

func reasonSuffix(out Outcome) string {
	if out.Reason == "" {
		return ""
	}
	return " (" + out.Reason + ")"
}
