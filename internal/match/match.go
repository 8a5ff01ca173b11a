// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match ranks Crossref candidates against source records and drives
// the per-record resolution workflow. Candidates pass through year, type and
// similarity gates; survivors are verified against deep metadata, and the
// best candidate per record becomes a verified or possible DOI decision.
package match

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pdiddy/doi-resolver/internal/normalize"
	"github.com/pdiddy/doi-resolver/internal/pubtype"
	"github.com/pdiddy/doi-resolver/internal/verify"
	"github.com/pdiddy/doi-resolver/pkg/types"
)

// Searcher is the candidate-search collaborator: a title search returning
// an ordered candidate list. A transient failure is reported as an error
// and treated by the orchestrator as no candidates for that record.
type Searcher interface {
	SearchTitle(ctx context.Context, title string, year, rows int) ([]types.CandidateSummary, error)
}

// Fetcher is the detail-fetch collaborator: one deep metadata fetch per
// qualifying candidate. Failures are non-blocking; the candidate simply
// cannot be verified.
type Fetcher interface {
	FetchWork(ctx context.Context, doi string) (*types.CandidateDetail, error)
}

// EvaluateCandidates filters and ranks the candidates for one source record
// and returns its decision. Candidates are considered in search order:
//
//  1. the candidate year must equal the source year exactly,
//  2. known type categories on both sides must agree (unknown is permissive),
//  3. title similarity must reach the configured threshold.
//
// The highest-similarity survivor is tracked as the best possible match
// independent of verification. Deep metadata is fetched only for survivors;
// a failed or empty fetch leaves the candidate eligible as possible. Among
// verified candidates the highest similarity wins. A verified decision
// clears the possible tier: the two are mutually exclusive.
func EvaluateCandidates(ctx context.Context, src types.SourceRecord, candidates []types.CandidateSummary, fetch Fetcher, cfg types.MatchConfig, log zerolog.Logger) types.MatchDecision {
	srcCat := pubtype.FromDiva(src.PublicationType)

	var (
		bestVerified  types.MatchDecision
		bestPossible  types.MatchDecision
		verifiedScore float64
		possibleScore float64
	)

	for _, cand := range candidates {
		clog := log.With().Str("pid", src.PID).Str("doi", cand.DOI).Logger()

		if cand.Year != src.Year {
			clog.Debug().Int("candidate_year", cand.Year).Int("source_year", src.Year).
				Msg("candidate rejected: year mismatch")
			continue
		}

		candCat := pubtype.FromCrossref(cand.Type)
		if !pubtype.Compatible(srcCat, candCat) {
			clog.Debug().Str("source_category", string(srcCat)).
				Str("candidate_category", string(candCat)).
				Msg("candidate rejected: type mismatch")
			continue
		}

		sim := normalize.TitleSimilarity(src.Title, cand.Title)
		if sim < cfg.SimilarityThreshold {
			clog.Debug().Float64("similarity", sim).
				Float64("threshold", cfg.SimilarityThreshold).
				Msg("candidate rejected: below similarity threshold")
			continue
		}

		if sim > possibleScore {
			possibleScore = sim
			bestPossible = types.MatchDecision{
				PID:           src.PID,
				PossibleDOI:   cand.DOI,
				Similarity:    sim,
				CandidateYear: cand.Year,
			}
		}

		detail, err := fetch.FetchWork(ctx, cand.DOI)
		if err != nil || detail == nil {
			clog.Warn().Err(err).Msg("detail fetch unavailable, candidate stays possible-only")
			continue
		}

		res := verify.Record(src, *detail, cfg.Verify)
		if !res.Verified() {
			clog.Debug().Bool("issn", res.ISSN).Bool("fields", res.Fields).
				Bool("authors", res.Authors).
				Msg("candidate not verified")
			continue
		}

		if sim > verifiedScore {
			verifiedScore = sim
			bestVerified = types.MatchDecision{
				PID:           src.PID,
				VerifiedDOI:   cand.DOI,
				Similarity:    sim,
				CandidateYear: cand.Year,
			}
		}
	}

	if bestVerified.VerifiedDOI != "" {
		return bestVerified
	}
	if bestPossible.PossibleDOI != "" {
		return bestPossible
	}
	return types.MatchDecision{PID: src.PID}
}
