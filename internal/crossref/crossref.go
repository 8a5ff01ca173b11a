// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref queries the Crossref REST API: a title search producing
// candidate summaries, and a per-DOI works fetch producing the deep metadata
// used for verification.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/doi-resolver/internal/httputil"
	"github.com/pdiddy/doi-resolver/internal/normalize"
	"github.com/pdiddy/doi-resolver/pkg/types"
)

// worksBase is the Crossref Works endpoint. Declared as a var so tests can
// substitute an httptest server.
var worksBase = "https://api.crossref.org/works"

// Client calls the Crossref REST API with polite-pool identification.
type Client struct {
	HTTP   *http.Client
	Config types.CrossrefConfig
}

// SearchTitle queries /works by title, filtered to the given publication
// year, and returns up to rows candidates in Crossref's relevance order.
// Items without a DOI are dropped; a missing issued year is reported as zero.
func (c *Client) SearchTitle(ctx context.Context, title string, year, rows int) ([]types.CandidateSummary, error) {
	if rows <= 0 {
		rows = 5
	}

	params := url.Values{
		"query.title": {normalize.CleanText(title)},
		"rows":        {strconv.Itoa(rows)},
		"select":      {"DOI,title,issued,type"},
	}
	if year > 0 {
		params.Set("filter", fmt.Sprintf("from-pub-date:%d-01-01,until-pub-date:%d-12-31", year, year))
	}
	if c.Config.Mailto != "" {
		params.Set("mailto", c.Config.Mailto)
	}

	var list worksListResponse
	if err := c.getJSON(ctx, worksBase+"?"+params.Encode(), &list); err != nil {
		return nil, fmt.Errorf("Crossref title search: %w", err)
	}

	var candidates []types.CandidateSummary
	for _, item := range list.Message.Items {
		if item.DOI == "" {
			continue
		}
		candidates = append(candidates, types.CandidateSummary{
			DOI:   item.DOI,
			Title: item.firstTitle(),
			Year:  item.issuedYear(),
			Type:  item.Type,
		})
	}
	return candidates, nil
}

// FetchWork retrieves the full metadata for one DOI and returns it in
// normalized form. Errors are returned as values; callers treat a failed
// fetch as "cannot verify", never as a fatal condition.
func (c *Client) FetchWork(ctx context.Context, doi string) (*types.CandidateDetail, error) {
	reqURL := worksBase + "/" + url.PathEscape(doi)
	if c.Config.Mailto != "" {
		reqURL += "?mailto=" + url.QueryEscape(c.Config.Mailto)
	}

	var work workResponse
	if err := c.getJSON(ctx, reqURL, &work); err != nil {
		return nil, fmt.Errorf("Crossref work fetch for %s: %w", doi, err)
	}
	return work.Message.detail(), nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)
	if c.Config.PlusToken != "" {
		req.Header.Set("Crossref-Plus-API-Token", "Bearer "+c.Config.PlusToken)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Config.MaxRetries)
	if err != nil {
		return fmt.Errorf("Crossref API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Crossref API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing Crossref response: %w", err)
	}
	return nil
}

// Crossref API JSON structures.
type worksListResponse struct {
	Message worksListMessage `json:"message"`
}

type worksListMessage struct {
	Items []workItem `json:"items"`
}

type workResponse struct {
	Message workItem `json:"message"`
}

type workItem struct {
	DOI           string           `json:"DOI"`
	Title         []string         `json:"title"`
	Type          string           `json:"type"`
	Issued        partedDate       `json:"issued"`
	Volume        string           `json:"volume"`
	Issue         string           `json:"issue"`
	Page          string           `json:"page"`
	ArticleNumber string           `json:"article-number"`
	ISSN          []string         `json:"ISSN"`
	JournalIssue  journalIssue     `json:"journal-issue"`
	Author        []crossrefAuthor `json:"author"`
}

type journalIssue struct {
	ISSN string `json:"ISSN"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type partedDate struct {
	DateParts [][]int `json:"date-parts"`
}

func (w workItem) firstTitle() string {
	if len(w.Title) > 0 {
		return w.Title[0]
	}
	return ""
}

func (w workItem) issuedYear() int {
	if len(w.Issued.DateParts) > 0 && len(w.Issued.DateParts[0]) > 0 {
		return w.Issued.DateParts[0][0]
	}
	return 0
}

// detail converts a work item into the normalized CandidateDetail shape:
// pages split on the first hyphen with the article number as start-page
// fallback, numeric-looking fields in canonical form, and the issue-level
// ISSN folded into the hyphen-stripped ISSN set.
func (w workItem) detail() *types.CandidateDetail {
	startPage, endPage := splitPages(w.Page)
	if startPage == "" {
		startPage = strings.TrimSpace(w.ArticleNumber)
	}

	issns := make([]string, 0, len(w.ISSN)+1)
	seen := make(map[string]bool)
	for _, raw := range append(append([]string{}, w.ISSN...), w.JournalIssue.ISSN) {
		if n := normalize.ISSN(raw); n != "" && !seen[n] {
			seen[n] = true
			issns = append(issns, n)
		}
	}

	var surnames []string
	for _, a := range w.Author {
		if fam := strings.ToLower(strings.TrimSpace(a.Family)); fam != "" {
			surnames = append(surnames, fam)
		}
	}

	return &types.CandidateDetail{
		Volume:    normalize.Field(w.Volume),
		Issue:     normalize.Field(w.Issue),
		StartPage: normalize.Field(startPage),
		EndPage:   normalize.Field(endPage),
		ISSNs:     issns,
		Surnames:  surnames,
	}
}

func splitPages(page string) (start, end string) {
	page = strings.TrimSpace(page)
	if page == "" {
		return "", ""
	}
	if before, after, found := strings.Cut(page, "-"); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return page, ""
}
