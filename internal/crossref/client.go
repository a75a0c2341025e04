// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref queries the CrossRef REST API: free-text bibliographic
// search for the resolve path, per-DOI metadata fetches for export.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/doi-finder/internal/httputil"
	"github.com/pdiddy/doi-finder/pkg/types"
)

// worksAPIBase is the CrossRef works endpoint. Declared as a var so tests
// can substitute an httptest server.
var worksAPIBase = "https://api.crossref.org/works"

// Source identifies this service in Match records.
const Source = "crossref"

// selectFields narrows search responses to the fields the resolver reads.
const selectFields = "DOI,title,score"

const (
	defaultTimeout = 30 * time.Second
	defaultRows    = 5
	defaultRate    = 1 // requests per second
)

// Client is a rate-limited CrossRef API client. A single Client paces all
// its requests through one limiter, so the service never sees more than the
// configured rate regardless of which method is calling.
type Client struct {
	httpClient *http.Client
	cfg        types.ResolverConfig
	limiter    *rate.Limiter
}

// NewClient builds a Client from cfg. Zero values fall back to defaults:
// 30 s timeout, 5 rows, 1 request/second, a User-Agent derived from Mailto.
func NewClient(cfg types.ResolverConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Rows <= 0 {
		cfg.Rows = defaultRows
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRate
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = UserAgent("", cfg.Mailto)
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// UserAgent returns the identifying User-Agent string, including the
// polite-pool mailto clause when an address is configured.
func UserAgent(version, mailto string) string {
	ua := "doi-finder"
	if version != "" {
		ua += "/" + version
	}
	if mailto != "" {
		ua += " (mailto:" + mailto + ")"
	}
	return ua
}

// BestMatch queries the works index with the citation text and returns the
// top-ranked candidate. Results are ordered by relevance score server-side
// and only the first is considered: if it carries no DOI the lookup is
// ErrNoMatch. Exactly one HTTP request is issued per call; transient
// failures are returned to the caller, not retried.
func (c *Client) BestMatch(ctx context.Context, query string) (types.Match, error) {
	if strings.TrimSpace(query) == "" {
		return types.Match{}, fmt.Errorf("empty query")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return types.Match{}, err
	}

	params := url.Values{
		"query.bibliographic": {query},
		"rows":                {strconv.Itoa(c.cfg.Rows)},
		"sort":                {"score"},
		"order":               {"desc"},
		"select":              {selectFields},
	}
	if c.cfg.Mailto != "" {
		params.Set("mailto", c.cfg.Mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, worksAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return types.Match{}, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.Match{}, fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Match{}, fmt.Errorf("CrossRef API returned HTTP %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return types.Match{}, fmt.Errorf("parsing CrossRef response: %w", err)
	}

	if len(sr.Message.Items) == 0 {
		return types.Match{}, ErrNoMatch
	}
	top := sr.Message.Items[0]
	if top.DOI == "" {
		return types.Match{}, ErrNoMatch
	}

	m := types.Match{DOI: top.DOI, Score: top.Score, Source: Source}
	if len(top.Title) > 0 {
		m.Title = top.Title[0]
	}
	return m, nil
}

// WorkByDOI fetches full metadata for a known DOI. Unlike BestMatch it
// retries transient rejections, since export callers asked for that row by
// name and want it complete.
func (c *Client) WorkByDOI(ctx context.Context, doi string) (types.Work, error) {
	if strings.TrimSpace(doi) == "" {
		return types.Work{}, fmt.Errorf("empty DOI")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return types.Work{}, err
	}

	apiURL := worksAPIBase + "/" + url.PathEscape(doi)
	if c.cfg.Mailto != "" {
		apiURL += "?mailto=" + url.QueryEscape(c.cfg.Mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return types.Work{}, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return types.Work{}, fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return types.Work{}, fmt.Errorf("%w: %s", ErrNotFound, doi)
	}
	if resp.StatusCode != http.StatusOK {
		return types.Work{}, fmt.Errorf("CrossRef API returned HTTP %d", resp.StatusCode)
	}

	var wr workResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return types.Work{}, fmt.Errorf("parsing CrossRef response: %w", err)
	}
	return wr.Message.toWork(doi), nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.cfg.PlusToken != "" {
		req.Header.Set("Crossref-Plus-API-Token", "Bearer "+c.cfg.PlusToken)
	}
}

// CrossRef API JSON structures.
type searchResponse struct {
	Message searchMessage `json:"message"`
}

type searchMessage struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	DOI   string   `json:"DOI"`
	Title []string `json:"title"`
	Score float64  `json:"score"`
}

type workResponse struct {
	Message workMessage `json:"message"`
}

type workMessage struct {
	DOI            string           `json:"DOI"`
	Type           string           `json:"type"`
	Title          []string         `json:"title"`
	Author         []crossrefAuthor `json:"author"`
	ContainerTitle []string         `json:"container-title"`
	Volume         string           `json:"volume"`
	Issue          string           `json:"issue"`
	Page           string           `json:"page"`
	Publisher      string           `json:"publisher"`
	Issued         crossrefDate     `json:"issued"`
	Created        crossrefDate     `json:"created"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

func (m workMessage) toWork(doi string) types.Work {
	w := types.Work{
		DOI:       m.DOI,
		Type:      m.Type,
		Volume:    m.Volume,
		Issue:     m.Issue,
		Pages:     m.Page,
		Publisher: m.Publisher,
	}
	if w.DOI == "" {
		w.DOI = doi
	}
	if len(m.Title) > 0 {
		w.Title = m.Title[0]
	}
	if len(m.ContainerTitle) > 0 {
		w.ContainerTitle = m.ContainerTitle[0]
	}
	for _, a := range m.Author {
		w.Authors = append(w.Authors, types.WorkAuthor{Given: a.Given, Family: a.Family})
	}
	if d, ok := dateFromParts(m.Issued); ok {
		w.Issued = d
	} else if d, ok := dateFromParts(m.Created); ok {
		w.Issued = d
	}
	return w
}

// dateFromParts converts a CrossRef date-parts value ([[year, month, day]])
// to a time.Time. Month and day default to 1 when the service reports a
// partial date.
func dateFromParts(d crossrefDate) (time.Time, bool) {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return time.Time{}, false
	}
	p := d.DateParts[0]
	year, month, day := p[0], 1, 1
	if len(p) > 1 {
		month = p[1]
	}
	if len(p) > 2 {
		day = p[2]
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
