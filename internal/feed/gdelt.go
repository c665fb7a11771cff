package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/riskradar/ip-risk-radar/internal/models"
	"github.com/riskradar/ip-risk-radar/internal/textproc"
)

const (
	gdeltBaseURL  = "https://api.gdeltproject.org/api/v2/doc/doc"
	gdeltSeenDate = "20060102T150405Z"
)

// GDELT fetches candidate documents from the GDELT DOC 2.0 article search
// API, which returns bulk metadata in a single JSON request.
type GDELT struct {
	BaseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewGDELT builds the GDELT fetcher.
func NewGDELT(log *slog.Logger) *GDELT {
	return &GDELT{
		BaseURL: gdeltBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

type gdeltArticle struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	SeenDate    string `json:"seendate"`
	SocialImage string `json:"socialimage"`
	Domain      string `json:"domain"`
}

type gdeltResponse struct {
	Articles []gdeltArticle `json:"articles"`
}

// Fetch queries GDELT for articles matching the phrase set inside the
// lookback window, capped at p.MaxResults, in the API's ranking order.
func (g *GDELT) Fetch(ctx context.Context, p Params) ([]models.Document, error) {
	query := url.Values{}
	query.Set("query", buildQuery(p.Phrases))
	query.Set("mode", "ArtList")
	query.Set("format", "json")
	query.Set("maxrecords", strconv.Itoa(p.MaxResults))
	query.Set("timespan", timespan(p.Lookback))
	query.Set("sourcelang", "english")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build gdelt request: %w", err)
	}

	res, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", classify(err), err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("%w: gdelt responded %s: %s",
			ErrUpstream, res.Status, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading gdelt body: %v", ErrTransport, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: gdelt returned an empty body", ErrUpstream)
	}

	var parsed gdeltResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed gdelt body: %v", ErrUpstream, err)
	}

	docs := make([]models.Document, 0, len(parsed.Articles))
	for _, article := range parsed.Articles {
		if len(docs) >= p.MaxResults {
			break
		}

		title := textproc.CleanText(article.Title)
		if title == "" {
			continue
		}

		docs = append(docs, models.Document{
			Title:       title,
			URL:         article.URL,
			PublishedAt: seenTime(article.SeenDate),
			RawText:     title,
		})
	}

	g.log.Debug("gdelt fetch", slog.Int("kept", len(docs)))
	return docs, nil
}

// timespan renders the lookback window in GDELT's "Nd" shorthand, rounding
// up so a partial day still covers the window.
func timespan(lookback time.Duration) string {
	days := int(lookback / (24 * time.Hour))
	if lookback%(24*time.Hour) != 0 || days == 0 {
		days++
	}
	return strconv.Itoa(days) + "d"
}

func seenTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(gdeltSeenDate, raw); err == nil {
		return ts.UTC()
	}
	if ts, err := dateparse.ParseAny(raw); err == nil {
		return ts.UTC()
	}
	return time.Time{}
}
