package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/riskradar/ip-risk-radar/internal/models"
	"github.com/riskradar/ip-risk-radar/internal/textproc"
)

const googleNewsBaseURL = "https://news.google.com/rss/search"

// GoogleNews fetches candidate documents from the Google News RSS search
// endpoint. No API key is needed.
type GoogleNews struct {
	BaseURL string
	parser  *gofeed.Parser
	log     *slog.Logger
	now     func() time.Time
}

// NewGoogleNews builds the RSS fetcher.
func NewGoogleNews(log *slog.Logger) *GoogleNews {
	return &GoogleNews{
		BaseURL: googleNewsBaseURL,
		parser:  gofeed.NewParser(),
		log:     log,
		now:     time.Now,
	}
}

// Fetch retrieves at most p.MaxResults items published inside the lookback
// window, preserving the feed's ranking order.
func (g *GoogleNews) Fetch(ctx context.Context, p Params) ([]models.Document, error) {
	query := url.Values{}
	query.Set("q", buildQuery(p.Phrases))
	query.Set("hl", "en-US")
	query.Set("gl", "US")
	query.Set("ceid", "US:en")

	feedURL := g.BaseURL + "?" + query.Encode()

	parsed, err := g.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, fmt.Errorf("%w: google news responded %s", ErrUpstream, httpErr.Status)
		}
		class := classify(err)
		return nil, fmt.Errorf("%w: %v", class, err)
	}

	now := g.now()
	docs := make([]models.Document, 0, p.MaxResults)
	for _, item := range parsed.Items {
		if len(docs) >= p.MaxResults {
			break
		}

		ts := itemTime(item)
		if !withinLookback(ts, now, p.Lookback) {
			continue
		}

		title := textproc.CleanText(item.Title)
		if title == "" {
			continue
		}

		raw := title
		if desc := textproc.CleanText(item.Description); desc != "" {
			raw = title + ". " + desc
		}

		docs = append(docs, models.Document{
			Title:       title,
			URL:         item.Link,
			PublishedAt: ts,
			RawText:     raw,
		})
	}

	g.log.Debug("google news fetch",
		slog.Int("items", len(parsed.Items)),
		slog.Int("kept", len(docs)),
	)
	return docs, nil
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.Published == "" {
		return time.Time{}
	}
	ts, err := dateparse.ParseAny(item.Published)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
