package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/time/rate"

	"github.com/riskradar/ip-risk-radar/internal/models"
	"github.com/riskradar/ip-risk-radar/internal/textproc"
)

// BodyFetcher optionally replaces a document's RawText with the readable
// body extracted from the article page. Requests are throttled as a
// courtesy to the upstream sites; a failed extraction leaves the document
// with its title text.
type BodyFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewBodyFetcher builds a fetcher that waits at least delay between
// successive page requests.
func NewBodyFetcher(delay time.Duration, log *slog.Logger) *BodyFetcher {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &BodyFetcher{
		client:  &http.Client{Timeout: 20 * time.Second},
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}
}

// Enrich fetches article bodies for the batch, in order, skipping any
// document whose page cannot be retrieved or parsed.
func (b *BodyFetcher) Enrich(ctx context.Context, docs []models.Document) []models.Document {
	out := make([]models.Document, len(docs))
	copy(out, docs)

	for i := range out {
		if err := b.limiter.Wait(ctx); err != nil {
			break
		}
		body, err := b.fetchBody(ctx, out[i].URL)
		if err != nil {
			b.log.Debug("body fetch failed", slog.String("url", out[i].URL), slog.Any("err", err))
			continue
		}
		if body != "" {
			out[i].RawText = body
		}
	}
	return out
}

func (b *BodyFetcher) fetchBody(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}

	res, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page responded %s", res.Status)
	}

	article, err := readability.FromReader(res.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("extract body: %w", err)
	}

	return textproc.CleanText(article.TextContent), nil
}
