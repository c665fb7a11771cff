package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskradar/ip-risk-radar/internal/models"
)

// Params bound a single fetch: how far back to look, which exact phrases
// to search for, and how many items to return at most.
type Params struct {
	Lookback   time.Duration
	Phrases    []string
	MaxResults int
}

// Fetcher retrieves a bounded batch of candidate documents. On failure it
// returns an empty slice together with a typed error; it never retries.
type Fetcher interface {
	Fetch(ctx context.Context, p Params) ([]models.Document, error)
}

// buildQuery joins the search phrases as an OR of exact-phrase matches:
// "patent infringement" OR "lawsuit" OR ...
func buildQuery(phrases []string) string {
	quoted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		quoted = append(quoted, fmt.Sprintf("%q", p))
	}
	return strings.Join(quoted, " OR ")
}

// withinLookback reports whether ts falls inside the window ending at now.
// Documents with an unparseable (zero) date are kept; a missing date is
// not evidence the article is stale.
func withinLookback(ts, now time.Time, lookback time.Duration) bool {
	if ts.IsZero() {
		return true
	}
	return !ts.Before(now.Add(-lookback))
}
