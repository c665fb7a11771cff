package feed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskradar/ip-risk-radar/internal/models"
)

const articleHTML = `<!DOCTYPE html>
<html><head><title>Acme sued</title></head>
<body><article>
<p>Acme Corp was sued for patent infringement on Monday. The complaint was filed in Delaware.</p>
<p>A spokesperson for Acme Corp declined to comment on the pending lawsuit.</p>
</article></body></html>`

func TestBodyFetcherEnrich(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, articleHTML)
	}))
	defer srv.Close()

	b := NewBodyFetcher(0, discard())
	docs := []models.Document{
		{Title: "Acme sued", URL: srv.URL + "/story", RawText: "Acme sued"},
		{Title: "Gone", URL: srv.URL + "/missing", RawText: "Gone"},
	}

	enriched := b.Enrich(context.Background(), docs)
	require.Len(t, enriched, 2)
	require.Contains(t, enriched[0].RawText, "patent infringement")
	require.Contains(t, enriched[0].RawText, "declined to comment")
	// A failed page fetch leaves the title text in place.
	require.Equal(t, "Gone", enriched[1].RawText)
	// Inputs are not mutated.
	require.Equal(t, "Acme sued", docs[0].RawText)
}

func TestBodyFetcherThrottles(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		io.WriteString(w, articleHTML)
	}))
	defer srv.Close()

	delay := 30 * time.Millisecond
	b := NewBodyFetcher(delay, discard())
	docs := []models.Document{
		{URL: srv.URL + "/a", RawText: "a"},
		{URL: srv.URL + "/b", RawText: "b"},
		{URL: srv.URL + "/c", RawText: "c"},
	}

	start := time.Now()
	b.Enrich(context.Background(), docs)
	elapsed := time.Since(start)

	require.Equal(t, 3, hits)
	// First request is immediate, the next two wait out the delay.
	require.GreaterOrEqual(t, elapsed, 2*delay-5*time.Millisecond)
}

func TestBodyFetcherStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, articleHTML)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBodyFetcher(time.Second, discard())
	docs := []models.Document{{URL: srv.URL, RawText: "unchanged"}}

	enriched := b.Enrich(ctx, docs)
	require.Len(t, enriched, 1)
	require.True(t, strings.HasPrefix(enriched[0].RawText, "unchanged"))
}
