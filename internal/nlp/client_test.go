package nlp_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskradar/ip-risk-radar/internal/nlp"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNegativity(t *testing.T) {
	labels := []nlp.LabelScore{
		{Label: "Positive", Score: 0.1},
		{Label: "Negative", Score: 0.8},
		{Label: "Neutral", Score: 0.1},
	}
	require.Equal(t, 0.8, nlp.Negativity(labels))

	// Missing label defaults the component to zero.
	require.Equal(t, 0.0, nlp.Negativity([]nlp.LabelScore{{Label: "Positive", Score: 1}}))
	require.Equal(t, 0.0, nlp.Negativity(nil))

	// Out-of-range scores are clamped.
	require.Equal(t, 1.0, nlp.Negativity([]nlp.LabelScore{{Label: "negative", Score: 1.3}}))
}

func TestExtractionOrgs(t *testing.T) {
	ex := nlp.Extraction{Entities: []nlp.Entity{
		{Text: "Acme Corp", Type: "ORG"},
		{Text: "John Smith", Type: "PERSON"},
		{Text: "Initech Inc", Type: "org"},
	}}
	require.Equal(t, []string{"Acme Corp", "Initech Inc"}, ex.Orgs())
}

func TestClientSentiment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sentiment", r.URL.Path)
		io.WriteString(w, `{"labels":[{"label":"Negative","score":0.72},{"label":"Positive","score":0.28}]}`)
	}))
	defer srv.Close()

	c := nlp.NewClient(srv.URL, discard())
	labels, err := c.Sentiment(context.Background(), "Acme was sued")
	require.NoError(t, err)
	require.Len(t, labels, 2)
	require.Equal(t, 0.72, nlp.Negativity(labels))
}

func TestClientExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/extract", r.URL.Path)
		io.WriteString(w, `{"sentences":["Acme Corp was sued."],"entities":[{"text":"Acme Corp","type":"ORG"}]}`)
	}))
	defer srv.Close()

	c := nlp.NewClient(srv.URL, discard())
	ex, err := c.Extract(context.Background(), "Acme Corp was sued.")
	require.NoError(t, err)
	require.Equal(t, []string{"Acme Corp was sued."}, ex.Sentences)
	require.Equal(t, []string{"Acme Corp"}, ex.Orgs())
}

func TestClientWarmupOnce(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := nlp.NewClient(srv.URL, discard())
	require.NoError(t, c.Warmup(context.Background()))
	require.NoError(t, c.Warmup(context.Background()))
	require.Equal(t, 1, calls)
}

func TestClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := nlp.NewClient(srv.URL, discard())
	_, err := c.Sentiment(context.Background(), "text")
	require.Error(t, err)
	require.Contains(t, err.Error(), "model not loaded")
}
