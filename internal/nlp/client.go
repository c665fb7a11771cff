package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Client talks to the NLP inference service over HTTP. The service loads
// its models on first use, so the client exposes an explicit Warmup that
// runs at most once per process.
type Client struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger

	warmOnce sync.Once
	warmErr  error
}

// NewClient builds a client for the inference service at baseURL.
func NewClient(baseURL string, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
		log:     log,
	}
}

// Warmup asks the service to load its models. Safe to call repeatedly;
// only the first call does work and its outcome is remembered.
func (c *Client) Warmup(ctx context.Context) error {
	c.warmOnce.Do(func() {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/warmup", nil)
		if err != nil {
			c.warmErr = err
			return
		}
		res, err := c.client.Do(req)
		if err != nil {
			c.warmErr = fmt.Errorf("nlp warmup: %w", err)
			return
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			c.warmErr = fmt.Errorf("nlp warmup failed: %s", res.Status)
			return
		}
		c.log.Info("nlp models loaded", slog.Duration("took", time.Since(start)))
	})
	return c.warmErr
}

type textRequest struct {
	Text string `json:"text"`
}

type sentimentResponse struct {
	Labels []LabelScore `json:"labels"`
}

// Sentiment classifies text and returns the label/score set.
func (c *Client) Sentiment(ctx context.Context, text string) ([]LabelScore, error) {
	var parsed sentimentResponse
	if err := c.post(ctx, "/sentiment", textRequest{Text: text}, &parsed); err != nil {
		return nil, err
	}
	return parsed.Labels, nil
}

// Extract returns sentence boundaries and named entities for text.
func (c *Client) Extract(ctx context.Context, text string) (Extraction, error) {
	var parsed Extraction
	if err := c.post(ctx, "/extract", textRequest{Text: text}, &parsed); err != nil {
		return Extraction{}, err
	}
	return parsed, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("nlp request %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("nlp %s responded %s: %s", path, res.Status, strings.TrimSpace(string(data)))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode nlp %s response: %w", path, err)
	}
	return nil
}
