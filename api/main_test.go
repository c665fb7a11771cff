package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskradar/ip-risk-radar/internal/cache"
	"github.com/riskradar/ip-risk-radar/internal/config"
	"github.com/riskradar/ip-risk-radar/internal/models"
)

type stubRunner struct {
	report *models.AnalysisReport
	runs   int
}

func (s *stubRunner) Run(context.Context) *models.AnalysisReport {
	s.runs++
	return s.report
}

func sampleReport() *models.AnalysisReport {
	return &models.AnalysisReport{
		RunID:     "run-1",
		StartedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Fetched:   3,
		Scored:    3,
		Articles: []models.RiskAssessment{
			{Document: models.Document{Title: "low", URL: "https://l"}, Score: 0.1, Evidence: "low"},
			{Document: models.Document{Title: "mid", URL: "https://m"}, Score: 0.3, Evidence: "mid"},
			{Document: models.Document{Title: "high", URL: "https://h"}, Score: 0.6, Evidence: "high"},
		},
		Leaderboard: []models.LeaderboardEntry{
			{Entity: "Acme Corp", BestScore: 0.6, SourceURL: "https://h"},
		},
	}
}

func testServer(runner analysisRunner) *server {
	return &server{
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:     &config.API{Analysis: config.Analysis{RiskThreshold: 0}},
		pipe:    runner,
		reports: cache.New(time.Minute),
	}
}

func TestHandleArticlesThresholdFilter(t *testing.T) {
	srv := testServer(&stubRunner{report: sampleReport()})

	req := httptest.NewRequest(http.MethodGet, "/analysis/articles?threshold=0.2", nil)
	rec := httptest.NewRecorder()
	srv.handleArticles(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		RunID    string                  `json:"run_id"`
		Fetched  int                     `json:"fetched"`
		Articles []models.RiskAssessment `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "run-1", payload.RunID)
	require.Equal(t, 3, payload.Fetched)
	// Only 0.3 and 0.6 pass the 0.2 display threshold.
	require.Len(t, payload.Articles, 2)
	require.Equal(t, 0.3, payload.Articles[0].Score)
	require.Equal(t, 0.6, payload.Articles[1].Score)
}

func TestHandleArticlesCachesBetweenRequests(t *testing.T) {
	runner := &stubRunner{report: sampleReport()}
	srv := testServer(runner)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		srv.handleArticles(rec, httptest.NewRequest(http.MethodGet, "/analysis/articles", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Equal(t, 1, runner.runs)
}

func TestHandleRefreshInvalidatesCache(t *testing.T) {
	runner := &stubRunner{report: sampleReport()}
	srv := testServer(runner)

	srv.handleArticles(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/analysis/articles", nil))
	srv.handleRefresh(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/analysis/refresh", nil))
	require.Equal(t, 2, runner.runs)
}

func TestHandleLeaderboard(t *testing.T) {
	srv := testServer(&stubRunner{report: sampleReport()})

	rec := httptest.NewRecorder()
	srv.handleLeaderboard(rec, httptest.NewRequest(http.MethodGet, "/analysis/leaderboard", nil))

	var payload struct {
		Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Leaderboard, 1)
	require.Equal(t, "Acme Corp", payload.Leaderboard[0].Entity)
}

func TestHandleExportCSV(t *testing.T) {
	srv := testServer(&stubRunner{report: sampleReport()})

	rec := httptest.NewRecorder()
	srv.handleExport(rec, httptest.NewRequest(http.MethodGet, "/analysis/export.csv", nil))

	require.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 3 articles
	require.Equal(t, []string{"title", "risk", "url", "date"}, rows[0])
}

func TestHandleExportLeaderboardView(t *testing.T) {
	srv := testServer(&stubRunner{report: sampleReport()})

	rec := httptest.NewRecorder()
	srv.handleExport(rec, httptest.NewRequest(http.MethodGet, "/analysis/export.csv?view=leaderboard", nil))

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Acme Corp", rows[1][0])
}

func TestParseThreshold(t *testing.T) {
	require.Equal(t, 0.25, parseThreshold("0.25", 0))
	require.Equal(t, 0.5, parseThreshold("", 0.5))
	require.Equal(t, 0.5, parseThreshold("abc", 0.5))
	require.Equal(t, 0.5, parseThreshold("1.5", 0.5))
}
