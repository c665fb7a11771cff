package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/riskradar/ip-risk-radar/internal/cache"
	"github.com/riskradar/ip-risk-radar/internal/config"
	"github.com/riskradar/ip-risk-radar/internal/export"
	"github.com/riskradar/ip-risk-radar/internal/feed"
	"github.com/riskradar/ip-risk-radar/internal/logger"
	"github.com/riskradar/ip-risk-radar/internal/models"
	"github.com/riskradar/ip-risk-radar/internal/nlp"
	"github.com/riskradar/ip-risk-radar/internal/pipeline"
)

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	pipe := pipeline.New(cfg.Analysis, buildDeps(&cfg.Analysis, log), log)
	srv := &server{
		log:     log,
		cfg:     cfg,
		pipe:    pipe,
		reports: cache.New(cfg.CacheTTL),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	r.Get("/analysis", srv.handleAnalysis)
	r.Get("/analysis/articles", srv.handleArticles)
	r.Get("/analysis/leaderboard", srv.handleLeaderboard)
	r.Get("/analysis/export.csv", srv.handleExport)
	r.Post("/analysis/refresh", srv.handleRefresh)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      3 * time.Minute, // a cold run fetches the feed
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting",
			slog.String("addr", cfg.BindAddr),
			slog.String("policy", cfg.Policy),
			slog.String("source", cfg.Source),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

// buildDeps wires the fetcher and, for the blended policy, the NLP
// collaborators into the pipeline.
func buildDeps(cfg *config.Analysis, log *slog.Logger) pipeline.Deps {
	var fetcher feed.Fetcher
	switch cfg.Source {
	case config.SourceGDELT:
		fetcher = feed.NewGDELT(log)
	default:
		fetcher = feed.NewGoogleNews(log)
	}

	deps := pipeline.Deps{Fetcher: fetcher}
	if cfg.FetchBody {
		deps.Bodies = feed.NewBodyFetcher(cfg.FetchDelay, log)
	}
	if cfg.Policy == config.PolicyBlended {
		client := nlp.NewClient(cfg.NLPEndpoint, log)
		deps.Sentiment = client
		deps.Extractor = client
		deps.Warmer = client
	}
	return deps
}

type analysisRunner interface {
	Run(ctx context.Context) *models.AnalysisReport
}

type server struct {
	log     *slog.Logger
	cfg     *config.API
	pipe    analysisRunner
	reports *cache.Reports
}

// report returns the cached analysis when it is still fresh, otherwise
// runs the pipeline and caches the result.
func (s *server) report(ctx context.Context) *models.AnalysisReport {
	if cached, ok := s.reports.Get(); ok {
		return cached
	}
	report := s.pipe.Run(ctx)
	s.reports.Put(report)
	return report
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	writeJSON(w, http.StatusOK, s.report(ctx))
}

func (s *server) handleArticles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	report := s.report(ctx)
	threshold := parseThreshold(r.URL.Query().Get("threshold"), s.cfg.RiskThreshold)

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":    report.RunID,
		"fetched":   report.Fetched,
		"scored":    report.Scored,
		"threshold": threshold,
		"articles":  pipeline.ApplyThreshold(report.Articles, threshold),
		"notes":     report.Notes,
	})
}

func (s *server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	report := s.report(ctx)
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":      report.RunID,
		"leaderboard": report.Leaderboard,
		"notes":       report.Notes,
	})
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	report := s.report(ctx)
	threshold := parseThreshold(r.URL.Query().Get("threshold"), s.cfg.RiskThreshold)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="ip_risk_report.csv"`)

	var err error
	if strings.EqualFold(r.URL.Query().Get("view"), "leaderboard") {
		err = export.WriteLeaderboard(w, report.Leaderboard)
	} else {
		err = export.WriteArticles(w, pipeline.ApplyThreshold(report.Articles, threshold))
	}
	if err != nil {
		s.log.Error("csv export", slog.Any("err", err))
	}
}

func (s *server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	s.reports.Invalidate()
	writeJSON(w, http.StatusOK, s.report(ctx))
}

// parseThreshold reads a display threshold in [0,1], falling back to the
// configured default on anything else.
func parseThreshold(raw string, fallback float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 || value > 1 {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}
