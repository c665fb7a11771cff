package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskradar/ip-risk-radar/internal/config"
	"github.com/riskradar/ip-risk-radar/internal/export"
	"github.com/riskradar/ip-risk-radar/internal/feed"
	"github.com/riskradar/ip-risk-radar/internal/logger"
	"github.com/riskradar/ip-risk-radar/internal/nlp"
	"github.com/riskradar/ip-risk-radar/internal/pipeline"
)

// report runs the analysis pipeline once and writes the CSV report to
// REPORT_OUTPUT (stdout when unset).
func main() {
	log := logger.New("report")
	cfg, err := config.LoadReport()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	pipe := pipeline.New(cfg.Analysis, buildDeps(&cfg.Analysis, log), log)
	result := pipe.Run(ctx)

	for _, note := range result.Notes {
		log.Info("run note", slog.String("note", note))
	}

	var out io.Writer = os.Stdout
	if cfg.OutputPath != "" {
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			log.Error("create output file", slog.Any("err", err))
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if cfg.Leaderboard {
		err = export.WriteLeaderboard(out, result.Leaderboard)
	} else {
		err = export.WriteArticles(out, pipeline.ApplyThreshold(result.Articles, cfg.RiskThreshold))
	}
	if err != nil {
		log.Error("write report", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("report written",
		slog.String("run_id", result.RunID),
		slog.Int("fetched", result.Fetched),
		slog.Int("scored", result.Scored),
		slog.Int("entities", len(result.Leaderboard)),
	)
}

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
