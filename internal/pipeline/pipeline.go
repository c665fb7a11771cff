package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/riskradar/ip-risk-radar/internal/aggregate"
	"github.com/riskradar/ip-risk-radar/internal/config"
	"github.com/riskradar/ip-risk-radar/internal/feed"
	"github.com/riskradar/ip-risk-radar/internal/models"
	"github.com/riskradar/ip-risk-radar/internal/nlp"
	"github.com/riskradar/ip-risk-radar/internal/scoring"
	"github.com/riskradar/ip-risk-radar/internal/textproc"
)

// BodyEnricher upgrades documents from title text to full article bodies.
type BodyEnricher interface {
	Enrich(ctx context.Context, docs []models.Document) []models.Document
}

// Warmer is the explicit model-loading step the pipeline runs before
// first use of the NLP collaborators.
type Warmer interface {
	Warmup(ctx context.Context) error
}

// Deps are the collaborators injected into a Pipeline. Sentiment,
// Extractor and Warmer are only needed for the blended policy; Bodies is
// optional in either policy.
type Deps struct {
	Fetcher   feed.Fetcher
	Bodies    BodyEnricher
	Sentiment nlp.SentimentClassifier
	Extractor nlp.Extractor
	Warmer    Warmer
}

// Pipeline runs one synchronous batch: fetch, extract, score, aggregate.
// It keeps no state between runs; every Run returns a fresh report owned
// by the caller.
type Pipeline struct {
	cfg  config.Analysis
	deps Deps
	log  *slog.Logger
}

// New assembles a pipeline for the configured policy.
func New(cfg config.Analysis, deps Deps, log *slog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, deps: deps, log: log}
}

// Run executes the full batch. Fetch failures do not propagate: they
// surface as diagnostics on an otherwise empty report, so callers never
// handle raw transport errors. An empty batch is a neutral outcome.
func (p *Pipeline) Run(ctx context.Context) *models.AnalysisReport {
	report := &models.AnalysisReport{
		RunID:       uuid.NewString(),
		StartedAt:   time.Now().UTC(),
		Articles:    []models.RiskAssessment{},
		Leaderboard: []models.LeaderboardEntry{},
	}

	docs, err := p.deps.Fetcher.Fetch(ctx, feed.Params{
		Lookback:   time.Duration(p.cfg.LookbackDays) * 24 * time.Hour,
		Phrases:    p.cfg.Rules.SearchPhrases,
		MaxResults: p.cfg.MaxResults,
	})
	if err != nil {
		p.log.Warn("fetch failed", slog.Any("err", err))
		report.Notes = append(report.Notes, err.Error())
		return report
	}

	report.Fetched = len(docs)
	if len(docs) == 0 {
		report.Notes = append(report.Notes, "no articles matched the search window")
		return report
	}

	if p.cfg.FetchBody && p.deps.Bodies != nil {
		docs = p.deps.Bodies.Enrich(ctx, docs)
	}

	switch p.cfg.Policy {
	case config.PolicyBlended:
		report.Articles = p.scoreBlended(ctx, docs, report)
	default:
		report.Articles = p.scoreKeyword(docs)
	}

	if report.Articles == nil {
		report.Articles = []models.RiskAssessment{}
	}
	report.Scored = len(report.Articles)
	if report.Scored == 0 {
		report.Notes = append(report.Notes, "no documents contained risk-relevant content")
	}

	report.Leaderboard = aggregate.Build(report.Articles)

	p.log.Info("analysis run complete",
		slog.String("run_id", report.RunID),
		slog.Int("fetched", report.Fetched),
		slog.Int("scored", report.Scored),
		slog.Int("entities", len(report.Leaderboard)),
	)
	return report
}

// scoreKeyword applies the keyword-density policy over titles. Every
// fetched document gets a score; low scores are a display concern.
func (p *Pipeline) scoreKeyword(docs []models.Document) []models.RiskAssessment {
	policy := scoring.NewKeywordPolicy(p.cfg.Rules.RiskKeywords)

	assessments := make([]models.RiskAssessment, 0, len(docs))
	for _, doc := range docs {
		assessments = append(assessments, models.RiskAssessment{
			Document: doc,
			Score:    policy.Score(doc.Title),
			Evidence: doc.Title,
		})
	}
	return assessments
}

// scoreBlended applies the sentiment+density policy. Documents without
// risky sentences are excluded from the batch entirely: absence of risk
// language is not evidence of risk, and not a zero score either.
func (p *Pipeline) scoreBlended(ctx context.Context, docs []models.Document, report *models.AnalysisReport) []models.RiskAssessment {
	if p.deps.Warmer != nil {
		if err := p.deps.Warmer.Warmup(ctx); err != nil {
			p.log.Error("nlp warmup failed", slog.Any("err", err))
			report.Notes = append(report.Notes, fmt.Sprintf("nlp models unavailable: %v", err))
			return nil
		}
	}

	policy := scoring.NewBlendedPolicy(p.cfg.Rules.Weights.Sentiment, p.cfg.Rules.Weights.Keywords)

	assessments := make([]models.RiskAssessment, 0, len(docs))
	for _, doc := range docs {
		extraction, err := p.deps.Extractor.Extract(ctx, doc.RawText)
		if err != nil {
			p.log.Warn("entity extraction failed, skipping document",
				slog.String("url", doc.URL), slog.Any("err", err))
			continue
		}

		sentences := extraction.Sentences
		if len(sentences) == 0 {
			sentences = textproc.SplitSentences(doc.RawText)
		}

		risky := textproc.RiskySentences(sentences, p.cfg.Rules.RiskKeywords)
		if len(risky) == 0 {
			continue
		}
		evidence := strings.Join(risky, " ")

		negativity := 0.0
		labels, err := p.deps.Sentiment.Sentiment(ctx, evidence)
		if err != nil {
			p.log.Warn("sentiment failed, defaulting component to zero",
				slog.String("url", doc.URL), slog.Any("err", err))
		} else {
			negativity = nlp.Negativity(labels)
		}

		assessments = append(assessments, models.RiskAssessment{
			Document: doc,
			Score:    policy.Score(len(risky), negativity),
			Evidence: evidence,
			Entities: textproc.FilterOrgs(extraction.Orgs()),
		})
	}
	return assessments
}

// ApplyThreshold keeps the assessments at or above the display threshold.
// It filters the view only; scores are never altered.
func ApplyThreshold(articles []models.RiskAssessment, threshold float64) []models.RiskAssessment {
	if threshold <= 0 {
		return articles
	}
	kept := make([]models.RiskAssessment, 0, len(articles))
	for _, a := range articles {
		if a.Score >= threshold {
			kept = append(kept, a)
		}
	}
	return kept
}
