package models

import "time"

// Document is one fetched news item. Created per fetch call, immutable
// afterwards, discarded after scoring.
type Document struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	RawText     string    `json:"raw_text"`
}

// RiskAssessment is the scoring outcome for a single document.
type RiskAssessment struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
	Evidence string   `json:"evidence"`
	Entities []string `json:"entities,omitempty"`
}

// LeaderboardEntry holds the best observed assessment for one entity.
type LeaderboardEntry struct {
	Entity    string    `json:"entity"`
	BestScore float64   `json:"best_score"`
	Evidence  string    `json:"evidence"`
	SourceURL string    `json:"source_url"`
	Date      time.Time `json:"date"`
}

// AnalysisReport is the result of one full pipeline run. It is returned to
// the caller and owned by it; the pipeline keeps no state between runs.
type AnalysisReport struct {
	RunID       string             `json:"run_id"`
	StartedAt   time.Time          `json:"started_at"`
	Fetched     int                `json:"fetched"`
	Scored      int                `json:"scored"`
	Articles    []RiskAssessment   `json:"articles"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Notes       []string           `json:"notes,omitempty"`
}
