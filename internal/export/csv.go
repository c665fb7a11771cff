package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/riskradar/ip-risk-radar/internal/models"
)

// WriteArticles writes the scored batch as CSV, one row per document,
// with a header row. Output is UTF-8.
func WriteArticles(w io.Writer, articles []models.RiskAssessment) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"title", "risk", "url", "date"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, a := range articles {
		row := []string{
			a.Document.Title,
			formatScore(a.Score),
			a.Document.URL,
			formatDate(a.Document.PublishedAt),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteLeaderboard writes the per-entity leaderboard as CSV.
func WriteLeaderboard(w io.Writer, entries []models.LeaderboardEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"entity", "best_score", "evidence", "source", "date"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			e.Entity,
			formatScore(e.BestScore),
			e.Evidence,
			e.SourceURL,
			formatDate(e.Date),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
