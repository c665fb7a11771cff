package aggregate

import (
	"sort"

	"github.com/riskradar/ip-risk-radar/internal/models"
)

// Build reduces a scored batch into the per-entity leaderboard. One
// assessment fans out to every entity it names; each entity keeps only
// its highest-scoring assessment. Replacement is strict greater-than, so
// on a tie the first-seen maximum keeps its evidence, url and date. The
// result is sorted descending by score; equal scores stay in first-seen
// order. Running Build twice over the same input yields the same output.
func Build(assessments []models.RiskAssessment) []models.LeaderboardEntry {
	index := make(map[string]int)
	entries := make([]models.LeaderboardEntry, 0)

	for _, a := range assessments {
		for _, entity := range a.Entities {
			at, exists := index[entity]
			if exists && a.Score <= entries[at].BestScore {
				continue
			}

			entry := models.LeaderboardEntry{
				Entity:    entity,
				BestScore: a.Score,
				Evidence:  a.Evidence,
				SourceURL: a.Document.URL,
				Date:      a.Document.PublishedAt,
			}

			if exists {
				entries[at] = entry
			} else {
				index[entity] = len(entries)
				entries = append(entries, entry)
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].BestScore > entries[j].BestScore
	})

	return entries
}
