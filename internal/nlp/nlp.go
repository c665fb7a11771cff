package nlp

import (
	"context"
	"strings"
)

// LabelScore is one (label, score) pair from the sentiment classifier.
// Scores are probability-like and sum to roughly 1.0 across labels.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Entity is one named entity found in a text.
type Entity struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// Extraction carries the sentence boundaries and entities for one document.
type Extraction struct {
	Sentences []string `json:"sentences"`
	Entities  []Entity `json:"entities"`
}

// Orgs returns the texts of ORG-typed entities, in order.
func (e Extraction) Orgs() []string {
	var orgs []string
	for _, ent := range e.Entities {
		if strings.EqualFold(ent.Type, "ORG") {
			orgs = append(orgs, ent.Text)
		}
	}
	return orgs
}

// SentimentClassifier scores a text's sentiment. The label set covers at
// least Positive, Negative and Neutral.
type SentimentClassifier interface {
	Sentiment(ctx context.Context, text string) ([]LabelScore, error)
}

// Extractor splits a text into sentences and named entities.
type Extractor interface {
	Extract(ctx context.Context, text string) (Extraction, error)
}

// Negativity picks the Negative score out of a label set. A missing label
// contributes zero rather than failing the document.
func Negativity(labels []LabelScore) float64 {
	for _, ls := range labels {
		if strings.EqualFold(ls.Label, "negative") {
			if ls.Score < 0 {
				return 0
			}
			if ls.Score > 1 {
				return 1
			}
			return ls.Score
		}
	}
	return 0
}
