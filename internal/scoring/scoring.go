package scoring

import "strings"

// saturationSentences is where the keyword-density component of the
// blended score maxes out: five risky sentences count as full density.
const saturationSentences = 5.0

// KeywordPolicy scores a title by risk-keyword density: the number of
// distinct keywords present in the lowercased title over the total number
// of keywords tracked. A title matching every keyword scores exactly 1.0.
type KeywordPolicy struct {
	keywords []string
}

// NewKeywordPolicy builds the policy over the configured keyword list.
func NewKeywordPolicy(keywords []string) KeywordPolicy {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return KeywordPolicy{keywords: lowered}
}

// Score is a pure function of the title and the fixed keyword list.
func (p KeywordPolicy) Score(title string) float64 {
	if len(p.keywords) == 0 {
		return 0
	}

	lowered := strings.ToLower(title)
	matched := 0
	for _, kw := range p.keywords {
		if strings.Contains(lowered, kw) {
			matched++
		}
	}

	return clamp(float64(matched) / float64(len(p.keywords)))
}

// BlendedPolicy mixes sentiment negativity with risky-sentence density.
// The weights must sum to 1.0 (validated at config load) so the result
// stays inside [0,1].
type BlendedPolicy struct {
	sentimentWeight float64
	keywordWeight   float64
}

// NewBlendedPolicy builds the policy with the configured weights.
func NewBlendedPolicy(sentimentWeight, keywordWeight float64) BlendedPolicy {
	return BlendedPolicy{
		sentimentWeight: sentimentWeight,
		keywordWeight:   keywordWeight,
	}
}

// Score blends the two components. riskySentences must be positive: a
// document with no risky sentences is excluded upstream, never scored.
func (p BlendedPolicy) Score(riskySentences int, negativity float64) float64 {
	density := float64(riskySentences) / saturationSentences
	if density > 1 {
		density = 1
	}
	negativity = clamp(negativity)

	return clamp(p.sentimentWeight*negativity + p.keywordWeight*density)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
