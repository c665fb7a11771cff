package textproc

import (
	"html"
	"regexp"
	"strings"
)

var (
	tags       = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
	boundaries = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
)

// CleanText strips HTML tags and entities and squeezes whitespace. Google
// News RSS descriptions arrive as anchor-wrapped HTML snippets.
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	decoded := html.UnescapeString(input)
	decoded = tags.ReplaceAllString(decoded, " ")
	decoded = whitespace.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// SplitSentences breaks text on sentence-final punctuation. It is the
// fallback when no external sentence boundaries are available; model-grade
// splits come from the NLP service.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	last := 0
	for _, loc := range boundaries.FindAllStringIndex(text, -1) {
		s := strings.TrimSpace(text[last:loc[1]])
		if s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// RiskySentences keeps the sentences whose lowercased form contains at
// least one risk keyword as a substring, preserving order.
func RiskySentences(sentences, keywords []string) []string {
	var risky []string
	for _, sentence := range sentences {
		lowered := strings.ToLower(sentence)
		for _, kw := range keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				risky = append(risky, sentence)
				break
			}
		}
	}
	return risky
}

// FilterOrgs drops low-quality organization extractions: names of three
// characters or fewer, single-token names, and anything mentioning "LLC".
// Duplicates are removed preserving first-seen order.
func FilterOrgs(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var kept []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if len(name) <= 3 {
			continue
		}
		if !strings.Contains(name, " ") {
			continue
		}
		if strings.Contains(name, "LLC") {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		kept = append(kept, name)
	}
	return kept
}
