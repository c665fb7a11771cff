package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Scoring policy names accepted in SCORING_POLICY.
const (
	PolicyKeyword = "keyword"
	PolicyBlended = "blended"
)

// Feed source names accepted in FEED_SOURCE.
const (
	SourceGoogleNews = "googlenews"
	SourceGDELT      = "gdelt"
)

// Weights blend the sentiment and keyword-density components of the
// blended scoring policy. They must sum to 1.0.
type Weights struct {
	Sentiment float64 `yaml:"sentiment"`
	Keywords  float64 `yaml:"keywords"`
}

// Rules is the YAML ruleset: which phrases to search for, which keywords
// mark a sentence or title as risky, and how the blended score is weighted.
type Rules struct {
	SearchPhrases []string `yaml:"search_phrases"`
	RiskKeywords  []string `yaml:"risk_keywords"`
	Weights       Weights  `yaml:"weights"`
}

// Analysis holds the knobs shared by every binary that runs the pipeline.
type Analysis struct {
	LookbackDays  int
	MaxResults    int
	RiskThreshold float64
	Policy        string
	Source        string
	FetchBody     bool
	FetchDelay    time.Duration
	NLPEndpoint   string
	Rules         Rules
}

// API describes HTTP-layer configuration.
type API struct {
	Analysis
	BindAddr string
	CacheTTL time.Duration
}

// Report configures the one-shot CSV report job.
type Report struct {
	Analysis
	OutputPath  string
	Leaderboard bool
}

// DefaultRules returns the built-in ruleset used when RULES_PATH is unset.
func DefaultRules() Rules {
	return Rules{
		SearchPhrases: []string{
			"patent infringement", "patent opposition", "lawsuit",
			"USPTO", "WIPO", "EPO",
		},
		RiskKeywords: []string{
			"infringement", "lawsuit", "sued", "opposition",
			"injunction", "invalidated",
		},
		Weights: Weights{Sentiment: 0.6, Keywords: 0.4},
	}
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	analysis, err := loadAnalysis()
	if err != nil {
		return nil, err
	}

	c := &API{
		Analysis: *analysis,
		BindAddr: getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		CacheTTL: getDuration("CACHE_TTL", "1h"),
	}

	if c.CacheTTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive")
	}

	return c, nil
}

// LoadReport builds a Report config from environment variables.
func LoadReport() (*Report, error) {
	analysis, err := loadAnalysis()
	if err != nil {
		return nil, err
	}

	return &Report{
		Analysis:    *analysis,
		OutputPath:  getEnv("REPORT_OUTPUT", ""),
		Leaderboard: getBool("REPORT_LEADERBOARD", false),
	}, nil
}

func loadAnalysis() (*Analysis, error) {
	c := &Analysis{
		LookbackDays:  getInt("LOOKBACK_DAYS", 30),
		MaxResults:    getInt("MAX_RESULTS", 50),
		RiskThreshold: getFloat("RISK_THRESHOLD", 0),
		Policy:        getEnv("SCORING_POLICY", PolicyKeyword),
		Source:        getEnv("FEED_SOURCE", SourceGoogleNews),
		FetchBody:     getBool("FETCH_BODY", false),
		FetchDelay:    getDuration("FETCH_DELAY", "100ms"),
		NLPEndpoint:   getEnv("NLP_ENDPOINT", ""),
	}

	if path := getEnv("RULES_PATH", ""); path != "" {
		rules, err := loadRules(path)
		if err != nil {
			return nil, err
		}
		c.Rules = *rules
	} else {
		c.Rules = DefaultRules()
	}

	if c.LookbackDays <= 0 {
		return nil, fmt.Errorf("LOOKBACK_DAYS must be positive")
	}
	if c.MaxResults <= 0 {
		return nil, fmt.Errorf("MAX_RESULTS must be positive")
	}
	if c.RiskThreshold < 0 || c.RiskThreshold > 1 {
		return nil, fmt.Errorf("RISK_THRESHOLD must be within [0,1]")
	}
	if c.Policy != PolicyKeyword && c.Policy != PolicyBlended {
		return nil, fmt.Errorf("SCORING_POLICY must be %q or %q", PolicyKeyword, PolicyBlended)
	}
	if c.Source != SourceGoogleNews && c.Source != SourceGDELT {
		return nil, fmt.Errorf("FEED_SOURCE must be %q or %q", SourceGoogleNews, SourceGDELT)
	}
	if c.Policy == PolicyBlended && c.NLPEndpoint == "" {
		return nil, fmt.Errorf("NLP_ENDPOINT is required for the %q policy", PolicyBlended)
	}
	if c.FetchDelay < 0 {
		return nil, fmt.Errorf("FETCH_DELAY cannot be negative")
	}

	if err := c.Rules.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (r Rules) validate() error {
	if len(r.SearchPhrases) == 0 {
		return fmt.Errorf("ruleset needs at least one search phrase")
	}
	if len(r.RiskKeywords) == 0 {
		return fmt.Errorf("ruleset needs at least one risk keyword")
	}
	if sum := r.Weights.Sentiment + r.Weights.Keywords; math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}
	if r.Weights.Sentiment < 0 || r.Weights.Keywords < 0 {
		return fmt.Errorf("scoring weights cannot be negative")
	}
	return nil
}

func loadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}

	rules := DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse ruleset %s: %w", path, err)
	}

	return &rules, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}
