// Package policy defines the tunable thresholds of the QC pipeline and the
// decision policy that turns findings into a verdict.
// The default values are calibrated for one product and have not been
// checked against outcome data; every one of them can be overridden from
// configuration.
package policy

import "time"

// Config contains all configurable policy parameters.
type Config struct {
	// Decision policies
	Decision DecisionPolicy

	// Data completeness policies
	Data DataPolicy

	// Rendered content policies
	Content ContentPolicy

	// Language quality policies
	Language LanguagePolicy

	// AI phase policies
	AI AIPolicy

	// Iteration loop policies
	Loop LoopPolicy
}

// DecisionPolicy controls how findings become a verdict.
type DecisionPolicy struct {
	// MaxImportant is the number of IMPORTANT findings a passing report may carry.
	MaxImportant int
}

// DataPolicy controls research record checks.
type DataPolicy struct {
	// MinFirmNameLength is the shortest acceptable firm name.
	MinFirmNameLength int
	// MinCompetitors is the fewest competitors a record may list.
	MinCompetitors int
	// MinCompetitorNameLength is the shortest acceptable competitor name.
	MinCompetitorNameLength int
	// MaxReviewCount is the largest believable review count.
	MaxReviewCount int
	// MaxRating is the top of the rating scale.
	MaxRating float64
}

// ContentPolicy controls rendered report checks.
type ContentPolicy struct {
	// MathTolerance is the allowed relative gap between the hero total and
	// the sum of the gap costs.
	MathTolerance float64
	// RoundUnit is the amount a figure must be an exact multiple of to count
	// as suspiciously round.
	RoundUnit float64
	// MinFirmMentions is how often the firm name must appear.
	MinFirmMentions int
	// MinCityMentions is how often the city must appear.
	MinCityMentions int
	// MinWords and MaxWords bound the visible word count.
	MinWords int
	MaxWords int
	// GapSections is the number of numbered gap sections expected.
	GapSections int
	// MinFlowMarkers is the fewest directional arrows expected.
	MinFlowMarkers int
	// MinEmphasis is the fewest emphasis tags expected.
	MinEmphasis int
}

// LanguagePolicy controls phrase-count checks.
type LanguagePolicy struct {
	// MaxWeaselWords is the most hedge words allowed.
	MaxWeaselWords int
	// MaxGenericPhrases is the most stock marketing phrases allowed.
	MaxGenericPhrases int
	// MaxExclamations is the most exclamation marks allowed.
	MaxExclamations int
}

// AIPolicy controls language model calls.
type AIPolicy struct {
	// ExcerptChars bounds the report excerpt sent to the model.
	ExcerptChars int
	// AnalysisMaxTokens caps the analysis reply.
	AnalysisMaxTokens int
	// GuidanceMaxTokens caps the fix guidance reply.
	GuidanceMaxTokens int
	// FixMaxTokens caps the replacement record reply.
	FixMaxTokens int
	// LightTimeout bounds lightweight calls.
	LightTimeout time.Duration
	// AnalysisTimeout bounds heavier analysis calls.
	AnalysisTimeout time.Duration
}

// LoopPolicy controls the iteration controller.
type LoopPolicy struct {
	// MaxIterations is the number of validation rounds before rejecting.
	MaxIterations int
	// RoundDelay is the pause between rounds.
	RoundDelay time.Duration
}

// Default returns the default policy configuration.
func Default() *Config {
	return &Config{
		Decision: DecisionPolicy{
			MaxImportant: 1,
		},
		Data: DataPolicy{
			MinFirmNameLength:       3,
			MinCompetitors:          3,
			MinCompetitorNameLength: 5,
			MaxReviewCount:          10000,
			MaxRating:               5,
		},
		Content: ContentPolicy{
			MathTolerance:   0.05,
			RoundUnit:       10000,
			MinFirmMentions: 2,
			MinCityMentions: 4,
			MinWords:        800,
			MaxWords:        5000,
			GapSections:     3,
			MinFlowMarkers:  3,
			MinEmphasis:     3,
		},
		Language: LanguagePolicy{
			MaxWeaselWords:    3,
			MaxGenericPhrases: 2,
			MaxExclamations:   2,
		},
		AI: AIPolicy{
			ExcerptChars:      12000,
			AnalysisMaxTokens: 2048,
			GuidanceMaxTokens: 1024,
			FixMaxTokens:      8192,
			LightTimeout:      15 * time.Second,
			AnalysisTimeout:   60 * time.Second,
		},
		Loop: LoopPolicy{
			MaxIterations: 5,
			RoundDelay:    2 * time.Second,
		},
	}
}

// Normalize resets values that are outside acceptable ranges to their
// defaults.
func (c *Config) Normalize() {
	d := Default()
	if c.Decision.MaxImportant < 0 {
		c.Decision.MaxImportant = d.Decision.MaxImportant
	}
	if c.Data.MinFirmNameLength < 1 {
		c.Data.MinFirmNameLength = d.Data.MinFirmNameLength
	}
	if c.Data.MinCompetitors < 0 {
		c.Data.MinCompetitors = d.Data.MinCompetitors
	}
	if c.Data.MaxReviewCount < 1 {
		c.Data.MaxReviewCount = d.Data.MaxReviewCount
	}
	if c.Data.MaxRating <= 0 {
		c.Data.MaxRating = d.Data.MaxRating
	}
	if c.Content.MathTolerance < 0 || c.Content.MathTolerance >= 1 {
		c.Content.MathTolerance = d.Content.MathTolerance
	}
	if c.Content.RoundUnit <= 0 {
		c.Content.RoundUnit = d.Content.RoundUnit
	}
	if c.Content.MinWords < 0 || c.Content.MaxWords <= c.Content.MinWords {
		c.Content.MinWords = d.Content.MinWords
		c.Content.MaxWords = d.Content.MaxWords
	}
	if c.Content.GapSections < 1 {
		c.Content.GapSections = d.Content.GapSections
	}
	if c.AI.ExcerptChars < 500 {
		c.AI.ExcerptChars = d.AI.ExcerptChars
	}
	if c.AI.AnalysisMaxTokens < 1 {
		c.AI.AnalysisMaxTokens = d.AI.AnalysisMaxTokens
	}
	if c.AI.GuidanceMaxTokens < 1 {
		c.AI.GuidanceMaxTokens = d.AI.GuidanceMaxTokens
	}
	if c.AI.FixMaxTokens < 1 {
		c.AI.FixMaxTokens = d.AI.FixMaxTokens
	}
	if c.AI.LightTimeout <= 0 {
		c.AI.LightTimeout = d.AI.LightTimeout
	}
	if c.AI.AnalysisTimeout <= 0 {
		c.AI.AnalysisTimeout = d.AI.AnalysisTimeout
	}
	if c.Loop.MaxIterations < 1 {
		c.Loop.MaxIterations = d.Loop.MaxIterations
	}
	if c.Loop.RoundDelay < 0 {
		c.Loop.RoundDelay = 0
	}
}
