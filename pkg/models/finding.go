package models

// Severity ranks how badly a finding affects a report.
type Severity string

const (
	// SeverityCritical blocks a report outright.
	SeverityCritical Severity = "CRITICAL"
	// SeverityImportant is tolerated once per report.
	SeverityImportant Severity = "IMPORTANT"
	// SeverityWarning never blocks a report on its own.
	SeverityWarning Severity = "WARNING"
)

// Valid returns true if the severity is a known value.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityImportant, SeverityWarning:
		return true
	default:
		return false
	}
}

// Rank orders severities from most (0) to least severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityImportant:
		return 1
	case SeverityWarning:
		return 2
	default:
		return 3
	}
}

// Category classifies what a finding is about.
type Category string

const (
	CategoryGeographic    Category = "GEOGRAPHIC"
	CategoryCurrency      Category = "CURRENCY"
	CategoryTerminology   Category = "TERMINOLOGY"
	CategoryPhrasing      Category = "PHRASING"
	CategoryBroken        Category = "BROKEN"
	CategoryCredibility   Category = "CREDIBILITY"
	CategoryStructure     Category = "STRUCTURE"
	CategoryContent       Category = "CONTENT"
	CategoryLanguage      Category = "LANGUAGE"
	CategoryVisual        Category = "VISUAL"
	CategoryFinal         Category = "FINAL"
	CategoryDataExistence Category = "DATA_EXISTENCE"
	CategoryDataSanity    Category = "DATA_SANITY"
	CategoryMath          Category = "MATH"
	CategoryLogic         Category = "LOGIC"
	// CategoryFileLoad marks the single finding produced when inputs cannot be read.
	CategoryFileLoad Category = "FILE_LOAD"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryFileLoad,
	CategoryDataExistence,
	CategoryDataSanity,
	CategoryMath,
	CategoryLogic,
	CategoryBroken,
	CategoryStructure,
	CategoryContent,
	CategoryLanguage,
	CategoryPhrasing,
	CategoryCredibility,
	CategoryGeographic,
	CategoryCurrency,
	CategoryTerminology,
	CategoryVisual,
	CategoryFinal,
}

// Valid returns true if the category is a known value.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Phase identifies which part of the pipeline produced a finding.
type Phase string

const (
	PhaseLoad  Phase = "load"
	PhaseBasic Phase = "basic"
	PhaseAI    Phase = "ai"
)

// Finding is one validation observation. Findings are values: once built
// they are only copied and aggregated.
type Finding struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
	// Evidence is the offending text or value, if any.
	Evidence string `json:"evidence,omitempty"`
	// Fix is a suggested correction, if any.
	Fix   string `json:"fix,omitempty"`
	Phase Phase  `json:"phase"`
}

// NewFinding builds a basic-phase finding.
func NewFinding(sev Severity, cat Category, message string) Finding {
	return Finding{Severity: sev, Category: cat, Message: message, Phase: PhaseBasic}
}

// WithEvidence returns a copy of f carrying evidence text.
func (f Finding) WithEvidence(evidence string) Finding {
	f.Evidence = evidence
	return f
}

// WithFix returns a copy of f carrying a suggested fix.
func (f Finding) WithFix(fix string) Finding {
	f.Fix = fix
	return f
}

// SeverityCounts tallies findings by severity.
type SeverityCounts struct {
	Critical  int `json:"critical"`
	Important int `json:"important"`
	Warning   int `json:"warning"`
}

// Total returns the number of counted findings.
func (c SeverityCounts) Total() int {
	return c.Critical + c.Important + c.Warning
}

// CountFindings tallies the given findings by severity.
func CountFindings(findings []Finding) SeverityCounts {
	var c SeverityCounts
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			c.Critical++
		case SeverityImportant:
			c.Important++
		case SeverityWarning:
			c.Warning++
		}
	}
	return c
}

// GroupByCategory partitions findings by category, preserving order within
// each group.
func GroupByCategory(findings []Finding) map[Category][]Finding {
	groups := make(map[Category][]Finding)
	for _, f := range findings {
		groups[f.Category] = append(groups[f.Category], f)
	}
	return groups
}
