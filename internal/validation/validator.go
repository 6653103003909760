package validation

import (
	"github.com/ShayCichocki/reportqc/internal/policy"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

// Input is everything a check may look at. Text is derived once from HTML.
type Input struct {
	Record  *models.ResearchRecord
	HTML    string
	Text    string
	Profile CountryProfile
	Policy  *policy.Config
	Rules   *RuleSet
}

// Check is one row of a check table.
type Check struct {
	ID       string
	Category models.Category
	Severity models.Severity
	// Gate marks identity checks. A failing gate check blocks the AI phase.
	Gate bool
	run  func(c *Check, in *Input) []models.Finding
}

// finding builds a finding with the check's category and severity.
func (c *Check) finding(msg string) models.Finding {
	return models.NewFinding(c.Severity, c.Category, msg)
}

// Run evaluates the check against in.
func (c *Check) Run(in *Input) []models.Finding {
	return c.run(c, in)
}

// Validator runs the record and report check tables.
type Validator struct {
	policy *policy.Config
	rules  *RuleSet
	checks []Check
}

// New creates a Validator. Nil arguments fall back to defaults.
func New(p *policy.Config, rules *RuleSet) *Validator {
	if p == nil {
		p = policy.Default()
	}
	if rules == nil {
		rules = DefaultRules()
	}
	checks := make([]Check, 0, len(recordChecks)+len(reportChecks))
	checks = append(checks, recordChecks...)
	checks = append(checks, reportChecks...)
	return &Validator{policy: p, rules: rules, checks: checks}
}

// NewInput prepares an Input for record and html.
func (v *Validator) NewInput(rec *models.ResearchRecord, html string) *Input {
	if rec == nil {
		rec = &models.ResearchRecord{}
	}
	return &Input{
		Record:  rec,
		HTML:    html,
		Text:    VisibleText(html),
		Profile: ProfileFor(rec.Location.Country),
		Policy:  v.policy,
		Rules:   v.rules,
	}
}

// Validate runs every check in table order and returns the findings. The
// result depends only on the inputs.
func (v *Validator) Validate(rec *models.ResearchRecord, html string) []models.Finding {
	in := v.NewInput(rec, html)
	var findings []models.Finding
	for i := range v.checks {
		findings = append(findings, v.checks[i].Run(in)...)
	}
	return findings
}

// Gate runs only the identity checks.
func (v *Validator) Gate(rec *models.ResearchRecord) []models.Finding {
	in := v.NewInput(rec, "")
	var findings []models.Finding
	for i := range v.checks {
		if v.checks[i].Gate {
			findings = append(findings, v.checks[i].Run(in)...)
		}
	}
	return findings
}
