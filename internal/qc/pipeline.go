package qc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ShayCichocki/reportqc/internal/aiqc"
	"github.com/ShayCichocki/reportqc/internal/logging"
	"github.com/ShayCichocki/reportqc/internal/policy"
	"github.com/ShayCichocki/reportqc/internal/validation"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

// Pipeline runs one validation pass.
type Pipeline struct {
	validator *validation.Validator
	analyzer  *aiqc.Analyzer
	decision  policy.DecisionPolicy
	skipAI    bool

	now   func() time.Time
	newID func() string
}

// NewPipeline creates a Pipeline. analyzer may be nil, which skips the AI
// phase. p may be nil for default thresholds.
func NewPipeline(v *validation.Validator, analyzer *aiqc.Analyzer, p *policy.Config) *Pipeline {
	if p == nil {
		p = policy.Default()
	}
	return &Pipeline{
		validator: v,
		analyzer:  analyzer,
		decision:  p.Decision,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// DisableAI turns off the AI phase regardless of configuration.
func (p *Pipeline) DisableAI() {
	p.skipAI = true
}

// Run validates html against rec and returns a fresh result for round.
func (p *Pipeline) Run(ctx context.Context, rec *models.ResearchRecord, html string, round int) *models.QCResult {
	log := logging.Log.WithFields(logrus.Fields{
		"round": round,
		"firm":  rec.FirmName,
	})

	basic := p.validator.Validate(rec, html)
	gateFailed := len(p.validator.Gate(rec)) > 0
	log.WithField("phase", "basic").Debugf("%d basic findings", len(basic))

	var ai aiqc.Result
	switch {
	case p.skipAI:
		ai = aiqc.Skipped(aiqc.SkipDisabled)
	default:
		ai = p.analyzer.Analyze(ctx, rec, html, gateFailed)
	}

	findings := make([]models.Finding, 0, len(basic)+len(ai.Findings))
	findings = append(findings, basic...)
	findings = append(findings, ai.Findings...)

	result := p.decide(findings, round)
	result.FirmName = rec.FirmName
	verdict := ai.Verdict
	result.AI = &verdict
	log.WithField("status", result.Status).Info("validation complete")
	return result
}

// RunFiles loads both inputs and runs a pass. When either input cannot be
// loaded the result is FAILED with a single FILE_LOAD finding and the
// returned error wraps ErrLoad.
func (p *Pipeline) RunFiles(ctx context.Context, researchPath, reportPath string) (*models.QCResult, error) {
	rec, err := LoadRecord(researchPath)
	if err == nil {
		var html string
		html, err = LoadReport(reportPath)
		if err == nil {
			result := p.Run(ctx, rec, html, 1)
			result.ResearchPath, result.ReportPath = researchPath, reportPath
			return result, nil
		}
	}

	return p.LoadFailure(err, researchPath, reportPath), err
}

// LoadFailure returns the FAILED result for input that could not be loaded.
func (p *Pipeline) LoadFailure(err error, researchPath, reportPath string) *models.QCResult {
	logging.Log.WithError(err).Error("cannot load inputs")
	result := p.decide([]models.Finding{loadFailure(err)}, 1)
	result.ResearchPath, result.ReportPath = researchPath, reportPath
	return result
}

// decide builds the result for findings. A clean pass carries an empty list
// so the written result reads "findings": [].
func (p *Pipeline) decide(findings []models.Finding, round int) *models.QCResult {
	if findings == nil {
		findings = []models.Finding{}
	}
	d := policy.Decide(findings, p.decision)
	return &models.QCResult{
		ID:             p.newID(),
		Status:         d.Status,
		Counts:         d.Counts,
		Findings:       findings,
		Iteration:      round,
		Recommendation: d.Recommendation,
		CreatedAt:      p.now(),
	}
}
