package policy

import (
	"fmt"

	"github.com/ShayCichocki/reportqc/pkg/models"
)

// Recommendation strings shown to the reviewer.
const (
	RecommendSend       = "High quality, send immediately."
	RecommendSendMinor  = "Acceptable, send after a quick read of the noted issues."
	RecommendDoNotSend  = "Do not send. Fix the critical issues and re-run QC."
	RecommendRegenerate = "Do not send. Too many important issues; regenerate the report."
)

// Decision is the verdict for a set of findings.
type Decision struct {
	Status         models.QCStatus
	Counts         models.SeverityCounts
	Recommendation string
}

// Decide applies the two-threshold rule: any CRITICAL fails, more than
// maxImportant IMPORTANT findings fail, everything else passes.
func Decide(findings []models.Finding, p DecisionPolicy) Decision {
	counts := models.CountFindings(findings)
	d := Decision{Counts: counts}

	switch {
	case counts.Critical > 0:
		d.Status = models.QCStatusFailed
		d.Recommendation = fmt.Sprintf("%s (%d critical)", RecommendDoNotSend, counts.Critical)
	case counts.Important > p.MaxImportant:
		d.Status = models.QCStatusFailed
		d.Recommendation = fmt.Sprintf("%s (%d important)", RecommendRegenerate, counts.Important)
	case counts.Important > 0 || counts.Warning > 0:
		d.Status = models.QCStatusPassed
		d.Recommendation = fmt.Sprintf("%s (%d important, %d warnings)", RecommendSendMinor, counts.Important, counts.Warning)
	default:
		d.Status = models.QCStatusPassed
		d.Recommendation = RecommendSend
	}
	return d
}
