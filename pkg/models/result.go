package models

import "time"

// QCStatus is the verdict for one report version.
type QCStatus string

const (
	// QCStatusPassed means the report is safe to send.
	QCStatusPassed QCStatus = "PASSED"
	// QCStatusFailed means the report must not be sent.
	QCStatusFailed QCStatus = "FAILED"
)

// Valid returns true if the status is a known value.
func (s QCStatus) Valid() bool {
	return s == QCStatusPassed || s == QCStatusFailed
}

// AIVerdict records what the AI-analysis phase did. Skipped and Error are
// mutually exclusive: Skipped means it never ran, Error means it ran and
// failed.
type AIVerdict struct {
	Ran        bool   `json:"ran"`
	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skip_reason,omitempty"`
	Error      string `json:"error,omitempty"`
	// WouldAct is the model's answer to "would the recipient act on this".
	WouldAct bool `json:"would_act"`
	// BiggestIssue is the single biggest issue the model saw.
	BiggestIssue string `json:"biggest_issue,omitempty"`
	Cached       bool   `json:"cached,omitempty"`
}

// QCResult is the audit record for one validation pass.
type QCResult struct {
	ID             string         `json:"id"`
	Status         QCStatus       `json:"status"`
	Counts         SeverityCounts `json:"counts"`
	Findings       []Finding      `json:"findings"`
	Iteration      int            `json:"iteration"`
	Recommendation string         `json:"recommendation"`
	AI             *AIVerdict     `json:"ai,omitempty"`
	FirmName       string         `json:"firm_name,omitempty"`
	ResearchPath   string         `json:"research_path,omitempty"`
	ReportPath     string         `json:"report_path,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Passed reports whether the result allows sending.
func (r *QCResult) Passed() bool {
	return r != nil && r.Status == QCStatusPassed
}

// FindingsByPhase returns the findings produced by the given phase.
func (r *QCResult) FindingsByPhase(phase Phase) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Phase == phase {
			out = append(out, f)
		}
	}
	return out
}
