package aiqc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ShayCichocki/reportqc/pkg/models"
)

// ErrUnparseable is returned when a model reply holds no JSON object.
var ErrUnparseable = errors.New("model reply is not valid JSON")

// Reply is the decoded analysis verdict.
type Reply struct {
	Issues       []Issue  `json:"issues"`
	WouldAct     flexBool `json:"wouldAct"`
	BiggestIssue string   `json:"biggestIssue"`
}

// Issue is one problem reported by the model.
type Issue struct {
	Severity string `json:"severity"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Evidence string `json:"evidence"`
	Fix      string `json:"fix"`
}

// flexBool accepts true/false as well as "yes"/"no" strings.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("wouldAct: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "y":
		*b = true
	default:
		*b = false
	}
	return nil
}

// ExtractJSON strips an optional code fence and surrounding prose and
// returns the outermost JSON object in reply.
func ExtractJSON(reply string) (string, error) {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", ErrUnparseable
	}
	s = s[start : end+1]
	if !json.Valid([]byte(s)) {
		return "", ErrUnparseable
	}
	return s, nil
}

// ParseReply decodes a model reply into a Reply.
func ParseReply(reply string) (*Reply, error) {
	raw, err := ExtractJSON(reply)
	if err != nil {
		return nil, err
	}
	var r Reply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return &r, nil
}

// Findings converts issues into AI-phase findings. Unknown severities
// become WARNING and unknown categories CONTENT. Issues without a message
// are dropped.
func (r *Reply) Findings() []models.Finding {
	var out []models.Finding
	for _, is := range r.Issues {
		msg := strings.TrimSpace(is.Message)
		if msg == "" {
			continue
		}
		sev := models.Severity(strings.ToUpper(strings.TrimSpace(is.Severity)))
		if !sev.Valid() {
			sev = models.SeverityWarning
		}
		cat := models.Category(strings.ToUpper(strings.TrimSpace(is.Category)))
		if !cat.Valid() || cat == models.CategoryFileLoad {
			cat = models.CategoryContent
		}
		f := models.Finding{
			Severity: sev,
			Category: cat,
			Message:  msg,
			Evidence: strings.TrimSpace(is.Evidence),
			Fix:      strings.TrimSpace(is.Fix),
			Phase:    models.PhaseAI,
		}
		out = append(out, f)
	}
	return out
}
