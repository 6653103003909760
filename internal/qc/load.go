package qc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ShayCichocki/reportqc/pkg/models"
)

// ErrLoad marks input that could not be read or parsed.
var ErrLoad = errors.New("load input")

// LoadRecord reads a research record from path.
func LoadRecord(path string) (*models.ResearchRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return ParseRecord(data, path)
}

// ParseRecord decodes a research record. The document must be a JSON object.
func ParseRecord(data []byte, name string) (*models.ResearchRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: %s: research record is not a JSON object", ErrLoad, name)
	}
	var rec models.ResearchRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, name, err)
	}
	return &rec, nil
}

// LoadReport reads a rendered report from path. An empty report counts as
// malformed input.
func LoadReport(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLoad, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("%w: %s: report is empty", ErrLoad, path)
	}
	return string(data), nil
}

// loadFailure is the single finding reported for unreadable input.
func loadFailure(err error) models.Finding {
	return models.Finding{
		Severity: models.SeverityCritical,
		Category: models.CategoryFileLoad,
		Message:  err.Error(),
		Phase:    models.PhaseLoad,
	}
}
