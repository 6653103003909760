package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ShayCichocki/reportqc/pkg/models"
)

// WriteJSON persists r at path. The file is written to a temp file in the
// same directory and renamed into place so readers never see a partial
// document.
func WriteJSON(path string, r *models.QCResult) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode qc result: %w", err)
	}
	return writeAtomic(path, append(data, '\n'))
}

// ReadJSON loads a QC result written by WriteJSON.
func ReadJSON(path string) (*models.QCResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read qc result: %w", err)
	}
	var r models.QCResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse qc result %s: %w", path, err)
	}
	return &r, nil
}

// WriteRecord persists a research record the same way.
func WriteRecord(path string, rec *models.ResearchRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode research record: %w", err)
	}
	return writeAtomic(path, append(data, '\n'))
}

// WriteHTML persists a rendered report the same way.
func WriteHTML(path, html string) error {
	return writeAtomic(path, []byte(html))
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
