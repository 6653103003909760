package qc

import (
	"errors"

	"github.com/ShayCichocki/reportqc/internal/report"
	"github.com/ShayCichocki/reportqc/internal/state"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

// Recorder persists each round's result.
type Recorder interface {
	Record(r *models.QCResult) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(r *models.QCResult) error

// Record calls f.
func (f RecorderFunc) Record(r *models.QCResult) error { return f(r) }

// FileRecorder writes the latest result to a fixed path. Last write wins.
type FileRecorder struct {
	Path string
}

// Record writes r.
func (f FileRecorder) Record(r *models.QCResult) error {
	return report.WriteJSON(f.Path, r)
}

// HistoryRecorder appends results to the run history.
type HistoryRecorder struct {
	Store state.RunStore
}

// Record stores r.
func (h HistoryRecorder) Record(r *models.QCResult) error {
	return h.Store.RecordRun(r)
}

// Recorders fans a result out to every recorder and joins their errors.
type Recorders []Recorder

// Record calls every recorder, even after one fails.
func (rs Recorders) Record(r *models.QCResult) error {
	var errs []error
	for _, rec := range rs {
		if rec == nil {
			continue
		}
		if err := rec.Record(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
