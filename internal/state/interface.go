package state

import (
	"io"

	"github.com/ShayCichocki/reportqc/pkg/models"
)

// RunStore handles QC run persistence.
type RunStore interface {
	RecordRun(r *models.QCResult) error
	GetRun(id string) (*models.QCResult, error)
	ListRuns(limit int) ([]Run, error)
}

// Migrator handles database schema migrations.
type Migrator interface {
	Migrate() error
}

// HistoryStore is the persistence surface the QC pipeline depends on.
type HistoryStore interface {
	io.Closer
	Migrator
	RunStore
}

var (
	_ HistoryStore = (*DB)(nil)
	_ RunStore     = (*DB)(nil)
)
