package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ShayCichocki/reportqc/pkg/models"
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// Run is one row of the QC history.
type Run struct {
	ID             string                `json:"id"`
	Firm           string                `json:"firm"`
	Status         models.QCStatus       `json:"status"`
	Iteration      int                   `json:"iteration"`
	Counts         models.SeverityCounts `json:"counts"`
	Recommendation string                `json:"recommendation"`
	AIRan          bool                  `json:"ai_ran"`
	AISkipped      bool                  `json:"ai_skipped"`
	AIError        string                `json:"ai_error,omitempty"`
	ResearchPath   string                `json:"research_path,omitempty"`
	ReportPath     string                `json:"report_path,omitempty"`
	CreatedAt      string                `json:"created_at"`
}

// RecordRun stores a QC result. Recording the same id twice replaces the row.
func (db *DB) RecordRun(r *models.QCResult) error {
	if r == nil || r.ID == "" {
		return errors.New("record run: result has no id")
	}

	list := r.Findings
	if list == nil {
		list = []models.Finding{}
	}
	findings, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode findings: %w", err)
	}

	var aiRan, aiSkipped bool
	var aiErr sql.NullString
	if r.AI != nil {
		aiRan, aiSkipped = r.AI.Ran, r.AI.Skipped
		if r.AI.Error != "" {
			aiErr = sql.NullString{String: r.AI.Error, Valid: true}
		}
	}

	_, err = db.Exec(`
		INSERT OR REPLACE INTO qc_runs (
			id, firm, status, iteration, critical, important, warning,
			recommendation, ai_ran, ai_skipped, ai_error,
			research_path, report_path, created_at, findings
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID, r.FirmName, string(r.Status), r.Iteration,
		r.Counts.Critical, r.Counts.Important, r.Counts.Warning,
		r.Recommendation, aiRan, aiSkipped, aiErr,
		nullIfEmpty(r.ResearchPath), nullIfEmpty(r.ReportPath),
		formatTime(r.CreatedAt), string(findings),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun loads a full QC result, findings included.
func (db *DB) GetRun(id string) (*models.QCResult, error) {
	row := db.QueryRow(`
		SELECT id, firm, status, iteration, critical, important, warning,
			recommendation, ai_ran, ai_skipped, ai_error,
			research_path, report_path, created_at, findings
		FROM qc_runs WHERE id = ?
	`, id)

	var (
		r                      models.QCResult
		status, created, found string
		aiRan, aiSkipped       bool
		aiErr, research, rep   sql.NullString
	)
	err := row.Scan(&r.ID, &r.FirmName, &status, &r.Iteration,
		&r.Counts.Critical, &r.Counts.Important, &r.Counts.Warning,
		&r.Recommendation, &aiRan, &aiSkipped, &aiErr,
		&research, &rep, &created, &found)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	r.Status = models.QCStatus(status)
	r.ResearchPath, r.ReportPath = research.String, rep.String
	if aiRan || aiSkipped || aiErr.Valid {
		r.AI = &models.AIVerdict{Ran: aiRan, Skipped: aiSkipped, Error: aiErr.String}
	}
	if r.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(found), &r.Findings); err != nil {
		return nil, fmt.Errorf("decode findings: %w", err)
	}
	if r.Findings == nil {
		r.Findings = []models.Finding{}
	}
	return &r, nil
}

// ListRuns returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT id, firm, status, iteration, critical, important, warning,
			recommendation, ai_ran, ai_skipped, ai_error,
			research_path, report_path, created_at
		FROM qc_runs ORDER BY created_at DESC, rowid DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                    Run
			status               string
			aiErr, research, rep sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Firm, &status, &r.Iteration,
			&r.Counts.Critical, &r.Counts.Important, &r.Counts.Warning,
			&r.Recommendation, &r.AIRan, &r.AISkipped, &aiErr,
			&research, &rep, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Status = models.QCStatus(status)
		r.AIError, r.ResearchPath, r.ReportPath = aiErr.String, research.String, rep.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
