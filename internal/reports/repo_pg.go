package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, analyzed_at, overall_score, recommendation, source, result, storage_key`

// Create inserts a new report.
func (r *PGRepo) Create(ctx context.Context, report Report) error {
	const query = `
INSERT INTO analysis_reports (id, analyzed_at, overall_score, recommendation, source, result, storage_key)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	payload, err := json.Marshal(report.Result)
	if err != nil {
		return fmt.Errorf("marshal report result: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		report.ID,
		report.AnalyzedAt,
		report.OverallScore,
		report.Recommendation,
		report.Source,
		payload,
		nullString(report.StorageKey),
	)
	return err
}

// GetByID returns a report by ID.
func (r *PGRepo) GetByID(ctx context.Context, reportID string) (Report, error) {
	query := `SELECT ` + selectColumns + ` FROM analysis_reports WHERE id = $1 LIMIT 1`
	report, err := scanReport(r.DB.QueryRowContext(ctx, query, reportID))
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	return report, err
}

// List returns reports newest first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Report, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + selectColumns + `
FROM analysis_reports
ORDER BY analyzed_at DESC, id
LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (Report, error) {
	var (
		report     Report
		result     []byte
		storageKey sql.NullString
	)
	if err := row.Scan(
		&report.ID,
		&report.AnalyzedAt,
		&report.OverallScore,
		&report.Recommendation,
		&report.Source,
		&result,
		&storageKey,
	); err != nil {
		return Report{}, err
	}
	if len(result) > 0 {
		if err := json.Unmarshal(result, &report.Result); err != nil {
			return Report{}, fmt.Errorf("decode report result: %w", err)
		}
	}
	report.StorageKey = storageKey.String
	return report, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
