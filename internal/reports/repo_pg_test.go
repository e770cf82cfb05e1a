package reports

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"jobmatch-backend/internal/analysis"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	report := Report{
		ID:             "5f0c6a4e-7c55-4a8e-9f39-0d7d4f5e4f11",
		AnalyzedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		OverallScore:   77,
		Recommendation: "Good Match",
		Source:         analysis.SourceHeuristic,
		Result:         analysis.AnalysisResult{OverallScore: 77},
		StorageKey:     "reports/5f0c6a4e-7c55-4a8e-9f39-0d7d4f5e4f11.json",
	}

	mock.ExpectExec("INSERT INTO analysis_reports").
		WithArgs(
			report.ID,
			report.AnalyzedAt,
			report.OverallScore,
			report.Recommendation,
			report.Source,
			sqlmock.AnyArg(), // result
			report.StorageKey,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), report); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	analyzedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	result, err := json.Marshal(analysis.AnalysisResult{OverallScore: 88, Recommendation: "Strong Match", Source: analysis.SourceAI})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rows := sqlmock.NewRows([]string{"id", "analyzed_at", "overall_score", "recommendation", "source", "result", "storage_key"}).
		AddRow("r-1", analyzedAt, 88, "Strong Match", analysis.SourceAI, result, nil)
	mock.ExpectQuery("SELECT (.+) FROM analysis_reports WHERE id = \\$1").
		WithArgs("r-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "r-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.OverallScore != 88 || got.Result.Recommendation != "Strong Match" || got.StorageKey != "" {
		t.Fatalf("unexpected report %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM analysis_reports").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListClampsLimit(t *testing.T) {
	repo, mock := newMockRepo(t)
	analyzedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "analyzed_at", "overall_score", "recommendation", "source", "result", "storage_key"}).
		AddRow("r-2", analyzedAt, 40, "Weak Match", analysis.SourceHeuristic, []byte(`{"overallScore":40}`), "reports/r-2.json").
		AddRow("r-1", analyzedAt.Add(-time.Hour), 90, "Strong Match", analysis.SourceAI, []byte(`{"overallScore":90}`), nil)
	mock.ExpectQuery("SELECT (.+) FROM analysis_reports").
		WithArgs(100, 0).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), 500, -1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r-2" || got[0].StorageKey != "reports/r-2.json" || got[1].Result.OverallScore != 90 {
		t.Fatalf("unexpected reports %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
