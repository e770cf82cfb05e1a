package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"jobmatch-backend/internal/analysis"
	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/storage/object"
	"jobmatch-backend/internal/shared/telemetry"
	"jobmatch-backend/internal/shared/util"
)

const (
	keyPrefix       = "reports/"
	jsonContentType = "application/json"
)

// Service persists analysis reports. Store is optional; without it downloads
// are rendered from the stored result.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
	Now   func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, store object.ObjectStore) *Service {
	return &Service{Repo: repo, Store: store, Now: time.Now}
}

// SaveResult stores result as a new report and returns its ID.
func (s *Service) SaveResult(ctx context.Context, result analysis.AnalysisResult) (string, error) {
	report, err := s.Save(ctx, result)
	if err != nil {
		return "", err
	}
	return report.ID, nil
}

// Save writes the report file to the object store, then records the report.
func (s *Service) Save(ctx context.Context, result analysis.AnalysisResult) (Report, error) {
	report := Report{
		ID:             uuid.NewString(),
		AnalyzedAt:     s.now(),
		OverallScore:   result.OverallScore,
		Recommendation: result.Recommendation,
		Source:         result.Source,
		Result:         result,
	}

	if s.Store != nil {
		key, err := storageKey(report.ID)
		if err != nil {
			return Report{}, err
		}
		body, err := Render(report)
		if err != nil {
			return Report{}, err
		}
		if _, err := s.Store.Put(ctx, key, jsonContentType, bytes.NewReader(body)); err != nil {
			return Report{}, fmt.Errorf("store report: %w", err)
		}
		report.StorageKey = key
	}

	if err := s.Repo.Create(ctx, report); err != nil {
		return Report{}, fmt.Errorf("create report: %w", err)
	}
	metrics.IncReportSaved()
	telemetry.Info("report.saved", map[string]any{
		"report_id":   report.ID,
		"storage_key": report.StorageKey,
		"source":      report.Source,
	})
	return report, nil
}

// Get returns a report by ID.
func (s *Service) Get(ctx context.Context, reportID string) (Report, error) {
	return s.Repo.GetByID(ctx, reportID)
}

// List returns reports newest first. limit defaults to 20 and is capped at 100.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Report, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, limit, offset)
}

// Open returns the report and its JSON file. A missing stored file is
// re-rendered from the recorded result.
func (s *Service) Open(ctx context.Context, reportID string) (Report, io.ReadCloser, error) {
	report, err := s.Repo.GetByID(ctx, reportID)
	if err != nil {
		return Report{}, nil, err
	}

	if s.Store != nil && report.StorageKey != "" {
		rc, err := s.Store.Open(ctx, report.StorageKey)
		if err == nil {
			return report, rc, nil
		}
		if !errors.Is(err, object.ErrNotFound) {
			return Report{}, nil, fmt.Errorf("open report file: %w", err)
		}
		telemetry.Warn("report.file_missing", map[string]any{
			"report_id":   report.ID,
			"storage_key": report.StorageKey,
		})
	}

	body, err := Render(report)
	if err != nil {
		return Report{}, nil, err
	}
	return report, io.NopCloser(bytes.NewReader(body)), nil
}

// Render encodes the downloadable JSON body of report.
func Render(report Report) ([]byte, error) {
	body, err := json.MarshalIndent(report.Document(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return body, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func storageKey(reportID string) (string, error) {
	name, err := util.SanitizeFileName(reportID)
	if err != nil {
		return "", err
	}
	return keyPrefix + name + ".json", nil
}

var _ analysis.ReportSaver = (*Service)(nil)
