package reports

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no report exists for an ID.
var ErrNotFound = errors.New("report not found")

// Repo defines persistence operations for reports.
type Repo interface {
	Create(ctx context.Context, report Report) error
	GetByID(ctx context.Context, reportID string) (Report, error)
	List(ctx context.Context, limit, offset int) ([]Report, error)
}
