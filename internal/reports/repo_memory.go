package reports

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores reports in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Report
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Report)}
}

// Create stores the report.
func (r *MemoryRepo) Create(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[report.ID] = report
	return nil
}

// GetByID returns a report by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, reportID string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.byID[reportID]
	if !ok {
		return Report{}, ErrNotFound
	}
	return report, nil
}

// List returns reports newest first, with limit/offset. A zero limit returns all.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	reports := make([]Report, 0, len(r.byID))
	for _, report := range r.byID {
		reports = append(reports, report)
	}
	r.mu.RUnlock()

	if offset >= len(reports) {
		return []Report{}, nil
	}
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].AnalyzedAt.Equal(reports[j].AnalyzedAt) {
			return reports[i].ID < reports[j].ID
		}
		return reports[i].AnalyzedAt.After(reports[j].AnalyzedAt)
	})

	end := len(reports)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return reports[offset:end], nil
}
