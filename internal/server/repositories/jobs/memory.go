package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/artistkatta/jobservice/internal/server/models"
)

type key struct {
	jobID      string
	postedDate string
}

// MemoryRepository keeps jobs in a map. Used by tests and the "memory" backend.
type MemoryRepository struct {
	mu   sync.RWMutex
	jobs map[key]*models.Job
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{jobs: make(map[key]*models.Job)}
}

func (r *MemoryRepository) Create(ctx context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{job.JobID, job.PostedDate}
	if _, ok := r.jobs[k]; ok {
		return common.ErrAlreadyExists
	}
	r.jobs[k] = job.Clone()
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, jobID string) (*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for k, j := range r.jobs {
		if k.jobID == jobID {
			return j.Clone(), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) Update(ctx context.Context, jobID, postedDate string, patch models.JobPatch, now time.Time) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[key{jobID, postedDate}]
	if !ok {
		return nil, common.ErrNotFound
	}
	if patch.ExpectedVersion != nil && *patch.ExpectedVersion != j.Version {
		return nil, common.ErrVersionConflict
	}

	patch.Apply(j)
	j.Version++
	j.UpdatedAt = now
	return j.Clone(), nil
}

func (r *MemoryRepository) ListByDateRange(ctx context.Context, dr models.DateRange) ([]*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Job, 0)
	for k, j := range r.jobs {
		if dr.Contains(k.postedDate) {
			out = append(out, j.Clone())
		}
	}
	sortByPostedDate(out)
	return out, nil
}
