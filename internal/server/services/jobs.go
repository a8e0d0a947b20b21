// Package services holds the job service's use cases. Handlers call these;
// these call the repositories.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/artistkatta/jobservice/internal/server/models"
	"github.com/artistkatta/jobservice/internal/server/repositories/jobs"
	"github.com/google/uuid"
)

type JobService struct {
	jobs  jobs.Repository
	now   func() time.Time
	newID func() string
}

func NewJobService(repo jobs.Repository) *JobService {
	return &JobService{
		jobs:  repo,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Create stores a new job under a freshly generated id. An empty
// PostedDate defaults to today's UTC date. Any JobID on the input is ignored.
func (s *JobService) Create(ctx context.Context, in *models.Job) (*models.Job, error) {
	job := in.Clone()
	now := s.now().UTC()

	job.JobID = s.newID()
	if job.PostedDate == "" {
		job.PostedDate = models.FormatDate(now)
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	job.Version = 1
	job.CreatedAt = now
	job.UpdatedAt = now

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Edit applies patch to the job stored under (jobID, postedDate). The key
// pair itself never changes.
func (s *JobService) Edit(ctx context.Context, jobID, postedDate string, patch models.JobPatch) (*models.Job, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("%w: jobId is required", common.ErrValidation)
	}
	if postedDate == "" {
		return nil, fmt.Errorf("%w: postedDate is required", common.ErrValidation)
	}
	if _, err := models.ParseDate(postedDate); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.current(ctx, jobID, postedDate, patch.ExpectedVersion)
	}

	return s.jobs.Update(ctx, jobID, postedDate, patch, s.now().UTC())
}

// current answers an edit that changes nothing without writing: the job is
// looked up and checked the same way Update would check it.
func (s *JobService) current(ctx context.Context, jobID, postedDate string, expectedVersion *int64) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.PostedDate != postedDate {
		return nil, common.ErrNotFound
	}
	if expectedVersion != nil && *expectedVersion != job.Version {
		return nil, common.ErrVersionConflict
	}
	return job, nil
}

func (s *JobService) Get(ctx context.Context, jobID string) (*models.Job, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("%w: jobId is required", common.ErrValidation)
	}
	return s.jobs.GetByID(ctx, jobID)
}

// ListByDateRange returns the jobs posted between start and end inclusive,
// oldest first.
func (s *JobService) ListByDateRange(ctx context.Context, start, end string) ([]*models.Job, error) {
	dr, err := models.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.jobs.ListByDateRange(ctx, dr)
}
