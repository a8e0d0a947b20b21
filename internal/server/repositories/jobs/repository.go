// Package jobs stores job postings. Implementations exist for DynamoDB,
// PostgreSQL and process memory; all of them keep (jobId, postedDate) as the
// record key and never rewrite it.
package jobs

import (
	"context"
	"sort"
	"time"

	"github.com/artistkatta/jobservice/internal/server/models"
)

type Repository interface {
	// Create stores a new job. It fails with common.ErrAlreadyExists when the
	// key pair is taken.
	Create(ctx context.Context, job *models.Job) error

	// GetByID returns the job with the given id or common.ErrNotFound.
	GetByID(ctx context.Context, jobID string) (*models.Job, error)

	// Update merges patch into the job stored under (jobID, postedDate),
	// bumps its version and returns the stored result.
	Update(ctx context.Context, jobID, postedDate string, patch models.JobPatch, now time.Time) (*models.Job, error)

	// ListByDateRange returns the jobs posted inside r, oldest first.
	ListByDateRange(ctx context.Context, r models.DateRange) ([]*models.Job, error)
}

// sortByPostedDate orders jobs by posting date, then id.
func sortByPostedDate(list []*models.Job) {
	sort.SliceStable(list, func(i, k int) bool {
		if list[i].PostedDate != list[k].PostedDate {
			return list[i].PostedDate < list[k].PostedDate
		}
		return list[i].JobID < list[k].JobID
	})
}
