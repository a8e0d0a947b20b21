package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/artistkatta/jobservice/internal/server/models"
	"github.com/artistkatta/jobservice/internal/server/repositories/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newJobService(t *testing.T) (*JobService, *jobs.MemoryRepository) {
	t.Helper()
	repo := jobs.NewMemoryRepository()
	s := NewJobService(repo)
	s.now = func() time.Time { return time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC) }
	return s, repo
}

func TestJobService_Create(t *testing.T) {
	s, _ := newJobService(t)

	got, err := s.Create(context.Background(), &models.Job{
		JobID:      "client-chosen",
		Title:      "Mural Artist",
		PostedDate: "2024-03-01",
		Location:   "Mumbai",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "client-chosen", got.JobID)
	assert.NotEmpty(t, got.JobID)
	assert.Equal(t, "2024-03-01", got.PostedDate)
	assert.Equal(t, int64(1), got.Version)

	stored, err := s.Get(context.Background(), got.JobID)
	require.NoError(t, err)
	assert.Equal(t, got, stored, "get after create returns the created job")
}

func TestJobService_Create_DefaultsPostedDate(t *testing.T) {
	s, _ := newJobService(t)

	got, err := s.Create(context.Background(), &models.Job{Title: "Mural Artist"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", got.PostedDate)
}

func TestJobService_Create_UniqueIDs(t *testing.T) {
	s, _ := newJobService(t)
	in := &models.Job{Title: "Same", PostedDate: "2024-03-01"}

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		got, err := s.Create(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, seen[got.JobID], "duplicate id %s", got.JobID)
		seen[got.JobID] = true
	}
	assert.Empty(t, in.JobID, "input is not mutated")
}

func TestJobService_Create_Validation(t *testing.T) {
	s, _ := newJobService(t)

	for _, in := range []*models.Job{
		{PostedDate: "2024-03-01"},
		{Title: "   ", PostedDate: "2024-03-01"},
		{Title: "x", PostedDate: "03/01/2024"},
		{Title: "x", PostedDate: "2024-02-30"},
	} {
		_, err := s.Create(context.Background(), in)
		assert.ErrorIs(t, err, common.ErrValidation, "%+v", in)
	}
}

func TestJobService_Edit(t *testing.T) {
	s, _ := newJobService(t)
	created, err := s.Create(context.Background(), &models.Job{Title: "Old", PostedDate: "2024-03-01", Company: "Katta"})
	require.NoError(t, err)

	got, err := s.Edit(context.Background(), created.JobID, "2024-03-01", models.JobPatch{Title: ptr("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "Katta", got.Company, "absent fields are untouched")
	assert.Equal(t, created.JobID, got.JobID)
	assert.Equal(t, "2024-03-01", got.PostedDate)
	assert.Equal(t, int64(2), got.Version)
}

func TestJobService_Edit_EmptyPatchDoesNotWrite(t *testing.T) {
	s, repo := newJobService(t)
	created, err := s.Create(context.Background(), &models.Job{Title: "Old", PostedDate: "2024-03-01"})
	require.NoError(t, err)

	s.now = func() time.Time { return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) }

	got, err := s.Edit(context.Background(), created.JobID, "2024-03-01", models.JobPatch{ExpectedVersion: ptr(int64(1))})
	require.NoError(t, err)
	assert.Equal(t, created, got)

	stored, err := repo.GetByID(context.Background(), created.JobID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, created.UpdatedAt, stored.UpdatedAt)
}

func TestJobService_Edit_Errors(t *testing.T) {
	s, _ := newJobService(t)
	created, err := s.Create(context.Background(), &models.Job{Title: "Old", PostedDate: "2024-03-01"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		jobID      string
		postedDate string
		patch      models.JobPatch
		want       error
	}{
		{"missing id", "", "2024-03-01", models.JobPatch{}, common.ErrValidation},
		{"missing date", created.JobID, "", models.JobPatch{}, common.ErrValidation},
		{"bad date", created.JobID, "yesterday", models.JobPatch{}, common.ErrValidation},
		{"blank title", created.JobID, "2024-03-01", models.JobPatch{Title: ptr("")}, common.ErrValidation},
		{"unknown id", "nope", "2024-03-01", models.JobPatch{}, common.ErrNotFound},
		{"wrong date", created.JobID, "2024-03-02", models.JobPatch{}, common.ErrNotFound},
		{"stale version", created.JobID, "2024-03-01", models.JobPatch{ExpectedVersion: ptr(int64(7))}, common.ErrVersionConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Edit(context.Background(), tt.jobID, tt.postedDate, tt.patch)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestJobService_Get_Errors(t *testing.T) {
	s, _ := newJobService(t)

	_, err := s.Get(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestJobService_ListByDateRange(t *testing.T) {
	s, _ := newJobService(t)
	for i, d := range []string{"2024-03-10", "2024-01-05", "2024-03-01", "2024-04-01", "2024-03-01"} {
		_, err := s.Create(context.Background(), &models.Job{Title: fmt.Sprintf("job %d", i), PostedDate: d})
		require.NoError(t, err)
	}

	got, err := s.ListByDateRange(context.Background(), "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].PostedDate, got[i].PostedDate)
	}
	for _, j := range got {
		assert.True(t, j.PostedDate >= "2024-03-01" && j.PostedDate <= "2024-03-31")
	}

	// Widening the range never loses jobs.
	wider, err := s.ListByDateRange(context.Background(), "2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.Len(t, wider, 5)

	empty, err := s.ListByDateRange(context.Background(), "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestJobService_ListByDateRange_Validation(t *testing.T) {
	s, _ := newJobService(t)

	_, err := s.ListByDateRange(context.Background(), "2024-03-31", "2024-03-01")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.ListByDateRange(context.Background(), "", "2024-03-01")
	assert.ErrorIs(t, err, common.ErrValidation)
}
