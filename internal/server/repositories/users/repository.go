// Package users stores artist and company profiles.
package users

import (
	"context"
	"time"

	"github.com/artistkatta/jobservice/internal/server/models"
)

type Repository interface {
	// Get returns the profile of userID or common.ErrNotFound.
	Get(ctx context.Context, userID string) (*models.User, error)

	// Update writes the patch fields onto an existing profile and returns the
	// stored result. A missing profile yields common.ErrNotFound and nothing
	// is written.
	Update(ctx context.Context, patch models.UserPatch, now time.Time) (*models.User, error)
}
