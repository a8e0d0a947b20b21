package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/artistkatta/jobservice/internal/server/models"
	"github.com/artistkatta/jobservice/internal/server/repositories/users"
)

type UserService struct {
	users users.Repository
	now   func() time.Time
}

func NewUserService(repo users.Repository) *UserService {
	return &UserService{users: repo, now: time.Now}
}

// Edit writes the fields present in patch onto an existing profile.
// Unknown users fail with common.ErrNotFound and nothing is stored.
func (s *UserService) Edit(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.users.Update(ctx, patch, s.now().UTC())
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", common.ErrValidation)
	}
	return s.users.Get(ctx, userID)
}
