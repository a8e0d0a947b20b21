package users

import (
	"context"
	"sync"
	"time"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/artistkatta/jobservice/internal/server/models"
)

// MemoryRepository keeps profiles in a map.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewMemoryRepository returns a repository holding copies of seed.
func NewMemoryRepository(seed ...*models.User) *MemoryRepository {
	r := &MemoryRepository{users: make(map[string]models.User, len(seed))}
	for _, u := range seed {
		r.users[u.UserID] = *u
	}
	return r
}

func (r *MemoryRepository) Get(ctx context.Context, userID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) Update(ctx context.Context, patch models.UserPatch, now time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[patch.UserID]
	if !ok {
		return nil, common.ErrNotFound
	}
	if patch.ExpectedVersion != nil && *patch.ExpectedVersion != u.Version {
		return nil, common.ErrVersionConflict
	}

	patch.Apply(&u)
	u.Version++
	u.UpdatedAt = now
	r.users[u.UserID] = u
	return &u, nil
}
