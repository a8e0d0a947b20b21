package repomanager

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/artistkatta/jobservice/internal/server/models"
	"github.com/artistkatta/jobservice/internal/server/repositories/jobs"
	"github.com/artistkatta/jobservice/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory.
type MemoryRepositoryManager struct {
	jobs  *jobs.MemoryRepository
	users *users.MemoryRepository
}

// NewMemoryRepositoryManager starts with no jobs and the given profiles.
func NewMemoryRepositoryManager(seed ...*models.User) *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		jobs:  jobs.NewMemoryRepository(),
		users: users.NewMemoryRepository(seed...),
	}
}

func (m *MemoryRepositoryManager) Jobs() jobs.Repository   { return m.jobs }
func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }
func (m *MemoryRepositoryManager) Close() error            { return nil }

// loadSeedUsers reads a JSON array of profiles. Every entry needs a userId;
// a missing version starts at 1.
func loadSeedUsers(path string) ([]*models.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed users: %w", err)
	}

	var seed []*models.User
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed users: %w", err)
	}

	for i, u := range seed {
		if u == nil || strings.TrimSpace(u.UserID) == "" {
			return nil, fmt.Errorf("seed user %d has no userId", i)
		}
		if u.Version == 0 {
			u.Version = 1
		}
	}
	return seed, nil
}
