package repomanager

import (
	"github.com/artistkatta/jobservice/internal/dynamox"
	"github.com/artistkatta/jobservice/internal/server/repositories/jobs"
	"github.com/artistkatta/jobservice/internal/server/repositories/users"
)

// DynamoRepositoryManager serves jobs and profiles from a single table.
type DynamoRepositoryManager struct {
	jobs  *jobs.DynamoRepository
	users *users.DynamoRepository
}

func NewDynamoRepositoryManager(api dynamox.API, table, dateIndex string) *DynamoRepositoryManager {
	return &DynamoRepositoryManager{
		jobs:  jobs.NewDynamoRepository(api, table, dateIndex),
		users: users.NewDynamoRepository(api, table),
	}
}

func (m *DynamoRepositoryManager) Jobs() jobs.Repository   { return m.jobs }
func (m *DynamoRepositoryManager) Users() users.Repository { return m.users }

// Close is a no-op; the SDK client holds no connections that need closing.
func (m *DynamoRepositoryManager) Close() error { return nil }
