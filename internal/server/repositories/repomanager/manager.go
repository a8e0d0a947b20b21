// Package repomanager picks a storage backend and vends the repositories
// built on it.
package repomanager

import (
	"context"
	"fmt"

	"github.com/artistkatta/jobservice/internal/dynamox"
	"github.com/artistkatta/jobservice/internal/server/config"
	"github.com/artistkatta/jobservice/internal/server/repositories/jobs"
	"github.com/artistkatta/jobservice/internal/server/repositories/users"
)

type RepositoryManager interface {
	Jobs() jobs.Repository
	Users() users.Repository
	Close() error
}

// newDynamoClient is a seam for tests.
var newDynamoClient = func(ctx context.Context, opts dynamox.Options) (dynamox.API, error) {
	return dynamox.NewClient(ctx, opts)
}

// New opens the backend named by cfg.StoreBackend.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StoreBackend {
	case config.BackendDynamo:
		api, err := newDynamoClient(ctx, dynamox.Options{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Endpoint:        cfg.DynamoEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("dynamodb client: %w", err)
		}
		return NewDynamoRepositoryManager(api, cfg.JobsTable, cfg.JobsDateIndex), nil
	case config.BackendPostgres:
		m, err := NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.BackendMemory:
		if cfg.SeedUsersFile == "" {
			return NewMemoryRepositoryManager(), nil
		}
		seed, err := loadSeedUsers(cfg.SeedUsersFile)
		if err != nil {
			return nil, err
		}
		return NewMemoryRepositoryManager(seed...), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
