package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/artistkatta/jobservice/internal/server/migrations"
	"github.com/artistkatta/jobservice/internal/server/repositories/jobs"
	"github.com/artistkatta/jobservice/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories sharing one pool.
type PostgresRepositoryManager struct {
	db *sql.DB
}

var (
	// sqlOpen and gooseUpContext are seams for tests.
	sqlOpen = sql.Open

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
)

// NewPostgresRepositoryManager connects to dsn and brings the schema up to date.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	m := &PostgresRepositoryManager{db: db}
	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migrations: %w", err)
	}
	return m, nil
}

// RunMigrations applies the embedded goose migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

func (m *PostgresRepositoryManager) Jobs() jobs.Repository   { return jobs.NewPostgresRepository(m.db) }
func (m *PostgresRepositoryManager) Users() users.Repository { return users.NewPostgresRepository(m.db) }
func (m *PostgresRepositoryManager) Close() error            { return m.db.Close() }
