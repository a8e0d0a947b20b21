package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/artistkatta/jobservice/internal/dbx"
	"github.com/artistkatta/jobservice/internal/server/models"
)

// PostgresRepository stores jobs in the jobs table. Key columns and
// bookkeeping live in their own columns; every other attribute sits in the
// body jsonb document so partial updates are a jsonb merge.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `job_id, posted_date, body, version, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, job *models.Job) error {
	body, err := jobBody(job)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStore, err)
	}

	query := `
		INSERT INTO jobs (job_id, posted_date, body, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (job_id, posted_date) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		job.JobID, job.PostedDate, string(body), job.Version, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: db error: %v", common.ErrStore, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected error: %v", common.ErrStore, err)
	}
	if n == 0 {
		return common.ErrAlreadyExists
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, jobID string) (*models.Job, error) {
	query := `SELECT ` + selectColumns + ` FROM jobs WHERE job_id = $1 LIMIT 1`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: db error: %v", common.ErrStore, err)
	}
	return job, nil
}

// Update locks the row, checks the optional expected version and merges the
// patch into body in one transaction.
func (r *PostgresRepository) Update(ctx context.Context, jobID, postedDate string, patch models.JobPatch, now time.Time) (*models.Job, error) {
	fields, err := json.Marshal(patch.Fields())
	if err != nil {
		return nil, fmt.Errorf("%w: marshal patch: %v", common.ErrStore, err)
	}

	var job *models.Job
	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var current int64
		err := tx.QueryRowContext(ctx,
			`SELECT version FROM jobs WHERE job_id = $1 AND posted_date = $2 FOR UPDATE`,
			jobID, postedDate).Scan(&current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrNotFound
			}
			return fmt.Errorf("%w: db error: %v", common.ErrStore, err)
		}
		if patch.ExpectedVersion != nil && *patch.ExpectedVersion != current {
			return common.ErrVersionConflict
		}

		query := `
			UPDATE jobs SET body = body || $3::jsonb, version = version + 1, updated_at = $4
			WHERE job_id = $1 AND posted_date = $2
			RETURNING ` + selectColumns
		job, err = scanJob(tx.QueryRowContext(ctx, query, jobID, postedDate, string(fields), now))
		if err != nil {
			return fmt.Errorf("%w: db error: %v", common.ErrStore, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (r *PostgresRepository) ListByDateRange(ctx context.Context, dr models.DateRange) ([]*models.Job, error) {
	query := `SELECT ` + selectColumns + ` FROM jobs
		WHERE posted_date BETWEEN $1 AND $2
		ORDER BY posted_date, job_id`

	rows, err := r.db.QueryContext(ctx, query, dr.Start, dr.End)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select jobs: %v", common.ErrStore, err)
	}
	defer rows.Close()

	out := make([]*models.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan job: %v", common.ErrStore, err)
		}
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStore, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*models.Job, error) {
	var (
		job        models.Job
		postedDate time.Time
		body       []byte
	)
	if err := row.Scan(&job.JobID, &postedDate, &body, &job.Version, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	job.PostedDate = models.FormatDate(postedDate)
	return &job, nil
}

// jobBody renders the non-key attributes of job as a JSON document.
func jobBody(job *models.Job) ([]byte, error) {
	b, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal job: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("marshal job: %w", err)
	}
	for _, k := range []string{"jobId", "postedDate", "version", "createdAt", "updatedAt"} {
		delete(doc, k)
	}
	return json.Marshal(doc)
}
