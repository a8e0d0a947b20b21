package users

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

// PostgresRepository keeps each profile as a jsonb document in the users table.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT user_id, profile, version, updated_at FROM users WHERE user_id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: db error: %v", common.ErrStore, err)
	}
	return u, nil
}

func (r *PostgresRepository) Update(ctx context.Context, patch models.UserPatch, now time.Time) (*models.User, error) {
	fields := patch.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	doc, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal patch: %v", common.ErrStore, err)
	}

	var u *models.User
	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var current int64
		err := tx.QueryRowContext(ctx,
			`SELECT version FROM users WHERE user_id = $1 FOR UPDATE`, patch.UserID).Scan(&current)
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
			UPDATE users SET profile = profile || $2::jsonb, version = version + 1, updated_at = $3
			WHERE user_id = $1
			RETURNING user_id, profile, version, updated_at`
		u, err = scanUser(tx.QueryRowContext(ctx, query, patch.UserID, string(doc), now))
		if err != nil {
			return fmt.Errorf("%w: db error: %v", common.ErrStore, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var (
		u       models.User
		profile []byte
	)
	if err := row.Scan(&u.UserID, &profile, &u.Version, &u.UpdatedAt); err != nil {
		return nil, err
	}
	id := u.UserID
	if err := json.Unmarshal(profile, &u); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	u.UserID = id
	return &u, nil
}
