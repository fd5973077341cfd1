package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tripvault/internal/common"
	"github.com/dmitrijs2005/tripvault/internal/dbx"
	"github.com/dmitrijs2005/tripvault/internal/server/models"
)

const (
	insertToken = `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	selectToken = `
		SELECT id, user_id, token, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1`

	deleteToken = `DELETE FROM refresh_tokens WHERE token = $1`

	deleteExpired = `DELETE FROM refresh_tokens WHERE expires_at < $1`
)

// PostgresRepository works on the pool or inside a transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.RefreshToken) error {
	row := r.db.QueryRowContext(ctx, insertToken, t.UserID, t.Token, t.Expires)
	if err := row.Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	row := r.db.QueryRowContext(ctx, selectToken, token)
	if err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.Expires, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &t, nil
}

// Delete returns common.ErrorNotFound when no row matched, so two
// concurrent redeems of one token cannot both succeed.
func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	n, err := r.exec(ctx, deleteToken, token)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return r.exec(ctx, deleteExpired, before)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
