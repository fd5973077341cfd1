package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tripvault/internal/category"
	"github.com/dmitrijs2005/tripvault/internal/client/models"
	"github.com/dmitrijs2005/tripvault/internal/common"
	"github.com/dmitrijs2005/tripvault/internal/dbx"
)

const columns = `id, trip_id, title, category, file_path, file_name, mime_type, size_bytes,
	encryption_version, encryption_iv, encryption_salt, created_at, updated_at`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, d *models.Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			trip_id = excluded.trip_id,
			title = excluded.title,
			category = excluded.category,
			file_path = excluded.file_path,
			file_name = excluded.file_name,
			mime_type = excluded.mime_type,
			size_bytes = excluded.size_bytes,
			encryption_version = excluded.encryption_version,
			encryption_iv = excluded.encryption_iv,
			encryption_salt = excluded.encryption_salt,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, d.ID, d.TripID, d.Title, d.Category.String(), d.FilePath, d.FileName, d.MimeType, d.SizeBytes,
		d.EncryptionVersion, d.EncryptionIV, d.EncryptionSalt, d.CreatedAt.UTC(), d.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert document[%s]: %w", d.ID, err)
	}
	return nil
}

// ReplaceTrip makes the cached set for tripID equal to docs. Callers that
// need atomicity pass a transaction as the DBTX.
func (r *SQLiteRepository) ReplaceTrip(ctx context.Context, tripID string, docs []*models.Document) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE trip_id = ?`, tripID); err != nil {
		return fmt.Errorf("failed to clear trip[%s]: %w", tripID, err)
	}
	for _, d := range docs {
		if err := r.Upsert(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) ListByTrip(ctx context.Context, tripID string) ([]*models.Document, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM documents WHERE trip_id = ? ORDER BY created_at DESC, id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	res := make([]*models.Document, 0)
	for rows.Next() {
		d, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		res = append(res, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate document rows: %w", err)
	}
	return res, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	d, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM documents WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to get document[%s]: %w", id, err)
	}
	return d, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete document[%s]: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Document, error) {
	var (
		d   models.Document
		cat string
	)
	if err := s.Scan(&d.ID, &d.TripID, &d.Title, &cat, &d.FilePath, &d.FileName, &d.MimeType, &d.SizeBytes,
		&d.EncryptionVersion, &d.EncryptionIV, &d.EncryptionSalt, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Category = category.FromString(cat)
	return &d, nil
}
