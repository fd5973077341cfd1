package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tripvault/internal/category"
	"github.com/dmitrijs2005/tripvault/internal/common"
	"github.com/dmitrijs2005/tripvault/internal/dbx"
	"github.com/dmitrijs2005/tripvault/internal/server/models"
)

const columns = `id, trip_id, creator_id, title, category, file_path, file_name, mime_type,
		size_bytes, encryption_version, encryption_iv, encryption_salt, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*models.Document, error) {
	var (
		d   models.Document
		cat string
	)
	err := s.Scan(&d.ID, &d.TripID, &d.CreatorID, &d.Title, &cat, &d.FilePath, &d.FileName, &d.MimeType,
		&d.SizeBytes, &d.EncryptionVersion, &d.EncryptionIV, &d.EncryptionSalt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Category = category.FromString(cat)
	return &d, nil
}

func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	query := `
		INSERT INTO vault_documents (trip_id, creator_id, title, category, file_path, file_name, mime_type,
			size_bytes, encryption_version, encryption_iv, encryption_salt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		doc.TripID, doc.CreatorID, doc.Title, doc.Category.String(), doc.FilePath, doc.FileName, doc.MimeType,
		doc.SizeBytes, doc.EncryptionVersion, doc.EncryptionIV, doc.EncryptionSalt,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, creatorID string) (*models.Document, error) {
	query := `SELECT ` + columns + `
		FROM vault_documents
		WHERE id = $1 AND creator_id = $2`

	d, err := scanDocument(r.db.QueryRowContext(ctx, query, id, creatorID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) ListByTrip(ctx context.Context, tripID, creatorID string) ([]*models.Document, error) {
	query := `SELECT ` + columns + `
		FROM vault_documents
		WHERE trip_id = $1 AND creator_id = $2
		ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, tripID, creatorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdateDetails(ctx context.Context, id, creatorID, title string, cat category.Category) (*models.Document, error) {
	query := `
		UPDATE vault_documents
		SET title = $3, category = $4, updated_at = now()
		WHERE id = $1 AND creator_id = $2
		RETURNING ` + columns

	d, err := scanDocument(r.db.QueryRowContext(ctx, query, id, creatorID, title, cat.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, creatorID string) (*models.Document, error) {
	query := `
		DELETE FROM vault_documents
		WHERE id = $1 AND creator_id = $2
		RETURNING ` + columns

	d, err := scanDocument(r.db.QueryRowContext(ctx, query, id, creatorID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}
