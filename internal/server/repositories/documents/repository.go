// Package documents persists vault document metadata. Every read and write
// that names a document is scoped to its creator.
package documents

import (
	"context"

	"github.com/dmitrijs2005/tripvault/internal/category"
	"github.com/dmitrijs2005/tripvault/internal/server/models"
)

type Repository interface {
	// Create inserts doc and fills in ID and timestamps. A reused storage
	// key, IV or salt yields common.ErrAlreadyExists.
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	GetByID(ctx context.Context, id, creatorID string) (*models.Document, error)
	ListByTrip(ctx context.Context, tripID, creatorID string) ([]*models.Document, error)
	UpdateDetails(ctx context.Context, id, creatorID, title string, cat category.Category) (*models.Document, error)
	// Delete removes the record and returns it so the caller can drop the blob.
	Delete(ctx context.Context, id, creatorID string) (*models.Document, error)
}
