// Package documents caches document metadata locally so the list can be
// shown while the server is unreachable. Nothing here can decrypt a file:
// the passphrase is never stored and ciphertexts are never cached.
package documents

import (
	"context"

	"github.com/dmitrijs2005/tripvault/internal/client/models"
)

type Repository interface {
	Upsert(ctx context.Context, doc *models.Document) error
	ReplaceTrip(ctx context.Context, tripID string, docs []*models.Document) error
	ListByTrip(ctx context.Context, tripID string) ([]*models.Document, error)
	Get(ctx context.Context, id string) (*models.Document, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
