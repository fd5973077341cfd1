// Package refreshtokens stores the opaque refresh tokens issued at login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tripvault/internal/server/models"
)

// Repository issues, looks up and revokes refresh tokens.
type Repository interface {
	// Create stores t and fills in its ID and CreatedAt.
	Create(ctx context.Context, t *models.RefreshToken) error

	// Find looks up a refresh token by its opaque token string.
	// It returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete consumes a token. It returns common.ErrorNotFound when the
	// token was already gone, which is how a concurrent rotation is detected.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes every token that expired before the cutoff.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
