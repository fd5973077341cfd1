package users

import (
	"context"

	"github.com/dmitrijs2005/tripvault/internal/server/models"
)

// Repository stores vault accounts. The server only ever sees the account
// salt and the master key verifier, never the password.
type Repository interface {
	// Create inserts user and fills in its ID and CreatedAt. A taken
	// username yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// FindByUsername returns common.ErrorNotFound for unknown names.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
