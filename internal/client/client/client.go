package client

import (
	"context"

	"github.com/dmitrijs2005/tripvault/internal/category"
	"github.com/dmitrijs2005/tripvault/internal/client/models"
)

type Client interface {
	Close() error
	Register(ctx context.Context, username string, salt []byte, key []byte) error
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, key []byte) error
	Logout()
	Ping(ctx context.Context) error

	RequestUpload(ctx context.Context, tripID string) (*models.UploadTicket, error)
	CreateDocument(ctx context.Context, doc models.NewDocument) (*models.Document, error)
	ListDocuments(ctx context.Context, tripID string) ([]*models.Document, error)
	GetDocument(ctx context.Context, id string) (*models.Document, string, error)
	UpdateDocument(ctx context.Context, id, title string, cat category.Category) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}
