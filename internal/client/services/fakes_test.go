package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/tripvault/internal/category"
	"github.com/dmitrijs2005/tripvault/internal/client/client"
	"github.com/dmitrijs2005/tripvault/internal/client/models"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertMeta(t *testing.T, db *sql.DB, k string, v []byte) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO metadata(key,value) VALUES(?,?)`, k, v)
	require.NoError(t, err)
}

func getMeta(t *testing.T, db *sql.DB, k string) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM metadata WHERE key=?`, k).Scan(&v)
	require.NoError(t, err)
	return v
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	mu sync.Mutex

	CloseErr    error
	RegisterErr error

	GetSaltRet []byte
	GetSaltErr error

	LoginErr error
	PingErr  error

	LoggedOut bool

	Ticket           *models.UploadTicket
	RequestUploadErr error

	CreateErr error
	Created   []models.NewDocument

	ListRet []*models.Document
	ListErr error

	GetRet    *models.Document
	GetURL    string
	GetErr    error
	UpdateErr error
	DeleteErr error
	Deleted   []string

	LastRegisterUser string
	LastRegisterSalt []byte
	LastRegisterKey  []byte
	LastGetSaltUser  string
	LastLoginUser    string
	LastLoginKey     []byte
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) Register(ctx context.Context, username string, salt []byte, key []byte) error {
	f.LastRegisterUser = username
	f.LastRegisterSalt = append([]byte(nil), salt...)
	f.LastRegisterKey = append([]byte(nil), key...)
	return f.RegisterErr
}

func (f *fakeClient) GetSalt(ctx context.Context, username string) ([]byte, error) {
	f.LastGetSaltUser = username
	return append([]byte(nil), f.GetSaltRet...), f.GetSaltErr
}

func (f *fakeClient) Login(ctx context.Context, username string, key []byte) error {
	f.LastLoginUser = username
	f.LastLoginKey = append([]byte(nil), key...)
	return f.LoginErr
}

func (f *fakeClient) Logout() { f.LoggedOut = true }

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) RequestUpload(ctx context.Context, tripID string) (*models.UploadTicket, error) {
	if f.RequestUploadErr != nil {
		return nil, f.RequestUploadErr
	}
	return f.Ticket, nil
}

func (f *fakeClient) CreateDocument(ctx context.Context, doc models.NewDocument) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.Created = append(f.Created, doc)
	return &models.Document{
		ID:                "doc-1",
		TripID:            doc.TripID,
		Title:             doc.Title,
		Category:          doc.Category,
		FilePath:          doc.FilePath,
		FileName:          doc.FileName,
		MimeType:          doc.MimeType,
		SizeBytes:         doc.SizeBytes,
		EncryptionVersion: doc.EncryptionVersion,
		EncryptionIV:      doc.EncryptionIV,
		EncryptionSalt:    doc.EncryptionSalt,
	}, nil
}

func (f *fakeClient) ListDocuments(ctx context.Context, tripID string) ([]*models.Document, error) {
	return f.ListRet, f.ListErr
}

func (f *fakeClient) GetDocument(ctx context.Context, id string) (*models.Document, string, error) {
	return f.GetRet, f.GetURL, f.GetErr
}

func (f *fakeClient) UpdateDocument(ctx context.Context, id, title string, cat category.Category) (*models.Document, error) {
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	return &models.Document{ID: id, TripID: "trip-1", Title: title, Category: cat}, nil
}

func (f *fakeClient) DeleteDocument(ctx context.Context, id string) error {
	f.Deleted = append(f.Deleted, id)
	return f.DeleteErr
}
