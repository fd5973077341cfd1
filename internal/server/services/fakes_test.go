package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/tripvault/internal/category"
	"github.com/dmitrijs2005/tripvault/internal/common"
	"github.com/dmitrijs2005/tripvault/internal/dbx"
	"github.com/dmitrijs2005/tripvault/internal/server/models"
	documentsrepo "github.com/dmitrijs2005/tripvault/internal/server/repositories/documents"
	refreshtokensrepo "github.com/dmitrijs2005/tripvault/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/tripvault/internal/server/repositories/users"
	"github.com/dmitrijs2005/tripvault/internal/server/storage"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) FindByUsername(ctx context.Context, userName string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	delErr  error
	deleted []string

	createErr    error
	createdUntil time.Time

	purged int64
}

func (f *fakeRefreshRepo) Create(ctx context.Context, t *models.RefreshToken) error {
	f.createdUntil = t.Expires
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return f.delErr
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return f.purged, nil
}

// fakeDocsRepo is an in-memory documents.Repository that enforces the same
// uniqueness rules as the table.
type fakeDocsRepo struct {
	mu   sync.Mutex
	docs map[string]*models.Document
	seq  int

	createErr error
	deleteErr error
}

func newFakeDocsRepo() *fakeDocsRepo {
	return &fakeDocsRepo{docs: map[string]*models.Document{}}
}

func (f *fakeDocsRepo) Create(ctx context.Context, d *models.Document) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, x := range f.docs {
		if x.FilePath == d.FilePath || x.EncryptionIV == d.EncryptionIV || x.EncryptionSalt == d.EncryptionSalt {
			return nil, common.ErrAlreadyExists
		}
	}
	f.seq++
	cp := *d
	cp.ID = "00000000-0000-0000-0000-" + padID(f.seq)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.docs[cp.ID] = &cp
	out := cp
	return &out, nil
}

func padID(n int) string {
	s := "000000000000"
	digits := []byte(s)
	for i := len(digits) - 1; n > 0 && i >= 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits)
}

func (f *fakeDocsRepo) GetByID(ctx context.Context, id, creatorID string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok || d.CreatorID != creatorID {
		return nil, common.ErrorNotFound
	}
	out := *d
	return &out, nil
}

func (f *fakeDocsRepo) ListByTrip(ctx context.Context, tripID, creatorID string) ([]*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]*models.Document, 0)
	for _, d := range f.docs {
		if d.TripID == tripID && d.CreatorID == creatorID {
			out := *d
			res = append(res, &out)
		}
	}
	return res, nil
}

func (f *fakeDocsRepo) UpdateDetails(ctx context.Context, id, creatorID, title string, cat category.Category) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok || d.CreatorID != creatorID {
		return nil, common.ErrorNotFound
	}
	d.Title = title
	d.Category = cat
	d.UpdatedAt = time.Now()
	out := *d
	return &out, nil
}

func (f *fakeDocsRepo) Delete(ctx context.Context, id, creatorID string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	d, ok := f.docs[id]
	if !ok || d.CreatorID != creatorID {
		return nil, common.ErrorNotFound
	}
	delete(f.docs, id)
	return d, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	d *fakeDocsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Documents(db dbx.DBTX) documentsrepo.Repository         { return m.d }

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string]int64

	presignErr error
	statErr    error
	deleteErr  error
	deleted    []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string]int64{}}
}

func (f *fakeBlobStore) put(key string, size int64) {
	f.mu.Lock()
	f.objects[key] = size
	f.mu.Unlock()
}

func (f *fakeBlobStore) PresignPut(ctx context.Context, key string) (string, time.Time, error) {
	if f.presignErr != nil {
		return "", time.Time{}, f.presignErr
	}
	return "https://blob/put/" + key, time.Now().Add(time.Minute), nil
}

func (f *fakeBlobStore) PresignGet(ctx context.Context, key string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://blob/get/" + key, nil
}

func (f *fakeBlobStore) Stat(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statErr != nil {
		return 0, f.statErr
	}
	n, ok := f.objects[key]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return n, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

type fakeMetrics struct {
	created, deleted, orphaned int
}

func (m *fakeMetrics) DocumentCreated() { m.created++ }
func (m *fakeMetrics) DocumentDeleted() { m.deleted++ }
func (m *fakeMetrics) OrphanedBlob()    { m.orphaned++ }
