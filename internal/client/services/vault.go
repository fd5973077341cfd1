package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/dmitrijs2005/tripvault/internal/category"
	"github.com/dmitrijs2005/tripvault/internal/client/client"
	"github.com/dmitrijs2005/tripvault/internal/client/models"
	"github.com/dmitrijs2005/tripvault/internal/client/repositories/documents"
	"github.com/dmitrijs2005/tripvault/internal/common"
	"github.com/dmitrijs2005/tripvault/internal/dbx"
	"github.com/dmitrijs2005/tripvault/internal/filex"
	"github.com/dmitrijs2005/tripvault/internal/netx"
	"github.com/dmitrijs2005/tripvault/internal/vaultcrypto"
)

// MaxDocumentSize bounds the plaintext accepted for upload.
const MaxDocumentSize int64 = 20 << 20

var (
	ErrTooLarge     = errors.New("document too large")
	ErrMissingTitle = errors.New("title is required")
	ErrMissingTrip  = errors.New("no trip selected")
	// ErrNeedsServer means the record is cached but its ciphertext can only
	// be fetched from the server.
	ErrNeedsServer = errors.New("document content is only available online")
)

// transfer seams
var (
	uploadBlob   = netx.UploadToS3PresignedURL
	downloadBlob = netx.DownloadFromS3PresignedURL
)

// UploadRequest describes one plaintext file to be encrypted and stored.
type UploadRequest struct {
	TripID   string
	Title    string
	Category category.Category
	FileName string
	MimeType string
	Data     []byte
}

// Opened is a decrypted document. Data is plaintext and belongs to the caller.
type Opened struct {
	Document *models.Document
	Data     []byte
	MimeType string
}

// VaultService encrypts documents locally and keeps their metadata on the
// server. Passphrases are used for a single call and never retained.
type VaultService interface {
	Upload(ctx context.Context, req UploadRequest, passphrase []byte) (*models.Document, error)
	Open(ctx context.Context, id string, passphrase []byte) (*Opened, error)
	Save(dir string, o *Opened) (string, error)
	// List returns the documents of a trip. offline is true when the server
	// was unreachable and the local cache was used instead.
	List(ctx context.Context, tripID string) (docs []*models.Document, offline bool, err error)
	Rename(ctx context.Context, id, title string, cat category.Category) (*models.Document, error)
	Delete(ctx context.Context, id string) error
}

type vaultService struct {
	client client.Client
	db     *sql.DB
}

func NewVaultService(c client.Client, db *sql.DB) VaultService {
	return &vaultService{client: c, db: db}
}

func (s *vaultService) cache(db dbx.DBTX) documents.Repository {
	return documents.NewSQLiteRepository(db)
}

func (s *vaultService) Upload(ctx context.Context, req UploadRequest, passphrase []byte) (*models.Document, error) {
	if len(passphrase) == 0 {
		return nil, vaultcrypto.ErrMissingPassphrase
	}
	if strings.TrimSpace(req.TripID) == "" {
		return nil, ErrMissingTrip
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrMissingTitle
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: %d", category.ErrUnknownCategory, req.Category)
	}
	if int64(len(req.Data)) > MaxDocumentSize {
		return nil, ErrTooLarge
	}

	// the worker may outlive this call, so it gets its own copies
	pp := append([]byte(nil), passphrase...)
	plaintext := append([]byte(nil), req.Data...)
	sealed, err := runCrypto(ctx, func() (*vaultcrypto.Sealed, error) {
		defer common.WipeByteArray(pp, plaintext)
		return vaultcrypto.Encrypt(plaintext, pp)
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	ticket, err := s.client.RequestUpload(ctx, req.TripID)
	if err != nil {
		return nil, fmt.Errorf("request upload: %w", err)
	}

	if err := uploadBlob(ctx, ticket.URL, sealed.Ciphertext); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	doc, err := s.client.CreateDocument(ctx, models.NewDocument{
		TripID:            req.TripID,
		Title:             strings.TrimSpace(req.Title),
		Category:          req.Category,
		FilePath:          ticket.FilePath,
		FileName:          req.FileName,
		MimeType:          req.MimeType,
		SizeBytes:         int64(len(req.Data)),
		EncryptionVersion: vaultcrypto.Version,
		EncryptionIV:      sealed.IV,
		EncryptionSalt:    sealed.Salt,
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	if err := s.cache(s.db).Upsert(ctx, doc); err != nil {
		log.Printf("cache document %s: %v", doc.ID, err)
	}
	return doc, nil
}

func (s *vaultService) Open(ctx context.Context, id string, passphrase []byte) (*Opened, error) {
	if len(passphrase) == 0 {
		return nil, vaultcrypto.ErrMissingPassphrase
	}

	doc, url, err := s.client.GetDocument(ctx, id)
	if errors.Is(err, client.ErrUnavailable) {
		if cached, cerr := s.cache(s.db).Get(ctx, id); cerr == nil {
			return nil, fmt.Errorf("%w: %s", ErrNeedsServer, cached.Title)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	ciphertext, err := downloadBlob(ctx, url, doc.SizeBytes+vaultcrypto.TagSize)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}

	pp := append([]byte(nil), passphrase...)
	blob, err := runCrypto(ctx, func() (*vaultcrypto.Blob, error) {
		defer common.WipeByteArray(pp)
		return vaultcrypto.Decrypt(ciphertext, pp, doc.EncryptionIV, doc.EncryptionSalt, doc.MimeType)
	}, func(b *vaultcrypto.Blob) {
		if b != nil {
			common.WipeByteArray(b.Data)
		}
	})
	if err != nil {
		return nil, err
	}
	return &Opened{Document: doc, Data: blob.Data, MimeType: blob.MimeType}, nil
}

// Save writes the plaintext into dir under the document's file name and
// wipes the in-memory copy afterwards.
func (s *vaultService) Save(dir string, o *Opened) (string, error) {
	defer common.WipeByteArray(o.Data)

	name := o.Document.FileName
	if name == "" {
		name = o.Document.Title
	}
	return filex.WriteNew(dir, name, o.Data)
}

func (s *vaultService) List(ctx context.Context, tripID string) ([]*models.Document, bool, error) {
	if strings.TrimSpace(tripID) == "" {
		return nil, false, ErrMissingTrip
	}

	docs, err := s.client.ListDocuments(ctx, tripID)
	if errors.Is(err, client.ErrUnavailable) {
		cached, cerr := s.cache(s.db).ListByTrip(ctx, tripID)
		if cerr != nil {
			return nil, true, fmt.Errorf("read cache: %w", cerr)
		}
		return cached, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.cache(tx).ReplaceTrip(ctx, tripID, docs)
	})
	if err != nil {
		log.Printf("refresh cache for trip %s: %v", tripID, err)
	}
	return docs, false, nil
}

func (s *vaultService) Rename(ctx context.Context, id, title string, cat category.Category) (*models.Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrMissingTitle
	}
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: %d", category.ErrUnknownCategory, cat)
	}
	doc, err := s.client.UpdateDocument(ctx, id, strings.TrimSpace(title), cat)
	if err != nil {
		return nil, err
	}
	if err := s.cache(s.db).Upsert(ctx, doc); err != nil {
		log.Printf("cache document %s: %v", doc.ID, err)
	}
	return doc, nil
}

func (s *vaultService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteDocument(ctx, id); err != nil {
		return err
	}
	if err := s.cache(s.db).Delete(ctx, id); err != nil {
		log.Printf("uncache document %s: %v", id, err)
	}
	return nil
}

// runCrypto runs fn off the caller's goroutine so a cancelled context returns
// at once. A result that arrives after cancellation is passed to discard.
func runCrypto[T any](ctx context.Context, fn func() (T, error), discard func(T)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		if discard != nil {
			go func() {
				r := <-ch
				discard(r.v)
			}()
		}
		var zero T
		return zero, ctx.Err()
	}
}
