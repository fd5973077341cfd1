package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/tripvault/internal/category"
	"github.com/dmitrijs2005/tripvault/internal/common"
	"github.com/dmitrijs2005/tripvault/internal/logging"
	"github.com/dmitrijs2005/tripvault/internal/server/models"
	"github.com/dmitrijs2005/tripvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tripvault/internal/server/storage"
	"github.com/dmitrijs2005/tripvault/internal/vaultcrypto"
)

// DocumentMetrics receives document lifecycle events.
type DocumentMetrics interface {
	DocumentCreated()
	DocumentDeleted()
	OrphanedBlob()
}

// NewDocument is what a client registers after uploading a ciphertext.
// Size, name and MIME type describe the plaintext.
type NewDocument struct {
	TripID            string
	Title             string
	Category          string
	FilePath          string
	FileName          string
	MimeType          string
	SizeBytes         int64
	EncryptionVersion int
	EncryptionIV      string
	EncryptionSalt    string
}

// DocumentService manages vault document records and the blobs they point
// to. Every operation is scoped to the calling user.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	metrics     DocumentMetrics
	logger      logging.Logger
	now         func() time.Time
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore,
	metrics DocumentMetrics, logger logging.Logger) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorIncorrectMetadata, fmt.Sprintf(format, args...))
}

// RequestUpload reserves a fresh storage key for userID and returns a
// presigned URL the ciphertext can be PUT to.
func (s *DocumentService) RequestUpload(ctx context.Context, userID, tripID string) (*models.UploadTicket, error) {
	if strings.TrimSpace(tripID) == "" {
		return nil, invalid("trip id is required")
	}
	key := storage.NewKey(userID, s.now().UTC())
	url, expiresAt, err := s.blobs.PresignPut(ctx, key)
	if err != nil {
		s.logger.Error(ctx, "presign put failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return &models.UploadTicket{FilePath: key, URL: url, ExpiresAt: expiresAt}, nil
}

// Create validates the metadata of an uploaded ciphertext and stores the
// record. The blob must already be in storage and its size must match the
// plaintext size plus the cipher's tag.
func (s *DocumentService) Create(ctx context.Context, userID string, in NewDocument) (*models.Document, error) {
	doc, err := s.validate(userID, in)
	if err != nil {
		return nil, err
	}

	size, err := s.blobs.Stat(ctx, doc.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, common.ErrorBlobMissing
		}
		s.logger.Error(ctx, "blob stat failed", "file_path", doc.FilePath, "error", err)
		return nil, common.ErrorInternal
	}
	if want := doc.SizeBytes + vaultcrypto.TagSize; size != want {
		return nil, invalid("stored blob is %d bytes, expected %d", size, want)
	}

	created, err := s.repomanager.Documents(s.db).Create(ctx, doc)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating document: %w", err)
	}

	s.metrics.DocumentCreated()
	s.logger.Info(ctx, "document created", "id", created.ID, "trip_id", created.TripID, "category", created.Category.String())
	return created, nil
}

func (s *DocumentService) validate(userID string, in NewDocument) (*models.Document, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	tripID := strings.TrimSpace(in.TripID)
	if tripID == "" {
		return nil, invalid("trip id is required")
	}
	cat, err := parseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	if in.SizeBytes < 0 {
		return nil, invalid("negative size")
	}
	if in.EncryptionVersion != vaultcrypto.Version {
		return nil, invalid("unsupported encryption version %d", in.EncryptionVersion)
	}
	iv, err := vaultcrypto.DecodeIV(in.EncryptionIV)
	if err != nil {
		return nil, invalid("%v", err)
	}
	salt, err := vaultcrypto.DecodeSalt(in.EncryptionSalt)
	if err != nil {
		return nil, invalid("%v", err)
	}
	if !storage.OwnedBy(in.FilePath, userID) {
		return nil, invalid("file path was not issued to this user")
	}

	return &models.Document{
		TripID:            tripID,
		CreatorID:         userID,
		Title:             title,
		Category:          cat,
		FilePath:          in.FilePath,
		FileName:          in.FileName,
		MimeType:          in.MimeType,
		SizeBytes:         in.SizeBytes,
		EncryptionVersion: in.EncryptionVersion,
		EncryptionIV:      vaultcrypto.EncodeText(iv),
		EncryptionSalt:    vaultcrypto.EncodeText(salt),
	}, nil
}

// parseCategory treats a blank category as Other.
func parseCategory(s string) (category.Category, error) {
	if strings.TrimSpace(s) == "" {
		return category.Other, nil
	}
	c, err := category.Parse(s)
	if err != nil {
		return category.Other, invalid("%v", err)
	}
	return c, nil
}

// List returns the caller's documents attached to tripID, newest first.
func (s *DocumentService) List(ctx context.Context, userID, tripID string) ([]*models.Document, error) {
	if strings.TrimSpace(tripID) == "" {
		return nil, invalid("trip id is required")
	}
	docs, err := s.repomanager.Documents(s.db).ListByTrip(ctx, tripID, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	return docs, nil
}

// Get returns the record and a presigned URL for downloading its ciphertext.
func (s *DocumentService) Get(ctx context.Context, userID, id string) (*models.Document, string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, "", common.ErrorNotFound
	}
	doc, err := s.repomanager.Documents(s.db).GetByID(ctx, id, userID)
	if err != nil {
		return nil, "", err
	}
	url, err := s.blobs.PresignGet(ctx, doc.FilePath)
	if err != nil {
		s.logger.Error(ctx, "presign get failed", "id", id, "error", err)
		return nil, "", common.ErrorInternal
	}
	return doc, url, nil
}

// UpdateDetails changes title and category. Crypto parameters and the
// storage pointer are immutable once a record exists.
func (s *DocumentService) UpdateDetails(ctx context.Context, userID, id, title, cat string) (*models.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}
	c, err := parseCategory(cat)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Documents(s.db).UpdateDetails(ctx, id, userID, title, c)
}

// Delete removes the record, then the blob. A blob that cannot be removed is
// logged and counted as orphaned; the call still succeeds.
func (s *DocumentService) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	doc, err := s.repomanager.Documents(s.db).Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	s.metrics.DocumentDeleted()

	if err := s.blobs.Delete(ctx, doc.FilePath); err != nil {
		s.metrics.OrphanedBlob()
		s.logger.Warn(ctx, "blob delete failed, blob orphaned", "id", doc.ID, "file_path", doc.FilePath, "error", err)
	}
	return nil
}
