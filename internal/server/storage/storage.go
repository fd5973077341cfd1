// Package storage holds ciphertext blobs in an S3-compatible object store.
// Clients move the bytes themselves through presigned URLs; the server only
// issues URLs, checks that an upload landed and removes blobs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Stat when no object exists under the key.
var ErrNotFound = errors.New("blob not found")

// BlobStore is the server's view of object storage. Implementations never
// see plaintext or crypto parameters.
type BlobStore interface {
	// PresignPut returns a URL the client can PUT a ciphertext to.
	PresignPut(ctx context.Context, key string) (url string, expiresAt time.Time, err error)
	// PresignGet returns a URL the client can GET a ciphertext from.
	PresignGet(ctx context.Context, key string) (string, error)
	// Stat returns the stored object's size, or ErrNotFound.
	Stat(ctx context.Context, key string) (int64, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

const keyPrefix = "users/"

// NewKey returns a fresh storage key under userID's prefix.
func NewKey(userID string, now time.Time) string {
	return fmt.Sprintf("%s%s/%d/%02d/%02d/%s", keyPrefix, userID, now.Year(), now.Month(), now.Day(), uuid.New())
}

// OwnedBy reports whether key was issued to userID by NewKey.
func OwnedBy(key, userID string) bool {
	if userID == "" || strings.Contains(key, "..") {
		return false
	}
	return strings.HasPrefix(key, keyPrefix+userID+"/")
}
