// Package metadata stores small key/value settings of the local client:
// the offline login record and the current trip.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyUsername = "username"
	KeySalt     = "salt"
	KeyVerifier = "verifier"
	KeyTrip     = "trip_id"
)

// Repository is a key/value store. Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// GetMany returns the stored keys among keys; missing ones are absent
	// from the result.
	GetMany(ctx context.Context, keys ...string) (map[string][]byte, error)
	// SetMany upserts every pair. Run it inside a transaction when the
	// values must land together.
	SetMany(ctx context.Context, values map[string][]byte) error
	Clear(ctx context.Context) error
}
