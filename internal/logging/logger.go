// Package logging is the structured logger used by both binaries. Call
// sites depend on Logger; New builds the slog-backed implementation.
package logging

import "context"

// Logger takes a message plus alternating key/value args:
//
//	log.Info(ctx, "document created", "id", id, "trip_id", tripID)
//
// Attributes whose key looks secret are masked by the slog implementation.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}
