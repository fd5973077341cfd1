// Package common holds the sentinel errors and header names that client
// and server share. Match errors with errors.Is.
package common

import "errors"

// Storage.
var (
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Services.
var (
	ErrorInternal          = errors.New("internal error")
	ErrorUnauthorized      = errors.New("unauthorized")
	ErrorRateLimited       = errors.New("rate limit exceeded")
	ErrorIncorrectMetadata = errors.New("incorrect metadata")
	ErrorBlobMissing       = errors.New("blob not uploaded")
)

// Tokens.
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
