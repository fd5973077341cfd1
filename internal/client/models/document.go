// Package models defines client-side data models used by the tripvault CLI.
package models

import (
	"time"

	"github.com/dmitrijs2005/tripvault/internal/category"
)

// Document is the locally cached metadata of one encrypted file. The
// ciphertext itself is never cached and the passphrase is never stored.
type Document struct {
	ID                string
	TripID            string
	Title             string
	Category          category.Category
	FilePath          string
	FileName          string
	MimeType          string
	SizeBytes         int64
	EncryptionVersion int
	EncryptionIV      string
	EncryptionSalt    string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewDocument is the metadata registered after a ciphertext upload.
type NewDocument struct {
	TripID            string
	Title             string
	Category          category.Category
	FilePath          string
	FileName          string
	MimeType          string
	SizeBytes         int64
	EncryptionVersion int
	EncryptionIV      string
	EncryptionSalt    string
}

// UploadTicket is the server's answer to an upload request.
type UploadTicket struct {
	FilePath  string
	URL       string
	ExpiresAt time.Time
}
