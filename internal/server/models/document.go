package models

import (
	"time"

	"github.com/dmitrijs2005/tripvault/internal/category"
)

// Document is the metadata record of one encrypted file attached to a trip.
//
// The ciphertext lives in object storage under FilePath. EncryptionIV and
// EncryptionSalt are the transport-encoded parameters the client needs to
// decrypt it; they are public. The passphrase is never stored anywhere.
type Document struct {
	ID                string
	TripID            string
	CreatorID         string
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

// UploadTicket is handed to a client that is about to upload a ciphertext.
type UploadTicket struct {
	FilePath  string
	URL       string
	ExpiresAt time.Time
}
