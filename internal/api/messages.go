package api

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status string
}

type RegisterUserRequest struct {
	Username string
	Salt     []byte
	Verifier []byte
}

type RegisterUserResponse struct {
	ID string
}

type GetSaltRequest struct {
	Username string
}

type GetSaltResponse struct {
	Salt []byte
}

type LoginRequest struct {
	Username          string
	VerifierCandidate []byte
}

type LoginResponse struct {
	AccessToken  string
	RefreshToken string
}

type RefreshTokenRequest struct {
	RefreshToken string
}

type RefreshTokenResponse struct {
	AccessToken  string
	RefreshToken string
}

// Document is the metadata record of one encrypted file. It never carries
// the passphrase or any plaintext.
type Document struct {
	ID                string
	TripID            string
	CreatorID         string
	Title             string
	Category          string
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

// RequestUploadRequest asks for a storage key and a presigned PUT URL.
type RequestUploadRequest struct {
	TripID string
}

type RequestUploadResponse struct {
	FilePath  string
	UploadURL string
	ExpiresAt time.Time
}

// CreateDocumentRequest registers an already uploaded ciphertext.
type CreateDocumentRequest struct {
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

type CreateDocumentResponse struct {
	Document *Document
}

type ListDocumentsRequest struct {
	TripID string
}

type ListDocumentsResponse struct {
	Documents []*Document
}

type GetDocumentRequest struct {
	ID string
}

type GetDocumentResponse struct {
	Document    *Document
	DownloadURL string
}

// UpdateDocumentRequest changes descriptive fields only. Crypto parameters
// and the storage key are immutable.
type UpdateDocumentRequest struct {
	ID       string
	Title    string
	Category string
}

type UpdateDocumentResponse struct {
	Document *Document
}

type DeleteDocumentRequest struct {
	ID string
}

type DeleteDocumentResponse struct{}
