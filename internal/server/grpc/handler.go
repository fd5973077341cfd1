package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/tripvault/internal/api"
	"github.com/dmitrijs2005/tripvault/internal/common"
	"github.com/dmitrijs2005/tripvault/internal/server/models"
	"github.com/dmitrijs2005/tripvault/internal/server/services"
)

// toStatus maps service errors to gRPC statuses. Unknown errors are logged
// and reported as Internal without details.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorIncorrectMetadata):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, common.ErrorNotFound.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, common.ErrAlreadyExists.Error())
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	case errors.Is(err, common.ErrorBlobMissing):
		return status.Error(codes.FailedPrecondition, common.ErrorBlobMissing.Error())
	case errors.Is(err, common.ErrorRateLimited):
		return status.Error(codes.ResourceExhausted, common.ErrorRateLimited.Error())
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}

func documentToAPI(d *models.Document) *api.Document {
	return &api.Document{
		ID:                d.ID,
		TripID:            d.TripID,
		CreatorID:         d.CreatorID,
		Title:             d.Title,
		Category:          d.Category.String(),
		FilePath:          d.FilePath,
		FileName:          d.FileName,
		MimeType:          d.MimeType,
		SizeBytes:         d.SizeBytes,
		EncryptionVersion: d.EncryptionVersion,
		EncryptionIV:      d.EncryptionIV,
		EncryptionSalt:    d.EncryptionSalt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *api.RegisterUserRequest) (*api.RegisterUserResponse, error) {

	s.logger.Info(ctx, "Registration request")

	result, err := s.users.Register(ctx, req.Username, req.Salt, req.Verifier)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "username", result.UserName)
	return &api.RegisterUserResponse{ID: result.ID}, nil
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *api.GetSaltRequest) (*api.GetSaltResponse, error) {
	result, err := s.users.GetSalt(ctx, req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.GetSaltResponse{Salt: result}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	tokens, err := s.users.Login(ctx, req.Username, req.VerifierCandidate)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.RefreshTokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RequestUpload(ctx context.Context, req *api.RequestUploadRequest) (*api.RequestUploadResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	ticket, err := s.documents.RequestUpload(ctx, userID, req.TripID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.RequestUploadResponse{FilePath: ticket.FilePath, UploadURL: ticket.URL, ExpiresAt: ticket.ExpiresAt}, nil
}

func (s *GRPCServer) CreateDocument(ctx context.Context, req *api.CreateDocumentRequest) (*api.CreateDocumentResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.documents.Create(ctx, userID, services.NewDocument{
		TripID:            req.TripID,
		Title:             req.Title,
		Category:          req.Category,
		FilePath:          req.FilePath,
		FileName:          req.FileName,
		MimeType:          req.MimeType,
		SizeBytes:         req.SizeBytes,
		EncryptionVersion: req.EncryptionVersion,
		EncryptionIV:      req.EncryptionIV,
		EncryptionSalt:    req.EncryptionSalt,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.CreateDocumentResponse{Document: documentToAPI(doc)}, nil
}

func (s *GRPCServer) ListDocuments(ctx context.Context, req *api.ListDocumentsRequest) (*api.ListDocumentsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.List(ctx, userID, req.TripID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := make([]*api.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentToAPI(d))
	}
	return &api.ListDocumentsResponse{Documents: out}, nil
}

func (s *GRPCServer) GetDocument(ctx context.Context, req *api.GetDocumentRequest) (*api.GetDocumentResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	doc, url, err := s.documents.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.GetDocumentResponse{Document: documentToAPI(doc), DownloadURL: url}, nil
}

func (s *GRPCServer) UpdateDocument(ctx context.Context, req *api.UpdateDocumentRequest) (*api.UpdateDocumentResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.documents.UpdateDetails(ctx, userID, req.ID, req.Title, req.Category)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.UpdateDocumentResponse{Document: documentToAPI(doc)}, nil
}

func (s *GRPCServer) DeleteDocument(ctx context.Context, req *api.DeleteDocumentRequest) (*api.DeleteDocumentResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Delete(ctx, userID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.DeleteDocumentResponse{}, nil
}
