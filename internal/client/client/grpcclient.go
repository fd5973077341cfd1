package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/tripvault/internal/api"
	"github.com/dmitrijs2005/tripvault/internal/category"
	"github.com/dmitrijs2005/tripvault/internal/client/models"
	"github.com/dmitrijs2005/tripvault/internal/common"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.VaultServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	s.accessToken, s.refreshToken = access, refresh
	s.mu.Unlock()
}

// accessTokenInterceptor attaches the access token and, when the server
// reports it expired, redeems the refresh token once and retries.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	access, refresh := s.tokens()
	if method == api.MethodRefreshToken || access == "" {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.RefreshTokenExpiredMessage {
		return err
	}
	if refresh == "" {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return rerr
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewVaultClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewVaultServiceClient(conn)
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, userName string, salt []byte, key []byte) error {

	req := &api.RegisterUserRequest{Username: userName, Salt: salt, Verifier: key}

	if _, err := s.client.RegisterUser(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) GetSalt(ctx context.Context, userName string) ([]byte, error) {

	ctx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()

	resp, err := s.client.GetSalt(ctx, &api.GetSaltRequest{Username: userName})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Salt, nil
}

func (s *GRPCClient) Login(ctx context.Context, userName string, key []byte) error {

	req := &api.LoginRequest{Username: userName, VerifierCandidate: key}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return s.mapError(err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// Logout forgets both tokens.
func (s *GRPCClient) Logout() {
	s.setTokens("", "")
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) RequestUpload(ctx context.Context, tripID string) (*models.UploadTicket, error) {
	resp, err := s.client.RequestUpload(ctx, &api.RequestUploadRequest{TripID: tripID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.UploadTicket{FilePath: resp.FilePath, URL: resp.UploadURL, ExpiresAt: resp.ExpiresAt}, nil
}

func (s *GRPCClient) CreateDocument(ctx context.Context, doc models.NewDocument) (*models.Document, error) {
	req := &api.CreateDocumentRequest{
		TripID:            doc.TripID,
		Title:             doc.Title,
		Category:          doc.Category.String(),
		FilePath:          doc.FilePath,
		FileName:          doc.FileName,
		MimeType:          doc.MimeType,
		SizeBytes:         doc.SizeBytes,
		EncryptionVersion: doc.EncryptionVersion,
		EncryptionIV:      doc.EncryptionIV,
		EncryptionSalt:    doc.EncryptionSalt,
	}
	resp, err := s.client.CreateDocument(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return documentFromAPI(resp.Document), nil
}

func (s *GRPCClient) ListDocuments(ctx context.Context, tripID string) ([]*models.Document, error) {
	resp, err := s.client.ListDocuments(ctx, &api.ListDocumentsRequest{TripID: tripID})
	if err != nil {
		return nil, s.mapError(err)
	}
	docs := make([]*models.Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		docs = append(docs, documentFromAPI(d))
	}
	return docs, nil
}

func (s *GRPCClient) GetDocument(ctx context.Context, id string) (*models.Document, string, error) {
	resp, err := s.client.GetDocument(ctx, &api.GetDocumentRequest{ID: id})
	if err != nil {
		return nil, "", s.mapError(err)
	}
	return documentFromAPI(resp.Document), resp.DownloadURL, nil
}

func (s *GRPCClient) UpdateDocument(ctx context.Context, id, title string, cat category.Category) (*models.Document, error) {
	resp, err := s.client.UpdateDocument(ctx, &api.UpdateDocumentRequest{ID: id, Title: title, Category: cat.String()})
	if err != nil {
		return nil, s.mapError(err)
	}
	return documentFromAPI(resp.Document), nil
}

func (s *GRPCClient) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.client.DeleteDocument(ctx, &api.DeleteDocumentRequest{ID: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func documentFromAPI(d *api.Document) *models.Document {
	if d == nil {
		return nil
	}
	return &models.Document{
		ID:                d.ID,
		TripID:            d.TripID,
		Title:             d.Title,
		Category:          category.FromString(d.Category),
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

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.ResourceExhausted:
		return ErrRateLimited
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
