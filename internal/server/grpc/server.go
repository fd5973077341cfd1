package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/tripvault/internal/api"
	"github.com/dmitrijs2005/tripvault/internal/logging"
	"github.com/dmitrijs2005/tripvault/internal/ratelimit"
	"github.com/dmitrijs2005/tripvault/internal/server/models"
	"github.com/dmitrijs2005/tripvault/internal/server/services"
)

type userSvc interface {
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Register(ctx context.Context, username string, salt, verifier []byte) (*models.User, error)
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifierCandidate []byte) (*services.TokenPair, error)
}

type documentSvc interface {
	RequestUpload(ctx context.Context, userID, tripID string) (*models.UploadTicket, error)
	Create(ctx context.Context, userID string, in services.NewDocument) (*models.Document, error)
	List(ctx context.Context, userID, tripID string) ([]*models.Document, error)
	Get(ctx context.Context, userID, id string) (*models.Document, string, error)
	UpdateDetails(ctx context.Context, userID, id, title, cat string) (*models.Document, error)
	Delete(ctx context.Context, userID, id string) error
}

type requestMetrics interface {
	ObserveRequest(method, code string, d time.Duration)
	RateLimited(method string)
}

type GRPCServer struct {
	api.UnimplementedVaultServiceServer
	address   string
	users     userSvc
	documents documentSvc
	limiter   *ratelimit.Limiter
	metrics   requestMetrics
	logger    logging.Logger
	jwtSecret []byte
}

// NewGRPCServer builds the vault API server. limiter may be nil to disable
// rate limiting.
func NewGRPCServer(a string, l logging.Logger, us userSvc, ds documentSvc,
	limiter *ratelimit.Limiter, m requestMetrics, secretKey string) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		documents: ds,
		limiter:   limiter,
		metrics:   m,
		jwtSecret: []byte(secretKey),
	}, nil
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.address, err)
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis. Cancelling ctx stops the server
// gracefully, letting in-flight calls finish.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.metricsInterceptor,
		s.accessTokenInterceptor,
		s.rateLimitInterceptor,
	))
	api.RegisterVaultServiceServer(srv, s)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
