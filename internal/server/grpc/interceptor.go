package grpc

import (
	"context"
	"errors"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/tripvault/internal/api"
	"github.com/dmitrijs2005/tripvault/internal/common"
	"github.com/dmitrijs2005/tripvault/internal/server/auth"
)

type ctxKey string

// UserIDKey holds the authenticated caller's id in the request context.
const UserIDKey ctxKey = "userID"

// Methods callable without an access token.
var publicMethods = map[string]bool{
	api.MethodPing:         true,
	api.MethodRegisterUser: true,
	api.MethodGetSalt:      true,
	api.MethodLogin:        true,
	api.MethodRefreshToken: true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		// the client refreshes on this exact message
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.RefreshTokenExpiredMessage)
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	ctx = context.WithValue(ctx, UserIDKey, userID)
	return handler(ctx, req)
}

// rateLimitInterceptor throttles per caller: the user id when the request
// is authenticated, the peer host otherwise.
func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if s.limiter == nil {
		return handler(ctx, req)
	}
	if !s.limiter.Allow(callerKey(ctx)) {
		if s.metrics != nil {
			s.metrics.RateLimited(info.FullMethod)
		}
		s.logger.Warn(ctx, "rate limited", "method", info.FullMethod)
		return nil, status.Error(codes.ResourceExhausted, common.ErrorRateLimited.Error())
	}
	return handler(ctx, req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if s.metrics != nil {
		s.metrics.ObserveRequest(info.FullMethod, status.Code(err).String(), time.Since(start))
	}
	return resp, err
}

func callerKey(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok && id != "" {
		return "user:" + id
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		addr := p.Addr.String()
		if host, _, err := net.SplitHostPort(addr); err == nil {
			return "peer:" + host
		}
		return "peer:" + addr
	}
	return "peer:unknown"
}

func userIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(UserIDKey).(string)
	if !ok || id == "" {
		return "", status.Error(codes.Internal, "missing user id")
	}
	return id, nil
}
