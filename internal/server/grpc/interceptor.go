package grpc

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/shared"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func metadataValue(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "grpc request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

// adminTokenInterceptor guards administrative methods when an admin token
// is configured.
func (s *GRPCServer) adminTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if len(s.adminToken) > 0 && shared.IsAdminMethod(info.FullMethod) {

		token := metadataValue(ctx, common.AdminTokenHeaderName)
		if len(token) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing admin token")
		}

		if subtle.ConstantTimeCompare([]byte(token), s.adminToken) != 1 {
			return nil, status.Error(codes.PermissionDenied, "invalid admin token")
		}
	}

	return handler(ctx, req)
}
