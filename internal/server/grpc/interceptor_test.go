package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/shared"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func withAdminToken(token string) context.Context {
	md := metadata.New(map[string]string{common.AdminTokenHeaderName: token})
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestAdminInterceptor(t *testing.T) {
	admin := shared.FullMethod(shared.MethodForceLogout)
	public := shared.FullMethod(shared.MethodLogin)

	tests := []struct {
		name       string
		configured string
		ctx        context.Context
		method     string
		wantCode   codes.Code
	}{
		{"public method, guard on", "s3cret", context.Background(), public, codes.OK},
		{"admin method, guard off", "", context.Background(), admin, codes.OK},
		{"admin method, missing token", "s3cret", context.Background(), admin, codes.Unauthenticated},
		{"admin method, wrong token", "s3cret", withAdminToken("nope"), admin, codes.PermissionDenied},
		{"admin method, right token", "s3cret", withAdminToken("s3cret"), admin, codes.OK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewGRPCServer("", logging.Nop{}, nil, nil, tt.configured)
			info := &grpc.UnaryServerInfo{FullMethod: tt.method}

			called := false
			h := func(ctx context.Context, req any) (any, error) {
				called = true
				return "ok", nil
			}

			_, err := s.adminTokenInterceptor(tt.ctx, nil, info, h)
			if got := status.Code(err); got != tt.wantCode {
				t.Fatalf("code = %v, want %v", got, tt.wantCode)
			}
			if called != (tt.wantCode == codes.OK) {
				t.Fatalf("handler called = %v for code %v", called, tt.wantCode)
			}
		})
	}
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	s := NewGRPCServer("", logging.Nop{}, nil, nil, "")
	info := &grpc.UnaryServerInfo{FullMethod: shared.FullMethod(shared.MethodPing)}

	wantErr := status.Error(codes.Internal, "boom")
	resp, err := s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return "resp", wantErr
	})
	if resp != "resp" || err != wantErr {
		t.Fatalf("got (%v, %v)", resp, err)
	}
}
