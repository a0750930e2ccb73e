package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/shared"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type fields = map[string]*structpb.Value

type GRPCClient struct {
	endpointURL string
	adminToken  string

	conn   *grpc.ClientConn
	client grpc.ClientConnInterface

	mu           sync.RWMutex
	sessionToken string
}

func NewAuthClient(endpointURL, adminToken string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, adminToken: adminToken}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.metadataInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = conn
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// SessionToken returns the token of the current login, if any.
func (s *GRPCClient) SessionToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionToken
}

// SetSessionToken replaces the token sent with subsequent calls.
func (s *GRPCClient) SetSessionToken(token string) {
	s.mu.Lock()
	s.sessionToken = token
	s.mu.Unlock()
}

// metadataInterceptor attaches the session token and, for administrative
// methods, the admin token.
func (s *GRPCClient) metadataInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	var kv []string
	if token := s.SessionToken(); token != "" {
		kv = append(kv, common.SessionTokenHeaderName, token)
	}
	if s.adminToken != "" && shared.IsAdminMethod(method) {
		kv = append(kv, common.AdminTokenHeaderName, s.adminToken)
	}
	if len(kv) > 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, kv...)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

func (s *GRPCClient) call(ctx context.Context, method string, in fields) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := s.client.Invoke(ctx, shared.FullMethod(method), shared.Fields(in), out); err != nil {
		return nil, s.mapError(err)
	}
	return out, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	_, err := s.call(ctx, shared.MethodPing, nil)
	return err
}

func (s *GRPCClient) Signup(ctx context.Context, email string, password []byte, name string) (shared.User, error) {

	out, err := s.call(ctx, shared.MethodSignup, fields{
		"email":    structpb.NewStringValue(email),
		"password": structpb.NewStringValue(string(password)),
		"name":     structpb.NewStringValue(name),
	})
	if err != nil {
		return shared.User{}, err
	}
	return shared.UserFrom(out), nil
}

func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) (shared.User, error) {

	out, err := s.call(ctx, shared.MethodLogin, fields{
		"email":    structpb.NewStringValue(email),
		"password": structpb.NewStringValue(string(password)),
	})
	if err != nil {
		return shared.User{}, err
	}

	s.SetSessionToken(shared.String(out, "token"))
	return shared.UserField(out, "user"), nil
}

func (s *GRPCClient) LoginWithExternalToken(ctx context.Context, token string) (shared.User, error) {

	out, err := s.call(ctx, shared.MethodLoginWithExternalToken, fields{
		"token": structpb.NewStringValue(token),
	})
	if err != nil {
		return shared.User{}, err
	}

	s.SetSessionToken(shared.String(out, "token"))
	return shared.UserField(out, "user"), nil
}

// Logout ends the current session on the server and forgets its token.
func (s *GRPCClient) Logout(ctx context.Context) error {

	token := s.SessionToken()
	if token == "" {
		return ErrNotLoggedIn
	}

	out, err := s.call(ctx, shared.MethodLogout, fields{"token": structpb.NewStringValue(token)})
	if err != nil {
		return err
	}
	if !shared.Bool(out, "ok") {
		return fmt.Errorf("logout not acknowledged")
	}

	s.SetSessionToken("")
	return nil
}

func (s *GRPCClient) Me(ctx context.Context) (shared.User, error) {
	if s.SessionToken() == "" {
		return shared.User{}, ErrNotLoggedIn
	}

	out, err := s.call(ctx, shared.MethodMe, nil)
	if err != nil {
		return shared.User{}, err
	}
	return shared.UserFrom(out), nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]shared.User, error) {
	out, err := s.call(ctx, shared.MethodListUsers, nil)
	if err != nil {
		return nil, err
	}
	return shared.Users(out, "users"), nil
}

func (s *GRPCClient) ListSessions(ctx context.Context, userID string) ([]string, error) {
	out, err := s.call(ctx, shared.MethodListSessions, fields{"user_id": structpb.NewStringValue(userID)})
	if err != nil {
		return nil, err
	}
	return shared.Strings(out, "tokens"), nil
}

func (s *GRPCClient) ForceLogout(ctx context.Context, userID string) (int64, error) {
	out, err := s.call(ctx, shared.MethodForceLogout, fields{"user_id": structpb.NewStringValue(userID)})
	if err != nil {
		return 0, err
	}
	return shared.Int(out, "count"), nil
}

func (s *GRPCClient) ListAllSessions(ctx context.Context) ([]shared.Session, error) {
	out, err := s.call(ctx, shared.MethodListAllSessions, nil)
	if err != nil {
		return nil, err
	}
	return shared.Sessions(out, "sessions"), nil
}

func (s *GRPCClient) ClearUserSessions(ctx context.Context, userID string) (int64, error) {
	out, err := s.call(ctx, shared.MethodClearUserSessions, fields{"user_id": structpb.NewStringValue(userID)})
	if err != nil {
		return 0, err
	}
	return shared.Int(out, "cleared"), nil
}

func (s *GRPCClient) ClearAllSessions(ctx context.Context) (int64, error) {
	out, err := s.call(ctx, shared.MethodClearAllSessions, nil)
	if err != nil {
		return 0, err
	}
	return shared.Int(out, "cleared"), nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.AlreadyExists:
		return common.ErrDuplicateEmail
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unauthenticated:
		switch st.Message() {
		case common.ErrInvalidCredentials.Error():
			return common.ErrInvalidCredentials
		case common.ErrInvalidExternalToken.Error():
			return common.ErrInvalidExternalToken
		}
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
