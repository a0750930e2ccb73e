package client

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

/*************
 * Fake connection
 *************/

type fakeConn struct {
	lastMethod string
	lastIn     *structpb.Struct

	out *structpb.Struct
	err error
}

func (f *fakeConn) Invoke(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error {
	f.lastMethod = method
	f.lastIn = args.(*structpb.Struct)
	if f.err != nil {
		return f.err
	}
	if f.out != nil {
		proto.Merge(reply.(*structpb.Struct), f.out)
	}
	return nil
}

func (f *fakeConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("not implemented")
}

func loginOut(token string) *structpb.Struct {
	return shared.Fields(fields{
		"token": structpb.NewStringValue(token),
		"user":  shared.User{ID: "user_1", Email: "a@x.com", Name: "a"}.Value(),
	})
}

/*************
 * interceptor tests
 *************/

func TestMetadataInterceptor(t *testing.T) {
	c := &GRPCClient{adminToken: "adm"}
	c.SetSessionToken("sess")

	var got metadata.MD
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		got, _ = metadata.FromOutgoingContext(ctx)
		return nil
	}

	require.NoError(t, c.metadataInterceptor(context.Background(), shared.FullMethod(shared.MethodMe), nil, nil, nil, invoker))
	assert.Equal(t, []string{"sess"}, got.Get(common.SessionTokenHeaderName))
	assert.Empty(t, got.Get(common.AdminTokenHeaderName))

	require.NoError(t, c.metadataInterceptor(context.Background(), shared.FullMethod(shared.MethodForceLogout), nil, nil, nil, invoker))
	assert.Equal(t, []string{"adm"}, got.Get(common.AdminTokenHeaderName))
}

func TestMetadataInterceptor_NothingToSend(t *testing.T) {
	c := &GRPCClient{}

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		_, ok := metadata.FromOutgoingContext(ctx)
		assert.False(t, ok)
		return nil
	}
	require.NoError(t, c.metadataInterceptor(context.Background(), "/x/y", nil, nil, nil, invoker))
}

/*************
 * call tests
 *************/

func TestLogin_StoresTokenAndLogoutClearsIt(t *testing.T) {
	f := &fakeConn{out: loginOut("tok-1")}
	c := &GRPCClient{client: f}

	user, err := c.Login(context.Background(), "a@x.com", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, shared.FullMethod(shared.MethodLogin), f.lastMethod)
	assert.Equal(t, "a@x.com", shared.String(f.lastIn, "email"))
	assert.Equal(t, "pw", shared.String(f.lastIn, "password"))
	assert.Equal(t, "user_1", user.ID)
	assert.Equal(t, "tok-1", c.SessionToken())

	f.out = nil
	assert.Error(t, c.Logout(context.Background()), "reply without ok")
	assert.Equal(t, "tok-1", c.SessionToken())

	f.out = shared.Fields(fields{"ok": structpb.NewBoolValue(true)})
	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, "tok-1", shared.String(f.lastIn, "token"))
	assert.Empty(t, c.SessionToken())

	assert.ErrorIs(t, c.Logout(context.Background()), ErrNotLoggedIn)
	_, err = c.Me(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLoginWithExternalToken(t *testing.T) {
	f := &fakeConn{out: loginOut("tok-2")}
	c := &GRPCClient{client: f}

	user, err := c.LoginWithExternalToken(context.Background(), "jwt")
	require.NoError(t, err)
	assert.Equal(t, "jwt", shared.String(f.lastIn, "token"))
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "tok-2", c.SessionToken())
}

func TestAdminCalls(t *testing.T) {
	f := &fakeConn{}
	c := &GRPCClient{client: f}
	ctx := context.Background()

	f.out = shared.Fields(fields{"count": structpb.NewNumberValue(1)})
	n, err := c.ForceLogout(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, "user_1", shared.String(f.lastIn, "user_id"))

	f.out = shared.Fields(fields{"tokens": shared.StringList([]string{"a", "b"})})
	tokens, err := c.ListSessions(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tokens)

	f.out = shared.Fields(fields{"ok": structpb.NewBoolValue(true), "cleared": structpb.NewNumberValue(4)})
	n, err = c.ClearAllSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, shared.FullMethod(shared.MethodClearAllSessions), f.lastMethod)
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		in   error
		want error
	}{
		{status.Error(codes.AlreadyExists, "email already exists"), common.ErrDuplicateEmail},
		{status.Error(codes.InvalidArgument, "missing required field"), ErrInvalidArgument},
		{status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error()), common.ErrInvalidCredentials},
		{status.Error(codes.Unauthenticated, common.ErrInvalidExternalToken.Error()), common.ErrInvalidExternalToken},
		{status.Error(codes.Unauthenticated, "missing admin token"), ErrUnauthorized},
		{status.Error(codes.PermissionDenied, "invalid admin token"), ErrUnauthorized},
		{status.Error(codes.Unavailable, "down"), ErrUnavailable},
		{status.Error(codes.DeadlineExceeded, "slow"), ErrUnavailable},
	}

	for _, tt := range tests {
		assert.ErrorIs(t, c.mapError(tt.in), tt.want, tt.in.Error())
	}

	assert.NoError(t, c.mapError(nil))

	internal := status.Error(codes.Internal, "internal error")
	assert.ErrorIs(t, c.mapError(internal), internal)
}

func TestCall_MapsErrors(t *testing.T) {
	f := &fakeConn{err: status.Error(codes.Unavailable, "down")}
	c := &GRPCClient{client: f}

	assert.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)

	_, err := c.Signup(context.Background(), "a@x.com", []byte("pw"), "")
	assert.ErrorIs(t, err, ErrUnavailable)
}
