package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/shared"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// AuthServiceServer is the handler type checked by grpc.Server.RegisterService.
type AuthServiceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Signup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LoginWithExternalToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Me(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSessions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ForceLogout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAllSessions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearUserSessions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearAllSessions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(AuthServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

var serviceDesc = grpc.ServiceDesc{
	ServiceName: shared.ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method(shared.MethodPing, AuthServiceServer.Ping),
		method(shared.MethodSignup, AuthServiceServer.Signup),
		method(shared.MethodLogin, AuthServiceServer.Login),
		method(shared.MethodLoginWithExternalToken, AuthServiceServer.LoginWithExternalToken),
		method(shared.MethodLogout, AuthServiceServer.Logout),
		method(shared.MethodMe, AuthServiceServer.Me),
		method(shared.MethodListUsers, AuthServiceServer.ListUsers),
		method(shared.MethodListSessions, AuthServiceServer.ListSessions),
		method(shared.MethodForceLogout, AuthServiceServer.ForceLogout),
		method(shared.MethodListAllSessions, AuthServiceServer.ListAllSessions),
		method(shared.MethodClearUserSessions, AuthServiceServer.ClearUserSessions),
		method(shared.MethodClearAllSessions, AuthServiceServer.ClearAllSessions),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophauth/v1/auth.proto",
}

func method(name string, fn unaryMethod) grpc.MethodDesc {
	fullMethod := shared.FullMethod(name)

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}

			if interceptor == nil {
				return fn(srv.(AuthServiceServer), ctx, in)
			}

			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(srv.(AuthServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
