// Package client contains the gRPC client the CLI uses to talk to the
// gophauth server.
//
// # Overview
//
// Client is the transport-agnostic contract: signup, login (local and
// federated), logout, me and the administrative session calls. GRPCClient
// implements it over a grpc.ClientConn, keeping the current session token and
// injecting it, together with the admin token, via a unary interceptor.
//
// # Error Handling
//
// gRPC status codes are mapped back onto sentinel errors that callers can
// match with errors.Is: the common package sentinels for domain failures,
// plus ErrUnavailable and ErrUnauthorized for transport-level conditions.
package client
