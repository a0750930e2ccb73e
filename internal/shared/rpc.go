// Package shared holds the gRPC contract spoken by the server and the CLI
// client. Messages travel as google.protobuf.Struct values, so no generated
// code is involved; field names match the HTTP/JSON bodies.
package shared

import "strings"

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gophauth.v1.AuthService"

const (
	MethodPing                   = "Ping"
	MethodSignup                 = "Signup"
	MethodLogin                  = "Login"
	MethodLoginWithExternalToken = "LoginWithExternalToken"
	MethodLogout                 = "Logout"
	MethodMe                     = "Me"
	MethodListUsers              = "ListUsers"
	MethodListSessions           = "ListSessions"
	MethodForceLogout            = "ForceLogout"
	MethodListAllSessions        = "ListAllSessions"
	MethodClearUserSessions      = "ClearUserSessions"
	MethodClearAllSessions       = "ClearAllSessions"
)

var adminMethods = map[string]bool{
	MethodListUsers:         true,
	MethodListSessions:      true,
	MethodForceLogout:       true,
	MethodListAllSessions:   true,
	MethodClearUserSessions: true,
	MethodClearAllSessions:  true,
}

// FullMethod returns the "/service/method" path used on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// IsAdminMethod reports whether fullMethod requires the admin token.
func IsAdminMethod(fullMethod string) bool {
	service, method, ok := strings.Cut(strings.TrimPrefix(fullMethod, "/"), "/")
	return ok && service == ServiceName && adminMethods[method]
}
