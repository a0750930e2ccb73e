package common

const (
	// SessionTokenHeaderName is the gRPC metadata key carrying a session token.
	SessionTokenHeaderName = "session_token"

	// AdminTokenHeaderName is the gRPC metadata key carrying the admin token.
	AdminTokenHeaderName = "admin_token"

	// AdminTokenHTTPHeader is the HTTP header carrying the admin token.
	AdminTokenHTTPHeader = "X-Admin-Token"

	// SessionTokenBytes is the number of random bytes in a session token.
	// The token itself is hex encoded and therefore twice as long.
	SessionTokenBytes = 32
)
