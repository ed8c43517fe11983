package common

const (
	// AuthorizationHeader carries the bearer token on protected routes.
	AuthorizationHeader = "Authorization"

	// RequestIDHeader is echoed back on every response.
	RequestIDHeader = "X-Request-ID"
)
