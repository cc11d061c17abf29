package common

const (
	// AuthorizationHeader carries "Bearer <access token>" on API requests.
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"

	// RequestIDHeader is echoed back on every HTTP response.
	RequestIDHeader = "X-Request-ID"
)
