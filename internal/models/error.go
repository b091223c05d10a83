package models

// Envelope is the body of every /api response. Success is 1 or 0; Message
// is shown to the user as is.
type Envelope struct {
	Success int         `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data interface{}) Envelope {
	return Envelope{Success: 1, Data: data}
}

// Failure builds a failed envelope. code is one of the Err* constants.
func Failure(code, message string) Envelope {
	return Envelope{Success: 0, Error: code, Message: message}
}

// Error code constants
const (
	// General errors
	ErrBadRequest       = "BAD_REQUEST"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"
	ErrRateLimited      = "RATE_LIMITED"
	ErrUpstream         = "UPSTREAM_UNAVAILABLE"

	// Account errors
	ErrUserExists         = "USER_EXISTS"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"
	ErrInvalidCode        = "INVALID_CODE"

	// Menu and category errors
	ErrMenuNotFound         = "MENU_NOT_FOUND"
	ErrMenuForbidden        = "MENU_FORBIDDEN"
	ErrCategoryExists       = "CATEGORY_EXISTS"
	ErrCategoryNotFound     = "CATEGORY_NOT_FOUND"
	ErrCategoryDeleteDenied = "CATEGORY_DELETE_FORBIDDEN"

	// OAuth/Auth errors (maintain RFC 6749 compatibility)
	ErrInvalidRequest       = "invalid_request"
	ErrInvalidClient        = "invalid_client"
	ErrInvalidGrant         = "invalid_grant"
	ErrInvalidToken         = "invalid_token"
	ErrUnsupportedGrantType = "unsupported_grant_type"
)

// OAuth2Error represents an OAuth2 error response (RFC 6749)
type OAuth2Error struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// NewOAuth2Error creates a new OAuth2 error response
func NewOAuth2Error(code, description string) OAuth2Error {
	return OAuth2Error{
		Error:            code,
		ErrorDescription: description,
	}
}
