package handlers

// API error codes returned in JSON { "status": "error", "error": "...", "code": "..." } for stable client handling.
const (
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeInvalidToken     = "invalid_token"
	ErrCodeInvalidTokenFmt  = "invalid_token_format"
	ErrCodeTokenExpired     = "token_expired"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeNoComponent      = "no_component"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
