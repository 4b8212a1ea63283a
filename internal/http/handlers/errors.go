package handlers

// Error codes carried in ErrorResponse.Code.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeInvalidInitData   = "invalid_init_data"
	ErrCodeInitDataExpired   = "init_data_expired"
	ErrCodeWebAppUnavailable = "webapp_auth_unavailable"
	ErrCodeDispatcherStopped = "dispatcher_unavailable"
	ErrCodeUnsupportedAction = "unsupported_action"
)
