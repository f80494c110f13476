package errors

// Error codes shared by the backend contract and the local ops listener.
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Resource errors
	ErrCodeNotFound  = "not_found"
	ErrCodeNoSession = "no_session"

	// Quiz contract errors
	ErrCodeMalformedQuiz = "malformed_quiz"
	ErrCodeFetchFailed   = "fetch_failed"
	ErrCodeSubmitFailed  = "submit_failed"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeConnectionError    = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
	ErrCodeHTTPStatus         = "http_status"
)
