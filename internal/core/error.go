package core

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrInvalidLabel      = "INVALID_LABEL"
	ErrIllegalMove       = "ILLEGAL_MOVE"
	ErrGameOver          = "GAME_OVER"
	ErrInvalidLayout     = "INVALID_LAYOUT"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInternalError     = "INTERNAL_ERROR"
	ErrUnauthorized      = "UNAUTHORIZED"
)
