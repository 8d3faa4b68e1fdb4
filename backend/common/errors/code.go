package errors

// Generic error codes
const (
	ErrInternalServer = "ERR_INTERNAL_SERVER"
	ErrInvalidParam   = "ERR_INVALID_PARAM"
)

// User error codes
const (
	ErrEmptyID            = "ERR_EMPTY_ID"
	ErrUserNotFound       = "ERR_USER_NOT_FOUND"
	ErrEmptyCredentials   = "ERR_EMPTY_CREDENTIALS"
	ErrInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrUserDisabled       = "ERR_USER_DISABLED"
	ErrEmailTaken         = "ERR_EMAIL_TAKEN"
	ErrRegistrationOff    = "ERR_REGISTRATION_DISABLED"
	ErrInvalidTwoFACode   = "ERR_INVALID_2FA_CODE"
	ErrTelegramNotLinked  = "ERR_TELEGRAM_NOT_LINKED"
	ErrTelegramIDTaken    = "ERR_TELEGRAM_ID_TAKEN"
)

// Auth token error codes
const (
	ErrInvalidToken     = "ERR_INVALID_TOKEN"
	ErrExpiredMagicLink = "ERR_EXPIRED_MAGIC_LINK"
)

// File error codes
const (
	ErrFileNotFound    = "ERR_FILE_NOT_FOUND"
	ErrUpstreamFailure = "ERR_UPSTREAM_FAILURE"
)
