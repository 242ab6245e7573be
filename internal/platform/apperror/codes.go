package apperror

// ErrorCode is a general, system-level error category.
type ErrorCode string

const (
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInternalError    ErrorCode = "INTERNAL_SERVER_ERROR"
)

// BusinessCode is the specific business reason behind an error.
type BusinessCode string

const (
	BusinessCodeGeneral       BusinessCode = "GENERAL"
	BusinessCodeInvalidFormat BusinessCode = "INVALID_FORMAT"
	BusinessCodeMissingFields BusinessCode = "MISSING_FIELDS"

	// Posts
	BusinessCodePostNotFound    BusinessCode = "POST_NOT_FOUND"
	BusinessCodeCommentNotFound BusinessCode = "COMMENT_NOT_FOUND"
	BusinessCodeNotOwner        BusinessCode = "NOT_OWNER"

	// Users and credentials
	BusinessCodeUserNotFound       BusinessCode = "USER_NOT_FOUND"
	BusinessCodeUsernameTaken      BusinessCode = "USERNAME_TAKEN"
	BusinessCodeInvalidCredentials BusinessCode = "INVALID_CREDENTIALS"
	BusinessCodeMissingToken       BusinessCode = "MISSING_TOKEN"
	BusinessCodeInvalidToken       BusinessCode = "INVALID_TOKEN"
)
