package apperrors

type ErrorCode string

const (
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeSessionMissing ErrorCode = "SESSION_MISSING"
	CodeSessionExpired ErrorCode = "SESSION_EXPIRED"
)
