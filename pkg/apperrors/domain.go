package apperrors

import (
	"net/http"
)

var ErrPageNotFound = New(
	CodeNotFound,
	"page",
	"The page you are looking for does not exist",
	http.StatusNotFound,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrSessionMissing = New(
	CodeSessionMissing,
	"session",
	"No session is bound to this request",
	http.StatusInternalServerError,
)

var ErrSessionExpired = New(
	CodeSessionExpired,
	"session",
	"Your session has expired",
	http.StatusUnauthorized,
)

var ErrInvalidIdentifier = New(
	CodeValidationFailed,
	"request",
	"Invalid identifier in URL",
	http.StatusBadRequest,
)

var ErrNotificationNotFound = New(
	CodeNotFound,
	"notification",
	"Notification not found",
	http.StatusNotFound,
)

var ErrBackendUnavailable = New(
	CodeExternalServiceError,
	"backend",
	"The accommodation service is unavailable",
	http.StatusBadGateway,
)
