package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"accommodation_portal/internal/logger"
)

// HTTPError is returned for any non-2xx backend response.
type HTTPError struct {
	Status     int
	StatusText string
	Data       any
}

func (e *HTTPError) Error() string {
	if msg := messageOrDetail(e.Data); msg != "" {
		return msg
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// NetworkError is returned when no response was received at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Failure is the user-facing shape of a failed backend call.
type Failure struct {
	Status int
	Error  string
	Errors map[string]any
}

const (
	MsgValidationFailed = "Validation failed."
	MsgBadRequest       = "Bad request."
	MsgAuthRequired     = "Authentication required. Please log in again."
	MsgForbidden        = "Access denied. You do not have permission to perform this action."
	MsgNotFound         = "The requested resource was not found."
	MsgServerError      = "A server error occurred. Please try again later."
	MsgUnexpected       = "An unexpected error occurred."
	MsgNetwork          = "Network error. Please check your internet connection and try again."
)

// HandleError maps err to a Failure. A 401 clears the stored credentials and
// navigates the browser to the login page.
func (c *Client) HandleError(ctx context.Context, err error) Failure {
	failure := HandleAPIError(err, c.storage, c.navigator)
	if failure.Status >= 500 || failure.Status == 0 {
		logger.CtxWarn(ctx, "backend call failed", "status", failure.Status, "error", err.Error())
	}
	return failure
}

// HandleAPIError maps err to a Failure purely from the response status.
func HandleAPIError(err error, storage Storage, navigator Navigator) Failure {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return Failure{Error: MsgNetwork}
	}

	data := httpErr.Data
	obj, isObject := data.(map[string]any)

	switch httpErr.Status {
	case 400:
		if isObject {
			msg := flattenFieldErrors(obj)
			if msg == "" {
				msg = MsgValidationFailed
			}
			return Failure{Status: 400, Error: msg, Errors: obj}
		}
		return Failure{Status: 400, Error: orDefault(messageOrDetail(data), MsgBadRequest)}
	case 401:
		if storage != nil {
			storage.RemoveItem(TokenKey)
			storage.RemoveItem(UserKey)
		}
		if navigator != nil {
			navigator.Navigate(LoginPath)
		}
		return Failure{Status: 401, Error: MsgAuthRequired}
	case 403:
		return Failure{Status: 403, Error: MsgForbidden}
	case 404:
		return Failure{Status: 404, Error: MsgNotFound}
	case 422:
		return Failure{Status: 422, Error: MsgValidationFailed, Errors: unprocessableErrors(data)}
	case 500:
		return Failure{Status: 500, Error: MsgServerError}
	default:
		return Failure{Status: httpErr.Status, Error: orDefault(messageOrDetail(data), MsgUnexpected)}
	}
}

// flattenFieldErrors renders {"name": ["a", "b"], "x": "c"} as "name: a, b; x: c".
func flattenFieldErrors(obj map[string]any) string {
	fields := make([]string, 0, len(obj))
	for field := range obj {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	fragments := make([]string, 0, len(fields))
	for _, field := range fields {
		fragments = append(fragments, field+": "+stringify(obj[field]))
	}
	return strings.Join(fragments, "; ")
}

func unprocessableErrors(data any) map[string]any {
	obj, ok := data.(map[string]any)
	if !ok {
		if data == nil {
			return nil
		}
		return map[string]any{"detail": data}
	}
	if nested, ok := obj["errors"].(map[string]any); ok {
		return nested
	}
	return obj
}

func stringify(v any) string {
	switch t := v.(type) {
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ", ")
	case string:
		return t
	case nil:
		return "null"
	case float64:
		return fmt.Sprintf("%v", t)
	case map[string]any:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	default:
		return fmt.Sprint(t)
	}
}

func messageOrDetail(data any) string {
	obj, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"message", "detail"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
