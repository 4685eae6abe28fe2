package apiclient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantError  string
		wantErrors map[string]any
	}{
		{
			name:       "400 field errors are flattened",
			err:        &HTTPError{Status: 400, Data: map[string]any{"name": []any{"This field is required."}, "capacity": []any{"Too small.", "Must be positive."}}},
			wantError:  "capacity: Too small., Must be positive.; name: This field is required.",
			wantErrors: map[string]any{"name": []any{"This field is required."}, "capacity": []any{"Too small.", "Must be positive."}},
		},
		{
			name:       "400 scalar field value",
			err:        &HTTPError{Status: 400, Data: map[string]any{"room_number": "Room with this number already exists in this building."}},
			wantError:  "room_number: Room with this number already exists in this building.",
			wantErrors: map[string]any{"room_number": "Room with this number already exists in this building."},
		},
		{
			name:       "400 empty object",
			err:        &HTTPError{Status: 400, Data: map[string]any{}},
			wantError:  "Validation failed.",
			wantErrors: map[string]any{},
		},
		{
			name:      "400 text body",
			err:       &HTTPError{Status: 400, Data: "bad"},
			wantError: "Bad request.",
		},
		{
			name:      "403",
			err:       &HTTPError{Status: 403, Data: map[string]any{"detail": "nope"}},
			wantError: "Access denied. You do not have permission to perform this action.",
		},
		{
			name:      "404",
			err:       &HTTPError{Status: 404},
			wantError: "The requested resource was not found.",
		},
		{
			name:       "422 nested errors",
			err:        &HTTPError{Status: 422, Data: map[string]any{"errors": map[string]any{"email": []any{"taken"}}}},
			wantError:  "Validation failed.",
			wantErrors: map[string]any{"email": []any{"taken"}},
		},
		{
			name:       "422 whole body",
			err:        &HTTPError{Status: 422, Data: map[string]any{"email": []any{"taken"}}},
			wantError:  "Validation failed.",
			wantErrors: map[string]any{"email": []any{"taken"}},
		},
		{
			name:      "500",
			err:       &HTTPError{Status: 500, Data: map[string]any{"message": "boom"}},
			wantError: "A server error occurred. Please try again later.",
		},
		{
			name:      "other status with message",
			err:       &HTTPError{Status: 409, Data: map[string]any{"message": "Room already allocated"}},
			wantError: "Room already allocated",
		},
		{
			name:      "other status with detail",
			err:       &HTTPError{Status: 429, Data: map[string]any{"detail": "Slow down"}},
			wantError: "Slow down",
		},
		{
			name:      "other status without hints",
			err:       &HTTPError{Status: 503, Data: "unavailable"},
			wantError: "An unexpected error occurred.",
		},
		{
			name:      "no response",
			err:       &NetworkError{Err: errors.New("dial tcp: refused")},
			wantError: "Network error. Please check your internet connection and try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := memStorage{"token": "t", "user": "{}"}
			nav := &recordingNavigator{}

			failure := HandleAPIError(tt.err, storage, nav)

			assert.Equal(t, tt.wantError, failure.Error)
			assert.Equal(t, tt.wantErrors, failure.Errors)
			assert.Empty(t, nav.paths)
			assert.Contains(t, storage, "token")
		})
	}
}

func TestHandleAPIErrorUnauthorizedClearsCredentials(t *testing.T) {
	storage := memStorage{"token": "t", "user": "{}", "refreshToken": "r", "reservation.confirmed": "1"}
	nav := &recordingNavigator{}

	failure := HandleAPIError(&HTTPError{Status: 401, Data: map[string]any{"detail": "expired"}}, storage, nav)

	assert.Equal(t, "Authentication required. Please log in again.", failure.Error)
	assert.NotContains(t, storage, "token")
	assert.NotContains(t, storage, "user")
	assert.Contains(t, storage, "reservation.confirmed")
	require.Len(t, nav.paths, 1)
	assert.Equal(t, "/auth/login", nav.paths[0])
}

func TestHandleAPIErrorToleratesNilCollaborators(t *testing.T) {
	failure := HandleAPIError(&HTTPError{Status: 401}, nil, nil)
	assert.Equal(t, MsgAuthRequired, failure.Error)
}
