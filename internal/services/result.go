package services

import (
	"context"

	"accommodation_portal/internal/apiclient"
	"accommodation_portal/internal/logger"
)

// Result is what every service method returns. Services never return Go errors:
// a failed backend call becomes Success=false with a user-facing Error.
type Result[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
	Errors  map[string]any `json:"errors,omitempty"`
	// Status is the backend status of a failure, 0 when no response arrived.
	Status int `json:"-"`
}

// NoContent is the payload of operations that return nothing useful.
type NoContent struct{}

func succeed[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Data: data, Message: message}
}

func failed[T any](f apiclient.Failure) Result[T] {
	return Result[T]{Error: f.Error, Errors: f.Errors, Status: f.Status}
}

// fetch runs call, maps failures through the client and decodes the body into T.
// A 2xx body that does not fit T is still a success; the mismatch is logged and
// Data keeps whatever fields did decode.
func fetch[T any](ctx context.Context, client *apiclient.Client, message string, call func() (*apiclient.Response, error)) Result[T] {
	resp, err := call()
	if err != nil {
		return failed[T](client.HandleError(ctx, err))
	}

	var data T
	if err := resp.Decode(&data); err != nil {
		logger.CtxWarn(ctx, "backend payload does not match the expected shape", "error", err.Error(), "status", resp.Status)
	}
	return succeed(data, message)
}

// exec is fetch for calls whose body is ignored.
func exec(ctx context.Context, client *apiclient.Client, message string, call func() (*apiclient.Response, error)) Result[NoContent] {
	if _, err := call(); err != nil {
		return failed[NoContent](client.HandleError(ctx, err))
	}
	return succeed(NoContent{}, message)
}
