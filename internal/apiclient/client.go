package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"accommodation_portal/internal/logger"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultBaseURL = "http://localhost:8100/api"

type Options struct {
	BaseURL string
	// Timeout bounds every backend call. Zero means no client-side timeout.
	Timeout time.Duration
	// Transport defaults to http.DefaultTransport; it is always wrapped for tracing.
	Transport http.RoundTripper
}

// Client talks to the REST backend. The zero-credential client returned by New is
// shared by the whole process; Bind derives a per-browser view of it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	storage    Storage
	navigator  Navigator
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		storage:   nopStorage{},
		navigator: nopNavigator{},
	}
}

// Bind returns a client reading credentials from storage and reporting forced
// navigations to navigator. The underlying connection pool is shared.
func (c *Client) Bind(storage Storage, navigator Navigator) *Client {
	bound := *c
	if storage != nil {
		bound.storage = storage
	}
	if navigator != nil {
		bound.navigator = navigator
	}
	return &bound
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Storage() Storage {
	return c.storage
}

// Response is a successful (2xx) backend response.
type Response struct {
	Status     int
	StatusText string
	Header     http.Header
	// Data is the parsed body: map[string]any, []any, a JSON scalar, or the raw text
	// when the backend did not answer with JSON.
	Data any
	Raw  []byte
}

// Decode unmarshals the raw JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type requestConfig struct {
	params  map[string]any
	headers map[string]string
}

type RequestOption func(*requestConfig)

// WithParams appends the query string produced by BuildQueryParams.
func WithParams(params map[string]any) RequestOption {
	return func(rc *requestConfig) {
		rc.params = params
	}
}

func WithHeader(key, value string) RequestOption {
	return func(rc *requestConfig) {
		if rc.headers == nil {
			rc.headers = make(map[string]string)
		}
		rc.headers[key] = value
	}
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body, opts)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body, opts)
}

func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body, opts)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, opts)
}

func (c *Client) do(ctx context.Context, method, path string, body any, opts []RequestOption) (*Response, error) {
	var rc requestConfig
	for _, opt := range opts {
		opt(&rc)
	}

	fullURL := c.baseURL + path
	if len(rc.params) > 0 {
		if qs := BuildQueryParams(rc.params); qs != "" {
			fullURL += "?" + qs
		}
	}

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if token, ok := c.storage.GetItem(TokenKey); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	for k, v := range rc.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.APILog(method, fullURL, 0, time.Since(start), err)
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.APILog(method, fullURL, resp.StatusCode, time.Since(start), err)
		return nil, &NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}
	logger.APILog(method, fullURL, resp.StatusCode, time.Since(start), nil)

	data := parseBody(resp.Header.Get("Content-Type"), raw)
	statusText := http.StatusText(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			Status:     resp.StatusCode,
			StatusText: statusText,
			Data:       data,
		}
	}

	return &Response{
		Status:     resp.StatusCode,
		StatusText: statusText,
		Header:     resp.Header,
		Data:       data,
		Raw:        raw,
	}, nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "application/json", nil
	case *Multipart:
		return b.Reader(), b.ContentType(), nil
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(payload), "application/json", nil
	}
}

// parseBody decodes JSON bodies and keeps anything else as text.
func parseBody(contentType string, raw []byte) any {
	if strings.Contains(contentType, "application/json") {
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
	}
	return string(raw)
}
