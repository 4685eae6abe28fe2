// Package testutil provides a fake REST backend and in-memory storage for tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"accommodation_portal/internal/apiclient"

	"github.com/gin-gonic/gin"
)

// RecordedRequest is one call received by the fake backend.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into a generic map.
func (r RecordedRequest) JSON(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	if len(r.Body) == 0 {
		return out
	}
	if err := json.Unmarshal(r.Body, &out); err != nil {
		t.Fatalf("request body is not JSON: %v (%s)", err, r.Body)
	}
	return out
}

// FakeBackend is a gin server standing in for the REST API, mounted under /api.
type FakeBackend struct {
	Engine *gin.Engine
	Server *httptest.Server
	API    *gin.RouterGroup

	mu       sync.Mutex
	requests []RecordedRequest
}

func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fb := &FakeBackend{Engine: gin.New()}
	fb.Engine.RedirectTrailingSlash = false
	fb.Engine.Use(fb.record)
	fb.API = fb.Engine.Group("/api")
	fb.Server = httptest.NewServer(fb.Engine)
	t.Cleanup(fb.Server.Close)
	return fb
}

func (fb *FakeBackend) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	fb.mu.Lock()
	fb.requests = append(fb.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	fb.mu.Unlock()

	c.Next()
}

// BaseURL is what the portal uses as its API base.
func (fb *FakeBackend) BaseURL() string {
	return fb.Server.URL + "/api"
}

// Reply registers a canned JSON response for method and path (relative to /api).
func (fb *FakeBackend) Reply(method, path string, status int, body any) {
	fb.API.Handle(method, path, func(c *gin.Context) {
		if body == nil {
			c.Status(status)
			return
		}
		c.JSON(status, body)
	})
}

func (fb *FakeBackend) Handle(method, path string, handler gin.HandlerFunc) {
	fb.API.Handle(method, path, handler)
}

func (fb *FakeBackend) Requests() []RecordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]RecordedRequest, len(fb.requests))
	copy(out, fb.requests)
	return out
}

// Last returns the most recent request, failing the test when there is none.
func (fb *FakeBackend) Last(t *testing.T) RecordedRequest {
	t.Helper()
	reqs := fb.Requests()
	if len(reqs) == 0 {
		t.Fatal("fake backend received no requests")
	}
	return reqs[len(reqs)-1]
}

// Client returns an API client pointed at the fake backend and bound to storage and nav.
func (fb *FakeBackend) Client(storage apiclient.Storage, nav apiclient.Navigator) *apiclient.Client {
	return apiclient.New(apiclient.Options{BaseURL: fb.BaseURL()}).Bind(storage, nav)
}
