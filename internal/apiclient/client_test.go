package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage map[string]string

func (m memStorage) GetItem(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m memStorage) SetItem(key, value string) { m[key] = value }
func (m memStorage) RemoveItem(key string)     { delete(m, key) }

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.paths = append(n.paths, path)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, memStorage, *recordingNavigator) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	storage := memStorage{}
	nav := &recordingNavigator{}
	client := New(Options{BaseURL: server.URL + "/api"}).Bind(storage, nav)
	return client, storage, nav
}

func TestGetAttachesBearerTokenAndParsesJSON(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	client, storage, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":7}]}`))
	})
	storage["token"] = "abc"

	resp, err := client.Get(context.Background(), "/buildings/", WithParams(map[string]any{"search": "Block A", "page": 2}))
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "/api/buildings/", gotPath)
	assert.Equal(t, "page=2&search=Block+A", gotQuery)
	assert.Equal(t, http.StatusOK, resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, data["count"])
}

func TestGetWithoutTokenSendsNoAuthorization(t *testing.T) {
	var hasAuth bool
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Get(context.Background(), "/profile/")
	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestPostSerializesJSONBody(t *testing.T) {
	var body map[string]any
	var contentType string
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1,"name":"Block A"}`))
	})

	resp, err := client.Post(context.Background(), "/buildings/", map[string]any{"name": "Block A"})
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "Block A", body["name"])
	assert.Equal(t, http.StatusCreated, resp.Status)

	var decoded struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, resp.Decode(&decoded))
	assert.Equal(t, int64(1), decoded.ID)
}

func TestMultipartBodyIsPassedThrough(t *testing.T) {
	var caption, fileContent string
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))
		if assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			caption = r.FormValue("caption")
			if f, _, err := r.FormFile("images"); assert.NoError(t, err) {
				raw, _ := io.ReadAll(f)
				fileContent = string(raw)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	form := NewMultipart()
	require.NoError(t, form.AddField("caption", "front"))
	require.NoError(t, form.AddFile("images", "room.jpg", strings.NewReader("jpeg-bytes")))

	_, err := client.Post(context.Background(), "/buildings/1/rooms/2/pictures/", form)
	require.NoError(t, err)
	assert.Equal(t, "front", caption)
	assert.Equal(t, "jpeg-bytes", fileContent)
}

func TestTextResponseIsKeptAsString(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("pong"))
	})

	resp, err := client.Get(context.Background(), "/health/")
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Data)
}

func TestNon2xxReturnsHTTPError(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
	})

	_, err := client.Delete(context.Background(), "/buildings/99/")
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Not Found", httpErr.StatusText)
	assert.Equal(t, "Not found.", httpErr.Error())
}

func TestHTTPErrorMessageFallsBackToStatus(t *testing.T) {
	err := &HTTPError{Status: 502, Data: "<html>bad gateway</html>"}
	assert.Equal(t, "HTTP error! status: 502", err.Error())
}

func TestUnreachableBackendReturnsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(Options{BaseURL: url})
	_, err := client.Get(context.Background(), "/buildings/")

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, MsgNetwork, client.HandleError(context.Background(), err).Error)
}

func TestBindDoesNotLeakCredentialsBetweenViews(t *testing.T) {
	var auths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	shared := New(Options{BaseURL: server.URL})
	alice := shared.Bind(memStorage{"token": "alice"}, nil)
	anonymous := shared.Bind(memStorage{}, nil)

	_, err := alice.Get(context.Background(), "/a/")
	require.NoError(t, err)
	_, err = anonymous.Get(context.Background(), "/b/")
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer alice", ""}, auths)
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8100/api", New(Options{}).BaseURL())
	assert.Equal(t, "http://backend/api", New(Options{BaseURL: "http://backend/api/"}).BaseURL())
}
