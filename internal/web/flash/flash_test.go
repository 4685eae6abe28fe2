package flash

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenReadAndClear(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, httptest.NewRequest(http.MethodPost, "/admin/buildings", nil), Success("Building created successfully"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	next := httptest.NewRecorder()

	notice, ok := ReadAndClear(next, req)
	require.True(t, ok)
	assert.Equal(t, KindSuccess, notice.Kind)
	assert.Equal(t, "Building created successfully", notice.Message)

	cleared := next.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestWriteDropsBlankNotice(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, httptest.NewRequest(http.MethodPost, "/", nil), Error("   "))
	assert.Empty(t, rec.Result().Cookies())
}

func TestReadAndClearWithoutCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	_, ok := ReadAndClear(rec, req)
	assert.False(t, ok)
	assert.Empty(t, rec.Result().Cookies())
}

func TestDecodeNotice(t *testing.T) {
	_, ok := decodeNotice("not-base64!!")
	assert.False(t, ok)

	notice, ok := normalizeNotice(Notice{Kind: "shout", Message: strings.Repeat("x", 600)})
	require.True(t, ok)
	assert.Equal(t, KindInfo, notice.Kind)
	assert.Len(t, notice.Message, maxMessageLen)
}

func TestIsHTTPS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, IsHTTPS(req))

	req.Header.Set("X-Forwarded-Proto", "HTTPS")
	assert.True(t, IsHTTPS(req))

	rec := httptest.NewRecorder()
	Write(rec, req, Info("Saved"))
	require.Len(t, rec.Result().Cookies(), 1)
	assert.True(t, rec.Result().Cookies()[0].Secure)
}
