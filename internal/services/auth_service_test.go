package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"accommodation_portal/internal/models"
	"accommodation_portal/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestLoginStoresTokensAndUser(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Reply(http.MethodPost, "/auth/login/", http.StatusOK, obj{
		"tokens": obj{"access": "acc", "refresh": "ref"},
		"user":   obj{"id": 4, "email": "p@church.org", "role": "Pastor", "first_name": "Paul"},
	})
	storage := testutil.NewMemStorage(nil)
	svc := NewAuthService(backend.Client(storage, nil))

	res := svc.Login(context.Background(), models.LoginRequest{Email: "p@church.org", Password: "secret"})

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "acc", res.Data.Token)
	assert.Equal(t, models.UserRolePastor, res.Data.User.Role)

	body := backend.Last(t).JSON(t)
	assert.Equal(t, "p@church.org", body["username"])
	assert.Equal(t, "secret", body["password"])

	token, _ := storage.GetItem("token")
	refresh, _ := storage.GetItem("refreshToken")
	assert.Equal(t, "acc", token)
	assert.Equal(t, "ref", refresh)

	user, ok := svc.GetStoredUser()
	require.True(t, ok)
	assert.Equal(t, int64(4), user.ID)
	assert.True(t, svc.IsAuthenticated())
}

func TestLoginInvalidCredentials(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Reply(http.MethodPost, "/auth/login/", http.StatusBadRequest, obj{"non_field_errors": []string{"Invalid credentials."}})
	storage := testutil.NewMemStorage(nil)
	svc := NewAuthService(backend.Client(storage, nil))

	res := svc.Login(context.Background(), models.LoginRequest{Email: "x", Password: "y"})

	assert.False(t, res.Success)
	assert.Equal(t, "non_field_errors: Invalid credentials.", res.Error)
	assert.False(t, svc.IsAuthenticated())
}

func TestLogoutClearsStorageEvenWhenBackendFails(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Reply(http.MethodPost, "/auth/logout/", http.StatusInternalServerError, nil)
	storage := testutil.NewMemStorage(map[string]string{"token": "a", "refreshToken": "b", "user": "{}"})
	svc := NewAuthService(backend.Client(storage, nil))

	res := svc.Logout(context.Background())

	assert.True(t, res.Success)
	assert.Equal(t, "Logged out successfully", res.Message)
	assert.False(t, storage.Has("token"))
	assert.False(t, storage.Has("refreshToken"))
	assert.False(t, storage.Has("user"))
}

func TestRefreshTokenRotatesTokens(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Reply(http.MethodPost, "/token/refresh/", http.StatusOK, obj{"access": "new-acc", "refresh": "new-ref"})
	storage := testutil.NewMemStorage(map[string]string{"token": "old", "refreshToken": "old-ref", "user": "{}"})
	svc := NewAuthService(backend.Client(storage, nil))

	res := svc.RefreshToken(context.Background())

	require.True(t, res.Success)
	assert.Equal(t, "old-ref", backend.Last(t).JSON(t)["refresh"])
	token, _ := storage.GetItem("token")
	refresh, _ := storage.GetItem("refreshToken")
	assert.Equal(t, "new-acc", token)
	assert.Equal(t, "new-ref", refresh)
}

func TestRefreshTokenWithoutRefreshTokenClears(t *testing.T) {
	storage := testutil.NewMemStorage(map[string]string{"token": "old", "user": "{}"})
	backend := testutil.NewFakeBackend(t)
	svc := NewAuthService(backend.Client(storage, nil))

	res := svc.RefreshToken(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, "No refresh token available", res.Error)
	assert.False(t, storage.Has("token"))
	assert.Empty(t, backend.Requests())
}

func TestEnsureFreshToken(t *testing.T) {
	t.Run("valid token is kept", func(t *testing.T) {
		backend := testutil.NewFakeBackend(t)
		storage := testutil.NewMemStorage(map[string]string{"token": signedToken(t, time.Now().Add(time.Hour)), "user": "{}"})
		svc := NewAuthService(backend.Client(storage, nil))

		assert.True(t, svc.EnsureFreshToken(context.Background()))
		assert.Empty(t, backend.Requests())
	})

	t.Run("expired token is refreshed", func(t *testing.T) {
		backend := testutil.NewFakeBackend(t)
		fresh := signedToken(t, time.Now().Add(time.Hour))
		backend.Reply(http.MethodPost, "/token/refresh/", http.StatusOK, obj{"access": fresh})
		storage := testutil.NewMemStorage(map[string]string{
			"token":        signedToken(t, time.Now().Add(-time.Minute)),
			"refreshToken": "ref",
			"user":         "{}",
		})
		svc := NewAuthService(backend.Client(storage, nil))

		assert.True(t, svc.EnsureFreshToken(context.Background()))
		token, _ := storage.GetItem("token")
		assert.Equal(t, fresh, token)
		refresh, _ := storage.GetItem("refreshToken")
		assert.Equal(t, "ref", refresh)
	})

	t.Run("failed refresh logs out", func(t *testing.T) {
		backend := testutil.NewFakeBackend(t)
		backend.Reply(http.MethodPost, "/token/refresh/", http.StatusUnauthorized, obj{"detail": "Token is blacklisted"})
		storage := testutil.NewMemStorage(map[string]string{
			"token":        signedToken(t, time.Now().Add(-time.Minute)),
			"refreshToken": "ref",
			"user":         "{}",
		})
		svc := NewAuthService(backend.Client(storage, nil))

		assert.False(t, svc.EnsureFreshToken(context.Background()))
		assert.False(t, svc.IsAuthenticated())
	})

	t.Run("opaque token is trusted", func(t *testing.T) {
		backend := testutil.NewFakeBackend(t)
		storage := testutil.NewMemStorage(map[string]string{"token": "not-a-jwt", "user": "{}"})
		svc := NewAuthService(backend.Client(storage, nil))

		assert.True(t, svc.EnsureFreshToken(context.Background()))
	})
}

func TestGetCurrentUserUpdatesStoredUser(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Reply(http.MethodGet, "/profile/", http.StatusOK, obj{"id": 2, "role": "Member", "first_name": "Mary", "last_name": "Ann"})
	storage := testutil.NewMemStorage(map[string]string{"token": "t", "user": `{"id":2,"role":"Member"}`})
	svc := NewAuthService(backend.Client(storage, nil))

	res := svc.GetCurrentUser(context.Background())

	require.True(t, res.Success)
	user, ok := StoredUser(storage)
	require.True(t, ok)
	assert.Equal(t, "Mary Ann", user.DisplayName())
}

func TestVerifyTokenWithoutToken(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	svc := NewAuthService(backend.Client(testutil.NewMemStorage(nil), nil))

	res := svc.VerifyToken(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, "No token found", res.Error)
}

func TestStoredUserIgnoresCorruptData(t *testing.T) {
	_, ok := StoredUser(testutil.NewMemStorage(map[string]string{"user": "{not json"}))
	assert.False(t, ok)
}
