package services

import (
	"context"
	"encoding/json"
	"time"

	"accommodation_portal/internal/apiclient"
	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLeeway treats a token this close to expiry as already expired.
const tokenLeeway = 30 * time.Second

type AuthData struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	User         *models.User `json:"user,omitempty"`
}

type AuthService interface {
	Login(ctx context.Context, credentials models.LoginRequest) Result[AuthData]
	Register(ctx context.Context, input models.RegisterRequest) Result[map[string]any]
	Logout(ctx context.Context) Result[NoContent]
	RefreshToken(ctx context.Context) Result[AuthData]
	GetCurrentUser(ctx context.Context) Result[models.User]
	VerifyToken(ctx context.Context) Result[models.User]
	ChangePassword(ctx context.Context, input models.PasswordChange) Result[map[string]any]
	RequestPasswordReset(ctx context.Context, email string) Result[map[string]any]
	ConfirmPasswordReset(ctx context.Context, input models.PasswordResetConfirm) Result[map[string]any]

	// EnsureFreshToken refreshes the stored access token when it has expired
	// and a refresh token is available. It reports whether a usable token remains.
	EnsureFreshToken(ctx context.Context) bool

	IsAuthenticated() bool
	GetStoredUser() (*models.User, bool)
	GetStoredToken() string
}

type authService struct {
	client  *apiclient.Client
	storage apiclient.Storage
	now     func() time.Time
}

func NewAuthService(client *apiclient.Client) AuthService {
	return &authService{
		client:  client,
		storage: client.Storage(),
		now:     time.Now,
	}
}

func (s *authService) Login(ctx context.Context, credentials models.LoginRequest) Result[AuthData] {
	body := map[string]string{
		"username": credentials.Email,
		"password": credentials.Password,
	}

	resp, err := s.client.Post(ctx, "/auth/login/", body)
	if err != nil {
		return failed[AuthData](s.client.HandleError(ctx, err))
	}

	var payload models.LoginResponse
	if err := resp.Decode(&payload); err != nil {
		logger.CtxWithError(ctx, "unexpected login payload", err)
		return Result[AuthData]{Error: apiclient.MsgUnexpected, Status: resp.Status}
	}

	if payload.Tokens.Access != "" {
		s.storage.SetItem(apiclient.TokenKey, payload.Tokens.Access)
		s.storage.SetItem(apiclient.RefreshTokenKey, payload.Tokens.Refresh)
	}
	s.storeUser(ctx, payload.User)

	logger.CtxInfo(ctx, "user logged in", "user_id", payload.User.ID, "role", payload.User.Role)
	return succeed(AuthData{
		Token:        payload.Tokens.Access,
		RefreshToken: payload.Tokens.Refresh,
		User:         &payload.User,
	}, "")
}

func (s *authService) Register(ctx context.Context, input models.RegisterRequest) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "Account created successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/auth/register/", input)
	})
}

// Logout notifies the backend and clears the stored credentials whatever it answers.
func (s *authService) Logout(ctx context.Context) Result[NoContent] {
	if _, err := s.client.Post(ctx, "/auth/logout/", nil); err != nil {
		logger.CtxWarn(ctx, "logout call failed", "error", err.Error())
	}
	s.clearCredentials()
	return succeed(NoContent{}, "Logged out successfully")
}

func (s *authService) RefreshToken(ctx context.Context) Result[AuthData] {
	refresh, ok := s.storage.GetItem(apiclient.RefreshTokenKey)
	if !ok || refresh == "" {
		s.clearCredentials()
		return Result[AuthData]{Error: "No refresh token available"}
	}

	resp, err := s.client.Post(ctx, "/token/refresh/", map[string]string{"refresh": refresh})
	if err != nil {
		s.clearCredentials()
		return failed[AuthData](s.client.HandleError(ctx, err))
	}

	var tokens models.Tokens
	if err := resp.Decode(&tokens); err != nil || tokens.Access == "" {
		s.clearCredentials()
		return Result[AuthData]{Error: apiclient.MsgUnexpected, Status: resp.Status}
	}

	s.storage.SetItem(apiclient.TokenKey, tokens.Access)
	if tokens.Refresh != "" {
		s.storage.SetItem(apiclient.RefreshTokenKey, tokens.Refresh)
	}
	return succeed(AuthData{Token: tokens.Access, RefreshToken: tokens.Refresh}, "")
}

// GetCurrentUser reloads the profile and refreshes the stored user with it.
func (s *authService) GetCurrentUser(ctx context.Context) Result[models.User] {
	result := fetch[models.User](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/profile/")
	})
	if result.Success {
		s.storeUser(ctx, result.Data)
	}
	return result
}

func (s *authService) VerifyToken(ctx context.Context) Result[models.User] {
	if s.GetStoredToken() == "" {
		return Result[models.User]{Error: "No token found"}
	}
	return fetch[models.User](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/profile/")
	})
}

func (s *authService) ChangePassword(ctx context.Context, input models.PasswordChange) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "Password changed successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/auth/change-password/", input)
	})
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/auth/password-reset/", map[string]string{"email": email})
	})
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, input models.PasswordResetConfirm) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/auth/password-reset-confirm/", input)
	})
}

func (s *authService) EnsureFreshToken(ctx context.Context) bool {
	token := s.GetStoredToken()
	if token == "" {
		return false
	}
	expiry, ok := TokenExpiry(token)
	if !ok || s.now().Add(tokenLeeway).Before(expiry) {
		return true
	}

	logger.CtxDebug(ctx, "access token expired, refreshing", "expired_at", expiry)
	return s.RefreshToken(ctx).Success
}

func (s *authService) IsAuthenticated() bool {
	token, _ := s.storage.GetItem(apiclient.TokenKey)
	user, _ := s.storage.GetItem(apiclient.UserKey)
	return token != "" && user != ""
}

func (s *authService) GetStoredUser() (*models.User, bool) {
	return StoredUser(s.storage)
}

func (s *authService) GetStoredToken() string {
	token, _ := s.storage.GetItem(apiclient.TokenKey)
	return token
}

func (s *authService) storeUser(ctx context.Context, user models.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		logger.CtxWithError(ctx, "failed to encode user", err)
		return
	}
	s.storage.SetItem(apiclient.UserKey, string(raw))
}

func (s *authService) clearCredentials() {
	s.storage.RemoveItem(apiclient.TokenKey)
	s.storage.RemoveItem(apiclient.RefreshTokenKey)
	s.storage.RemoveItem(apiclient.UserKey)
}

// StoredUser decodes the user saved at login. Unreadable data counts as absent.
func StoredUser(storage apiclient.Storage) (*models.User, bool) {
	raw, ok := storage.GetItem(apiclient.UserKey)
	if !ok || raw == "" {
		return nil, false
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logger.Warn("stored user is not valid JSON", "error", err.Error())
		return nil, false
	}
	return &user, true
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature; the
// backend remains the authority on validity.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
