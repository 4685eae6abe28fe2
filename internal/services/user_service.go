package services

import (
	"context"
	"io"

	"accommodation_portal/internal/apiclient"
	"accommodation_portal/internal/models"
)

type RoleOption struct {
	Value models.UserRole `json:"value"`
	Label string          `json:"label"`
}

type UserService interface {
	GetUsers(ctx context.Context, filter Filter) Result[models.Page[models.User]]
	GetUser(ctx context.Context, userID int64) Result[models.User]
	CreateUser(ctx context.Context, input models.UserInput) Result[models.User]
	UpdateUser(ctx context.Context, userID int64, input models.UserInput) Result[models.User]
	PatchUser(ctx context.Context, userID int64, fields map[string]any) Result[models.User]
	DeleteUser(ctx context.Context, userID int64) Result[NoContent]
	BulkDeleteUsers(ctx context.Context, userIDs []int64) Result[map[string]any]

	GetProfile(ctx context.Context) Result[models.User]
	UpdateProfile(ctx context.Context, input models.ProfileInput) Result[models.User]
	UploadAvatar(ctx context.Context, filename string, avatar io.Reader) Result[map[string]any]
	RemoveAvatar(ctx context.Context) Result[map[string]any]
	ChangePassword(ctx context.Context, input models.PasswordChange) Result[map[string]any]
	RequestPasswordReset(ctx context.Context, email string) Result[map[string]any]
	ConfirmPasswordReset(ctx context.Context, input models.PasswordResetConfirm) Result[map[string]any]
	GetSettings(ctx context.Context) Result[models.UserSettings]
	UpdateSettings(ctx context.Context, settings models.UserSettings) Result[models.UserSettings]

	SearchUsers(ctx context.Context, filter Filter) Result[models.Page[models.User]]
	GetUsersByRole(ctx context.Context, role models.UserRole, filter Filter) Result[models.Page[models.User]]
	GetUserActivity(ctx context.Context, userID int64, filter Filter) Result[models.Page[models.Activity]]
	GetUserStatistics(ctx context.Context) Result[map[string]any]
	UpdateUserRole(ctx context.Context, userID int64, role models.UserRole) Result[models.User]
	GetAvailableRoles(ctx context.Context) Result[[]RoleOption]
}

type userService struct {
	client *apiclient.Client
}

func NewUserService(client *apiclient.Client) UserService {
	return &userService{client: client}
}

func userPath(userID int64) string {
	return "/auth/users/" + id(userID) + "/"
}

func (s *userService) GetUsers(ctx context.Context, filter Filter) Result[models.Page[models.User]] {
	return fetch[models.Page[models.User]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/auth/users/", apiclient.WithParams(filter))
	})
}

func (s *userService) GetUser(ctx context.Context, userID int64) Result[models.User] {
	return fetch[models.User](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, userPath(userID))
	})
}

func (s *userService) CreateUser(ctx context.Context, input models.UserInput) Result[models.User] {
	return fetch[models.User](ctx, s.client, "User created successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/auth/users/", input)
	})
}

func (s *userService) UpdateUser(ctx context.Context, userID int64, input models.UserInput) Result[models.User] {
	return fetch[models.User](ctx, s.client, "User updated successfully", func() (*apiclient.Response, error) {
		return s.client.Put(ctx, userPath(userID), input)
	})
}

func (s *userService) PatchUser(ctx context.Context, userID int64, fields map[string]any) Result[models.User] {
	return fetch[models.User](ctx, s.client, "User updated successfully", func() (*apiclient.Response, error) {
		return s.client.Patch(ctx, userPath(userID), fields)
	})
}

func (s *userService) DeleteUser(ctx context.Context, userID int64) Result[NoContent] {
	return exec(ctx, s.client, "User deleted successfully", func() (*apiclient.Response, error) {
		return s.client.Delete(ctx, userPath(userID))
	})
}

func (s *userService) BulkDeleteUsers(ctx context.Context, userIDs []int64) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/auth/users/bulk-delete/", map[string]any{"user_ids": userIDs})
	})
}

func (s *userService) GetProfile(ctx context.Context) Result[models.User] {
	return fetch[models.User](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/auth/profile/")
	})
}

func (s *userService) UpdateProfile(ctx context.Context, input models.ProfileInput) Result[models.User] {
	return fetch[models.User](ctx, s.client, "Profile updated successfully", func() (*apiclient.Response, error) {
		return s.client.Put(ctx, "/auth/profile/", input)
	})
}

func (s *userService) UploadAvatar(ctx context.Context, filename string, avatar io.Reader) Result[map[string]any] {
	form := apiclient.NewMultipart()
	if err := form.AddFile("avatar", filename, avatar); err != nil {
		return Result[map[string]any]{Error: "Could not read the selected file."}
	}
	return fetch[map[string]any](ctx, s.client, "Avatar uploaded successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/auth/profile/avatar/", form)
	})
}

func (s *userService) RemoveAvatar(ctx context.Context) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "Avatar removed successfully", func() (*apiclient.Response, error) {
		return s.client.Delete(ctx, "/auth/profile/avatar/")
	})
}

func (s *userService) ChangePassword(ctx context.Context, input models.PasswordChange) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "Password changed successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/auth/change-password/", input)
	})
}

func (s *userService) RequestPasswordReset(ctx context.Context, email string) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "Password reset email sent", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/auth/password-reset/", map[string]string{"email": email})
	})
}

func (s *userService) ConfirmPasswordReset(ctx context.Context, input models.PasswordResetConfirm) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "Password reset successfully", func() (*apiclient.Response, error) {
		return s.client.Post(ctx, "/auth/password-reset-confirm/", input)
	})
}

func (s *userService) GetSettings(ctx context.Context) Result[models.UserSettings] {
	return fetch[models.UserSettings](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/auth/settings/")
	})
}

func (s *userService) UpdateSettings(ctx context.Context, settings models.UserSettings) Result[models.UserSettings] {
	return fetch[models.UserSettings](ctx, s.client, "Settings updated successfully", func() (*apiclient.Response, error) {
		return s.client.Put(ctx, "/auth/settings/", settings)
	})
}

func (s *userService) SearchUsers(ctx context.Context, filter Filter) Result[models.Page[models.User]] {
	return fetch[models.Page[models.User]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/auth/users/search/", apiclient.WithParams(filter))
	})
}

func (s *userService) GetUsersByRole(ctx context.Context, role models.UserRole, filter Filter) Result[models.Page[models.User]] {
	params := make(Filter, len(filter)+1)
	for k, v := range filter {
		params[k] = v
	}
	params["role"] = string(role)
	return s.GetUsers(ctx, params)
}

// GetUserActivity reads another user's activity, or the caller's own when userID is 0.
func (s *userService) GetUserActivity(ctx context.Context, userID int64, filter Filter) Result[models.Page[models.Activity]] {
	path := "/auth/profile/activity/"
	if userID > 0 {
		path = userPath(userID) + "activity/"
	}
	return fetch[models.Page[models.Activity]](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, path, apiclient.WithParams(filter))
	})
}

func (s *userService) GetUserStatistics(ctx context.Context) Result[map[string]any] {
	return fetch[map[string]any](ctx, s.client, "", func() (*apiclient.Response, error) {
		return s.client.Get(ctx, "/auth/users/statistics/")
	})
}

func (s *userService) UpdateUserRole(ctx context.Context, userID int64, role models.UserRole) Result[models.User] {
	return fetch[models.User](ctx, s.client, "Role updated successfully", func() (*apiclient.Response, error) {
		return s.client.Patch(ctx, userPath(userID)+"role/", map[string]string{"role": string(role)})
	})
}

// GetAvailableRoles lists the backend's fixed role choices without a request.
func (s *userService) GetAvailableRoles(ctx context.Context) Result[[]RoleOption] {
	roles := make([]RoleOption, 0, len(models.AllUserRoles))
	for _, role := range models.AllUserRoles {
		roles = append(roles, RoleOption{Value: role, Label: role.Label()})
	}
	return succeed(roles, "")
}
