package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"accommodation_portal/internal/models"
	"accommodation_portal/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUsersByRoleMergesFilter(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Reply(http.MethodGet, "/auth/users/", http.StatusOK, obj{"count": 0, "results": []obj{}})
	svc := NewUserService(backend.Client(testutil.NewMemStorage(nil), nil))

	res := svc.GetUsersByRole(context.Background(), models.UserRolePastor, Filter{"page": 2})

	require.True(t, res.Success)
	assert.Equal(t, "page=2&role=Pastor", backend.Last(t).Query)
}

func TestGetUserActivityPath(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Reply(http.MethodGet, "/auth/profile/activity/", http.StatusOK, []obj{})
	backend.Reply(http.MethodGet, "/auth/users/7/activity/", http.StatusOK, []obj{})
	svc := NewUserService(backend.Client(testutil.NewMemStorage(nil), nil))

	require.True(t, svc.GetUserActivity(context.Background(), 0, nil).Success)
	assert.Equal(t, "/api/auth/profile/activity/", backend.Last(t).Path)

	require.True(t, svc.GetUserActivity(context.Background(), 7, nil).Success)
	assert.Equal(t, "/api/auth/users/7/activity/", backend.Last(t).Path)
}

func TestUploadAvatarUsesMultipart(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Reply(http.MethodPost, "/auth/profile/avatar/", http.StatusOK, obj{"avatar_url": "/media/a.png"})
	svc := NewUserService(backend.Client(testutil.NewMemStorage(nil), nil))

	res := svc.UploadAvatar(context.Background(), "a.png", strings.NewReader("png"))

	require.True(t, res.Success)
	assert.Equal(t, "/media/a.png", res.Data["avatar_url"])
	assert.Contains(t, string(backend.Last(t).Body), `name="avatar"; filename="a.png"`)
}

func TestGetAvailableRolesIsStatic(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	svc := NewUserService(backend.Client(testutil.NewMemStorage(nil), nil))

	res := svc.GetAvailableRoles(context.Background())

	require.True(t, res.Success)
	require.Len(t, res.Data, 4)
	assert.Equal(t, RoleOption{Value: models.UserRoleServiceUnitAdmin, Label: "Service Unit Admin"}, res.Data[1])
	assert.Empty(t, backend.Requests())
}

func TestUpdateUserRole(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Reply(http.MethodPatch, "/auth/users/3/role/", http.StatusOK, obj{"id": 3, "role": "Pastor"})
	svc := NewUserService(backend.Client(testutil.NewMemStorage(nil), nil))

	res := svc.UpdateUserRole(context.Background(), 3, models.UserRolePastor)

	require.True(t, res.Success)
	assert.Equal(t, "Pastor", backend.Last(t).JSON(t)["role"])
}
