package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/services"
	"accommodation_portal/internal/web/flash"

	"github.com/gin-gonic/gin"
)

const usersPath = "/admin/users"

// UserFilter narrows the user list. It is applied to the fetched list, so
// filtering never costs another backend call.
type UserFilter struct {
	Search string `form:"search"`
	Role   string `form:"role"`
	Status string `form:"status"`
}

func (f UserFilter) Match(u models.User) bool {
	if f.Role != "" && string(u.Role) != f.Role {
		return false
	}
	switch f.Status {
	case "active":
		if !u.Active() {
			return false
		}
	case "inactive":
		if u.Active() {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		haystack := strings.ToLower(strings.Join([]string{u.DisplayName(), u.Username, u.Email}, " "))
		return strings.Contains(haystack, q)
	}
	return true
}

type UserHandler struct {
	*BaseHandler
}

func NewUserHandler(base *BaseHandler) *UserHandler {
	return &UserHandler{BaseHandler: base}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group(usersPath, middleware.RequireAuth(), middleware.RequireRoles(models.UserRoleSuperAdmin))
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.POST("/bulk-delete", h.BulkDelete)
		users.GET("/:id", h.Edit)
		users.POST("/:id", h.Update)
		users.POST("/:id/role", h.ChangeRole)
		users.POST("/:id/status", h.ChangeStatus)
		users.POST("/:id/delete", h.Delete)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, models.UserInput{Role: models.UserRoleMember}, nil)
}

func (h *UserHandler) renderList(c *gin.Context, status int, form models.UserInput, errs map[string]string) {
	ctx := c.Request.Context()
	svc := h.Services(c)

	var filter UserFilter
	_ = c.ShouldBindQuery(&filter)

	page := h.NewPage(c, "User Management")
	result := svc.Users.GetUsers(ctx, services.Filter{})
	if !result.Success {
		page.Alert = result.Error
	}

	users := make([]models.User, 0, len(result.Data.Results))
	for _, u := range result.Data.Results {
		if filter.Match(u) {
			users = append(users, u)
		}
	}

	form.Password = ""
	page.Form = form
	page.Errors = errs
	page.With("Filter", filter).
		With("Roles", h.roles(c)).
		With("Users", users).
		With("Total", len(result.Data.Results))
	h.Render(c, status, "admin_users.html", page)
}

// roles falls back to the built-in role list when the backend cannot list them.
func (h *UserHandler) roles(c *gin.Context) []services.RoleOption {
	if result := h.Services(c).Users.GetAvailableRoles(c.Request.Context()); result.Success && len(result.Data) > 0 {
		return result.Data
	}
	options := make([]services.RoleOption, 0, len(models.AllUserRoles))
	for _, role := range models.AllUserRoles {
		options = append(options, services.RoleOption{Value: role, Label: role.Label()})
	}
	return options
}

func (h *UserHandler) Create(c *gin.Context) {
	var input models.UserInput
	if errs, ok := h.BindAndValidate_Form(c, &input); !ok {
		h.renderList(c, http.StatusUnprocessableEntity, input, errs)
		return
	}
	input.ServiceUnit = nilIfZero(input.ServiceUnit)

	result := h.Services(c).Users.CreateUser(c.Request.Context(), input)
	if !result.Success {
		h.renderList(c, http.StatusBadRequest, input, failureErrors(result))
		return
	}
	h.notify(c, models.NotificationTypeUser, "User created",
		fmt.Sprintf("%s was added as %s", result.Data.DisplayName(), input.Role.Label()), userPath(result.Data.ID))
	h.Redirect(c, usersPath, resultNotice(result, "User created successfully"))
}

func (h *UserHandler) Edit(c *gin.Context) {
	userID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	result := h.Services(c).Users.GetUser(c.Request.Context(), userID)
	if !result.Success {
		h.Redirect(c, usersPath, flash.Error(result.Error))
		return
	}
	target := result.Data
	form := models.UserInput{
		Username:    target.Username,
		Email:       target.Email,
		FirstName:   target.FirstName,
		LastName:    target.LastName,
		PhoneNumber: target.PhoneNumber,
		Role:        target.Role,
	}
	if target.ServiceUnit != nil && !target.ServiceUnit.IsZero() {
		unitID := target.ServiceUnit.ID
		form.ServiceUnit = &unitID
	}
	h.renderEdit(c, http.StatusOK, target, form, nil)
}

func (h *UserHandler) renderEdit(c *gin.Context, status int, target models.User, form models.UserInput, errs map[string]string) {
	page := h.NewPage(c, target.DisplayName())
	page.Form = form
	page.Errors = errs

	var activity []models.Activity
	if result := h.Services(c).Users.GetUserActivity(c.Request.Context(), target.ID, services.Filter{"page_size": 10}); result.Success {
		activity = result.Data.Results
	}
	page.With("Target", target).
		With("Roles", h.roles(c)).
		With("Activity", activity)
	h.Render(c, status, "user_edit.html", page)
}

func (h *UserHandler) Update(c *gin.Context) {
	userID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	svc := h.Services(c)

	var input models.UserInput
	if errs, ok := h.BindAndValidate_Form(c, &input); !ok {
		h.renderEdit(c, http.StatusUnprocessableEntity, models.User{ID: userID, Email: input.Email}, input, errs)
		return
	}
	input.ServiceUnit = nilIfZero(input.ServiceUnit)
	input.Password = ""

	result := svc.Users.UpdateUser(c.Request.Context(), userID, input)
	if !result.Success {
		h.renderEdit(c, http.StatusBadRequest, models.User{ID: userID, Email: input.Email}, input, failureErrors(result))
		return
	}
	h.Redirect(c, userPath(userID), resultNotice(result, "User updated successfully"))
}

func (h *UserHandler) ChangeRole(c *gin.Context) {
	userID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	role := models.UserRole(c.PostForm("role"))
	if !role.Valid() {
		h.Redirect(c, usersPath, flash.Error("Unknown role"))
		return
	}
	result := h.Services(c).Users.UpdateUserRole(c.Request.Context(), userID, role)
	if result.Success {
		h.notify(c, models.NotificationTypeUser, "Role changed",
			fmt.Sprintf("%s is now %s", result.Data.DisplayName(), role.Label()), userPath(userID))
	}
	h.Redirect(c, usersPath, resultNotice(result, "Role updated successfully"))
}

func (h *UserHandler) ChangeStatus(c *gin.Context) {
	userID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	active, err := strconv.ParseBool(c.PostForm("active"))
	if err != nil {
		h.Redirect(c, usersPath, flash.Error("Invalid status"))
		return
	}
	if !active && h.isSelf(c, userID) {
		h.Redirect(c, usersPath, flash.Error("You cannot deactivate your own account"))
		return
	}
	result := h.Services(c).Users.PatchUser(c.Request.Context(), userID, map[string]any{"is_active": active})
	message := "User deactivated"
	if active {
		message = "User activated"
	}
	h.Redirect(c, usersPath, resultNotice(result, message))
}

func (h *UserHandler) Delete(c *gin.Context) {
	userID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if h.isSelf(c, userID) {
		h.Redirect(c, usersPath, flash.Error("You cannot delete your own account"))
		return
	}
	result := h.Services(c).Users.DeleteUser(c.Request.Context(), userID)
	h.Redirect(c, usersPath, resultNotice(result, "User deleted successfully"))
}

func (h *UserHandler) BulkDelete(c *gin.Context) {
	ids := ParseIDs(c, "user_ids")
	if current := h.CurrentUser(c); current != nil {
		ids = removeID(ids, current.ID)
	}
	if len(ids) == 0 {
		h.Redirect(c, usersPath, missingSelection("user"))
		return
	}
	result := h.Services(c).Users.BulkDeleteUsers(c.Request.Context(), ids)
	h.Redirect(c, usersPath, resultNotice(result, fmt.Sprintf("%d users deleted", len(ids))))
}

func (h *UserHandler) isSelf(c *gin.Context, userID int64) bool {
	current := h.CurrentUser(c)
	return current != nil && current.ID == userID
}

func userPath(userID int64) string {
	return fmt.Sprintf("%s/%d", usersPath, userID)
}

func removeID(ids []int64, drop int64) []int64 {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
