package handlers

import (
	"net/http"
	"slices"
	"strings"

	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/web/flash"

	"github.com/gin-gonic/gin"
)

const (
	profilePath  = "/profile"
	settingsPath = "/settings"

	maxAvatarSize = 2 << 20
)

var (
	languages = []string{"en", "fr"}
	themes    = []string{"light", "dark"}
)

type ProfileHandler struct {
	*BaseHandler
}

func NewProfileHandler(base *BaseHandler) *ProfileHandler {
	return &ProfileHandler{BaseHandler: base}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	authed := r.Group("", middleware.RequireAuth())
	{
		authed.GET(profilePath, h.Profile)
		authed.POST(profilePath, h.UpdateProfile)
		authed.POST(profilePath+"/avatar", h.UploadAvatar)
		authed.POST(profilePath+"/avatar/delete", h.RemoveAvatar)
		authed.POST(profilePath+"/password", h.ChangePassword)
		authed.GET(settingsPath, h.Settings)
		authed.POST(settingsPath, h.UpdateSettings)
	}
}

func (h *ProfileHandler) Profile(c *gin.Context) {
	h.renderProfile(c, http.StatusOK, nil, nil)
}

// renderProfile shows the backend profile, falling back to the stored user.
func (h *ProfileHandler) renderProfile(c *gin.Context, status int, form *models.ProfileInput, errs map[string]string) {
	profile := h.CurrentUser(c)
	page := h.NewPage(c, "My Profile")

	if result := h.Services(c).Users.GetProfile(c.Request.Context()); result.Success {
		profile = &result.Data
	} else {
		page.Alert = result.Error
	}
	if form == nil {
		form = &models.ProfileInput{
			FirstName:   profile.FirstName,
			LastName:    profile.LastName,
			Email:       profile.Email,
			PhoneNumber: profile.PhoneNumber,
		}
	}
	page.Form = *form
	page.Errors = errs
	page.With("Profile", profile)
	h.Render(c, status, "profile.html", page)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var input models.ProfileInput
	if errs, ok := h.BindAndValidate_Form(c, &input); !ok {
		h.renderProfile(c, http.StatusUnprocessableEntity, &input, errs)
		return
	}
	result := h.Services(c).Users.UpdateProfile(c.Request.Context(), input)
	if !result.Success {
		h.renderProfile(c, http.StatusBadRequest, &input, failureErrors(result))
		return
	}
	h.refreshStoredUser(c)
	h.Redirect(c, profilePath, resultNotice(result, "Profile updated successfully"))
}

// refreshStoredUser reloads the user kept in the session so the header shows
// the new details.
func (h *ProfileHandler) refreshStoredUser(c *gin.Context) {
	if result := h.Services(c).Auth.GetCurrentUser(c.Request.Context()); !result.Success {
		logger.CtxWarn(c.Request.Context(), "could not refresh stored user", "error", result.Error)
	}
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		h.Redirect(c, profilePath, flash.Warning("Choose an image to upload"))
		return
	}
	if fh.Size > maxAvatarSize {
		h.Redirect(c, profilePath, flash.Error("Avatar must be 2 MB or smaller"))
		return
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		h.Redirect(c, profilePath, flash.Error("Avatar must be an image"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer f.Close()

	result := h.Services(c).Users.UploadAvatar(c.Request.Context(), fh.Filename, f)
	if result.Success {
		h.refreshStoredUser(c)
	}
	h.Redirect(c, profilePath, resultNotice(result, "Avatar uploaded successfully"))
}

func (h *ProfileHandler) RemoveAvatar(c *gin.Context) {
	result := h.Services(c).Users.RemoveAvatar(c.Request.Context())
	if result.Success {
		h.refreshStoredUser(c)
	}
	h.Redirect(c, profilePath, resultNotice(result, "Avatar removed successfully"))
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var input models.PasswordChange
	if errs, ok := h.BindAndValidate_Form(c, &input); !ok {
		h.renderProfile(c, http.StatusUnprocessableEntity, nil, errs)
		return
	}
	result := h.Services(c).Users.ChangePassword(c.Request.Context(), input)
	if !result.Success {
		h.renderProfile(c, http.StatusBadRequest, nil, failureErrors(result))
		return
	}
	h.notify(c, models.NotificationTypeUser, "Password changed", "Your password was changed", profilePath)
	h.Redirect(c, profilePath, resultNotice(result, "Password changed successfully"))
}

func (h *ProfileHandler) Settings(c *gin.Context) {
	page := h.NewPage(c, "Settings")
	settings := models.UserSettings{EmailNotifications: true, Language: languages[0], Theme: themes[0]}
	if result := h.Services(c).Users.GetSettings(c.Request.Context()); result.Success {
		settings = withDefaultSettings(result.Data)
	} else {
		page.Alert = result.Error
	}
	page.Form = settings
	h.Render(c, http.StatusOK, "settings.html", page)
}

func (h *ProfileHandler) UpdateSettings(c *gin.Context) {
	var settings models.UserSettings
	if errs, ok := h.BindAndValidate_Form(c, &settings); !ok {
		h.Redirect(c, settingsPath, flash.Error(firstError(errs)))
		return
	}
	settings = withDefaultSettings(settings)
	result := h.Services(c).Users.UpdateSettings(c.Request.Context(), settings)
	h.Redirect(c, settingsPath, resultNotice(result, "Settings updated successfully"))
}

// withDefaultSettings replaces unknown languages and themes with the defaults.
func withDefaultSettings(s models.UserSettings) models.UserSettings {
	if !slices.Contains(languages, s.Language) {
		s.Language = languages[0]
	}
	if !slices.Contains(themes, s.Theme) {
		s.Theme = themes[0]
	}
	return s
}
