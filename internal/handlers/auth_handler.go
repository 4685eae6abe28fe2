package handlers

import (
	"net/http"
	"strings"

	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/web/flash"

	"github.com/gin-gonic/gin"
)

const dashboardPath = "/dashboard"

type AuthHandler struct {
	*BaseHandler
}

func NewAuthHandler(base *BaseHandler) *AuthHandler {
	return &AuthHandler{BaseHandler: base}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.Home)

	auth := r.Group("/auth")
	{
		auth.GET("/login", h.LoginPage)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/forgot-password", h.ForgotPasswordPage)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
	}

	r.GET("/login", h.LoginAlias)
	r.GET("/register", func(c *gin.Context) { c.Redirect(http.StatusMovedPermanently, "/signup") })
	for _, path := range []string{"/signup", "/create-account"} {
		r.GET(path, h.SignupPage)
		r.POST(path, h.Signup)
	}
}

func (h *AuthHandler) Home(c *gin.Context) {
	if middleware.HasStoredUser(c) {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	h.Render(c, http.StatusOK, "home.html", h.NewPage(c, "Welcome"))
}

// LoginAlias forwards /login to the login form, keeping the query (the from parameter).
func (h *AuthHandler) LoginAlias(c *gin.Context) {
	target := "/auth/login"
	if q := c.Request.URL.RawQuery; q != "" {
		target += "?" + q
	}
	c.Redirect(http.StatusFound, target)
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	from := safeRedirect(c.Query("from"))
	if middleware.HasStoredUser(c) {
		c.Redirect(http.StatusFound, from)
		return
	}
	h.renderLogin(c, http.StatusOK, models.LoginRequest{}, nil, from)
}

func (h *AuthHandler) Login(c *gin.Context) {
	from := safeRedirect(c.PostForm("from"))

	var req models.LoginRequest
	if errs, ok := h.BindAndValidate_Form(c, &req); !ok {
		h.renderLogin(c, http.StatusUnprocessableEntity, req, errs, from)
		return
	}

	result := h.Services(c).Auth.Login(c.Request.Context(), req)
	if !result.Success {
		logger.CtxInfo(c.Request.Context(), "login rejected", "status", result.Status)
		h.renderLogin(c, http.StatusUnauthorized, req, failureErrors(result), from)
		return
	}

	name := req.Email
	if result.Data.User != nil {
		name = result.Data.User.DisplayName()
	}
	h.Redirect(c, from, flash.Success("Welcome back, "+name))
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, form models.LoginRequest, errs map[string]string, from string) {
	form.Password = ""
	page := h.NewPage(c, "Sign in")
	page.Form = form
	page.Errors = errs
	page.With("From", from)
	c.HTML(status, "login.html", page)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	result := h.Services(c).Auth.Logout(c.Request.Context())
	if err := middleware.EndSession(c); err != nil {
		logger.CtxWithError(c.Request.Context(), "failed to end session on logout", err)
	}
	flash.Write(c.Writer, c.Request, flash.Success(result.Message))
	c.Redirect(http.StatusSeeOther, "/auth/login")
}

func (h *AuthHandler) SignupPage(c *gin.Context) {
	if middleware.HasStoredUser(c) {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	h.renderSignup(c, http.StatusOK, models.RegisterRequest{}, nil)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.RegisterRequest
	if errs, ok := h.BindAndValidate_Form(c, &req); !ok {
		h.renderSignup(c, http.StatusUnprocessableEntity, req, errs)
		return
	}

	result := h.Services(c).Auth.Register(c.Request.Context(), req)
	if !result.Success {
		h.renderSignup(c, http.StatusBadRequest, req, failureErrors(result))
		return
	}
	h.Redirect(c, "/auth/login", flash.Success(result.Message+". Please sign in."))
}

func (h *AuthHandler) renderSignup(c *gin.Context, status int, form models.RegisterRequest, errs map[string]string) {
	form.Password, form.PasswordConfirm = "", ""
	page := h.NewPage(c, "Create account")
	page.Form = form
	page.Errors = errs
	c.HTML(status, "signup.html", page)
}

func (h *AuthHandler) ForgotPasswordPage(c *gin.Context) {
	h.Render(c, http.StatusOK, "forgot_password.html", h.NewPage(c, "Reset password"))
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	page := h.NewPage(c, "Reset password")
	page.With("Email", email)
	if email == "" {
		page.Errors = map[string]string{"email": "This field is required"}
		c.HTML(http.StatusUnprocessableEntity, "forgot_password.html", page)
		return
	}

	result := h.Services(c).Auth.RequestPasswordReset(c.Request.Context(), email)
	if !result.Success && result.Status != http.StatusNotFound {
		page.Errors = failureErrors(result)
		c.HTML(http.StatusBadRequest, "forgot_password.html", page)
		return
	}
	// A missing account is reported like a sent mail.
	page.With("Sent", true)
	c.HTML(http.StatusOK, "forgot_password.html", page)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.PasswordResetConfirm
	if errs, ok := h.BindAndValidate_Form(c, &req); !ok {
		page := h.NewPage(c, "Reset password")
		page.Errors = errs
		c.HTML(http.StatusUnprocessableEntity, "forgot_password.html", page)
		return
	}

	result := h.Services(c).Auth.ConfirmPasswordReset(c.Request.Context(), req)
	if !result.Success {
		page := h.NewPage(c, "Reset password")
		page.Errors = failureErrors(result)
		c.HTML(http.StatusBadRequest, "forgot_password.html", page)
		return
	}
	h.Redirect(c, "/auth/login", flash.Success("Password updated. Please sign in."))
}

// safeRedirect only allows local paths, defaulting to the dashboard.
func safeRedirect(target string) string {
	target = strings.TrimSpace(target)
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return dashboardPath
	}
	if strings.HasPrefix(target, "/auth/") || target == "/login" {
		return dashboardPath
	}
	return target
}
