package apperrors

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrorTemplate is the HTML template rendered for page requests that fail.
const ErrorTemplate = "error.html"

type ErrorResponse struct {
	Error *AppError `json:"error"`
}

type GinErrorHandler struct {
	Debug bool
}

// HandleGinError writes err as JSON when the client asked for JSON and as the error page otherwise.
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}
	if appErr.HTTPCode >= 500 {
		slog.Error("server error", "error", err.Error(), "path", c.Request.URL.Path)
		if !h.Debug {
			appErr = appErr.WithDetails(nil)
		}
	}

	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
		return
	}

	c.HTML(appErr.HTTPCode, ErrorTemplate, gin.H{
		"Title": "Error",
		"Error": appErr,
	})
	c.Abort()
}

func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: gin.Mode() != gin.ReleaseMode}
	handler.HandleGinError(c, err)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
