package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
)

// ErrorTemplate is the HTML template rendered for failed requests.
const ErrorTemplate = "error.html"

// ErrorHandler returns a Gin middleware that renders errors recorded on the
// Gin context as the error page. AppErrors keep their status and message;
// unexpected errors are logged and rendered as a generic internal error so
// details never reach the browser.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("app error",
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
					"request_id", RequestID(c),
				)
			}
			renderError(c, appErr)
			return
		}

		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", RequestID(c),
		)
		renderError(c, apperrors.ErrInternalServer)
	}
}

func renderError(c *gin.Context, appErr *apperrors.AppError) {
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	data := gin.H{
		"title":   "Error",
		"code":    appErr.Code,
		"message": appErr.Message,
		"status":  status,
	}
	if client, ok := ClientFromContext(c); ok {
		data["sessionClient"] = client
	}
	c.HTML(status, ErrorTemplate, data)
}
