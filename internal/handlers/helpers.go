package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/middleware"
	"expensetracker/internal/money"
)

// sessionClient extracts the authenticated client from the Gin context.
// Returns ErrUnauthorized if not present.
func sessionClient(c *gin.Context) (*middleware.SessionClient, error) {
	client, ok := middleware.ClientFromContext(c)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	return client, nil
}

// requireClient returns the session client or redirects to the login page.
// ok is false when the request has already been answered.
func requireClient(c *gin.Context) (*middleware.SessionClient, bool) {
	client, err := sessionClient(c)
	if err != nil {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		c.Abort()
		return nil, false
	}
	return client, true
}

// parseExpenseID parses the expId query parameter.
// Returns ErrInvalidInput if it is not a valid positive integer.
func parseExpenseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Query("expId"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid expId")
	}
	return uint(id), nil
}

// render writes an HTML page, adding the page title and the session client
// for the shared layout.
func render(c *gin.Context, status int, page, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	if client, ok := middleware.ClientFromContext(c); ok {
		data["sessionClient"] = client
	}
	c.HTML(status, page, data)
}

// redirect answers with a 302 to path.
func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusFound, path)
}

// respondWithError records err on the context for middleware.ErrorHandler,
// which renders the error page, and stops the handler chain.
func respondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// errorMessage returns the user-facing message of an AppError, or a generic
// message for anything else.
func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return apperrors.ErrInternalServer.Message
}

// bindingMessage turns a form binding error into a readable message.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid form data"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "iso_datetime":
		return fmt.Sprintf("%s must look like 2024-01-05T09:00", fe.Field())
	case "money_amount":
		return fmt.Sprintf("%s must be a positive number with at most two decimals, up to %s", fe.Field(), money.Format(money.MaxCents))
	case "category_name":
		return fmt.Sprintf("%s is not a valid category name", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
