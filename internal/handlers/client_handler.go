package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/middleware"
	"expensetracker/internal/services"
)

const (
	loginPage    = "login.html"
	registerPage = "register.html"
)

// ClientHandler handles login, registration and logout.
type ClientHandler struct {
	clientService services.ClientServicer
	sessions      *middleware.SessionManager
	auditService  services.AuditServicer
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService services.ClientServicer, sessions *middleware.SessionManager, auditService services.AuditServicer) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		sessions:      sessions,
		auditService:  auditService,
	}
}

// LoginForm represents the login form.
type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// RegisterForm represents the registration form.
type RegisterForm struct {
	UserName string `form:"userName" binding:"max=100"`
	Email    string `form:"email" binding:"required,email,max=255"`
	Password string `form:"password" binding:"required,min=8,max=128"`
}

// ShowLogin renders the login page, or the start page when already logged in.
func (h *ClientHandler) ShowLogin(c *gin.Context) {
	if _, ok := middleware.ClientFromContext(c); ok {
		redirect(c, "/")
		return
	}
	render(c, http.StatusOK, loginPage, "Log in", nil)
}

// ProcessLogin verifies credentials and starts a session.
func (h *ClientHandler) ProcessLogin(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, loginPage, "Log in", gin.H{"email": form.Email, "error": bindingMessage(err)})
		return
	}

	client, err := h.clientService.AttemptLogin(form.Email, form.Password)
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrInvalidCredentials):
			render(c, http.StatusUnauthorized, loginPage, "Log in", gin.H{"email": form.Email, "error": errorMessage(err)})
		case apperrors.Is(err, apperrors.ErrAccountLocked):
			render(c, http.StatusLocked, loginPage, "Log in", gin.H{"email": form.Email, "error": errorMessage(err)})
		default:
			respondWithError(c, err)
		}
		return
	}

	if err := h.sessions.Start(c, client); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(client.ID, services.AuditLogin, services.ResourceClient, client.ID, c.ClientIP(), nil)

	redirect(c, "/")
}

// ShowRegister renders the registration page.
func (h *ClientHandler) ShowRegister(c *gin.Context) {
	if _, ok := middleware.ClientFromContext(c); ok {
		redirect(c, "/")
		return
	}
	render(c, http.StatusOK, registerPage, "Register", nil)
}

// ProcessRegister creates a client account and logs it in.
func (h *ClientHandler) ProcessRegister(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderRegister(c, http.StatusBadRequest, form, bindingMessage(err))
		return
	}

	client, err := h.clientService.RegisterClient(form.UserName, form.Email, form.Password)
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrDuplicateEmail):
			h.renderRegister(c, http.StatusConflict, form, errorMessage(err))
		case apperrors.Is(err, apperrors.ErrInvalidInput):
			h.renderRegister(c, http.StatusBadRequest, form, errorMessage(err))
		default:
			respondWithError(c, err)
		}
		return
	}

	if err := h.sessions.Start(c, client); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(client.ID, services.AuditRegisterClient, services.ResourceClient, client.ID, c.ClientIP(),
		map[string]interface{}{"email": client.Email})

	redirect(c, "/")
}

// Logout clears the session and redirects to the login page.
func (h *ClientHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	redirect(c, middleware.LoginPath)
}

func (h *ClientHandler) renderRegister(c *gin.Context, status int, form RegisterForm, errMsg string) {
	render(c, status, registerPage, "Register", gin.H{
		"userName": form.UserName,
		"email":    form.Email,
		"error":    errMsg,
	})
}
