package handlers

import (
	"net/http"

	"freeswitch-admin-console/internal/api/middleware"
	"freeswitch-admin-console/internal/logger"
	"freeswitch-admin-console/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	MsgCredentialsRequired = "Username and password are required"
	MsgPasswordsRequired   = "Current and new password are required"
	MsgPasswordChanged     = "Password changed"
	MsgTokenRefreshed      = "Session refreshed"
)

// AuthHandler serves sign-in, sign-out and the operator's profile
type AuthHandler struct{}

// NewAuthHandler creates a new auth handler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	console := middleware.ConsoleFrom(c)
	// A token the API rejects is cleared by Validate and the form is shown
	if console.Session.IsAuthenticated() && console.Validate(c.Request.Context()) == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	render(c, http.StatusOK, "login.html", "Sign in", gin.H{"Username": ""})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	console := middleware.ConsoleFrom(c)

	var creds session.Credentials
	if err := c.ShouldBind(&creds); err != nil {
		console.Session.SetError(MsgCredentialsRequired)
		render(c, http.StatusBadRequest, "login.html", "Sign in", gin.H{"Username": creds.Username})
		return
	}
	creds.Domain = emptyToNil(creds.Domain)

	if err := console.Session.Login(c.Request.Context(), creds); err != nil {
		render(c, failureStatus(err), "login.html", "Sign in", gin.H{"Username": creds.Username})
		return
	}
	if err := console.MarkValidated(); err != nil {
		logger.WithContext(c.Request.Context()).Warnf("Failed to mark session validated: %v", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout handles POST /logout. The local session ends even when the API
// cannot be reached.
func (h *AuthHandler) Logout(c *gin.Context) {
	console := middleware.ConsoleFrom(c)
	if err := console.Session.Logout(c.Request.Context()); err != nil {
		logger.WithContext(c.Request.Context()).Warnf("Failed to clear session: %v", err)
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

// Profile handles GET /profile
func (h *AuthHandler) Profile(c *gin.Context) {
	h.renderProfile(c, http.StatusOK)
}

// Refresh handles POST /profile/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	console := middleware.ConsoleFrom(c)
	err := console.Session.RefreshToken(c.Request.Context())
	if err == nil {
		console.Recorder.Info(MsgTokenRefreshed)
		if markErr := console.MarkValidated(); markErr != nil {
			logger.WithContext(c.Request.Context()).Warnf("Failed to mark session validated: %v", markErr)
		}
	}
	h.renderProfile(c, statusOf(err, http.StatusOK))
}

// ChangePassword handles POST /profile/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	console := middleware.ConsoleFrom(c)

	var req session.PasswordChange
	if err := c.ShouldBind(&req); err != nil {
		console.Session.SetError(MsgPasswordsRequired)
		h.renderProfile(c, http.StatusBadRequest)
		return
	}

	err := console.Session.ChangePassword(c.Request.Context(), req)
	if err == nil {
		console.Recorder.Info(MsgPasswordChanged)
	}
	h.renderProfile(c, statusOf(err, http.StatusOK))
}

func (h *AuthHandler) renderProfile(c *gin.Context, status int) {
	expiry, ok := middleware.ConsoleFrom(c).Session.TokenExpiry()
	render(c, status, "profile.html", "Profile", gin.H{
		"HasExpiry": ok,
		"Expiry":    expiry,
	})
}
