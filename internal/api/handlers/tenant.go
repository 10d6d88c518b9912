package handlers

import (
	"net/http"
	"strconv"

	"freeswitch-admin-console/internal/api/middleware"
	apperrors "freeswitch-admin-console/internal/errors"

	"github.com/gin-gonic/gin"
)

// TenantHandler lists tenants and switches the active one
type TenantHandler struct{}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler() *TenantHandler {
	return &TenantHandler{}
}

// List handles GET /tenants
func (h *TenantHandler) List(c *gin.Context) {
	console := middleware.ConsoleFrom(c)
	err := console.Tenant.FetchTenants(c.Request.Context())
	render(c, statusOf(err, http.StatusOK), "tenants.html", "Tenants", nil)
}

// Select handles POST /tenants/select. Every page is scoped by the tenant,
// so a successful switch starts over from the dashboard.
func (h *TenantHandler) Select(c *gin.Context) {
	console := middleware.ConsoleFrom(c)
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.PostForm("tenant_id"), 10, 64)
	if err != nil {
		err = apperrors.ErrInvalidTenantID
	} else if err = console.Tenant.FetchTenants(ctx); err == nil {
		err = console.Tenant.SelectByID(ctx, id)
	}
	if err != nil {
		if apperrors.StatusCode(err) == 0 {
			console.Recorder.Error("Failed to select tenant: " + err.Error())
		}
		render(c, failureStatus(err), "tenants.html", "Tenants", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Clear handles POST /tenants/clear
func (h *TenantHandler) Clear(c *gin.Context) {
	console := middleware.ConsoleFrom(c)
	if err := console.Tenant.Clear(c.Request.Context()); err != nil {
		console.Recorder.Error("Failed to clear tenant: " + err.Error())
		render(c, http.StatusInternalServerError, "tenants.html", "Tenants", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
