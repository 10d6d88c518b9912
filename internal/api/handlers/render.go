package handlers

import (
	"net/http"

	"freeswitch-admin-console/internal/api/middleware"
	apperrors "freeswitch-admin-console/internal/errors"
	"freeswitch-admin-console/internal/freeswitch"

	"github.com/gin-gonic/gin"
)

// render writes a page with the session, tenant and messages of the request
// merged into data.
func render(c *gin.Context, status int, name, title string, data gin.H) {
	console := middleware.ConsoleFrom(c)
	page := gin.H{
		"Title":    title,
		"Session":  console.Session.Snapshot(),
		"Tenant":   console.Tenant.Snapshot(),
		"Messages": console.Recorder.Messages(),
	}
	for k, v := range data {
		page[k] = v
	}
	c.HTML(status, name, page)
}

// failureStatus maps a failed remote call onto the status of the page
// reporting it. Rejections keep the API's status; anything the API could not
// answer is a bad gateway.
func failureStatus(err error) int {
	if status := apperrors.StatusCode(err); status >= 400 && status < 500 {
		return status
	}
	switch {
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsAuthentication(err):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

// statusOf returns ok when err is nil
func statusOf(err error, ok int) int {
	if err != nil {
		return failureStatus(err)
	}
	return ok
}

// domainNames indexes domain names by uuid for the resource tables
func domainNames(domains []freeswitch.Domain) map[string]string {
	names := make(map[string]string, len(domains))
	for _, d := range domains {
		names[d.DomainUUID] = d.DomainName
	}
	return names
}

// emptyToNil drops a submitted field left blank
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
