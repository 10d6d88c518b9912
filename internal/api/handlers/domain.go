package handlers

import (
	"net/http"

	"freeswitch-admin-console/internal/api/middleware"
	"freeswitch-admin-console/internal/freeswitch"
	"freeswitch-admin-console/internal/views"

	"github.com/gin-gonic/gin"
)

// DomainHandler serves the domain table and its create/edit form
type DomainHandler struct{}

// NewDomainHandler creates a new domain handler
func NewDomainHandler() *DomainHandler {
	return &DomainHandler{}
}

func (h *DomainHandler) load(c *gin.Context) (*views.DomainList, error) {
	console := middleware.ConsoleFrom(c)
	list := views.NewDomainList(console.API, console.Recorder)
	return list, list.Load(c.Request.Context())
}

// List handles GET /domains. ?edit=<id> opens the form on that domain.
func (h *DomainHandler) List(c *gin.Context) {
	list, err := h.load(c)
	h.render(c, statusOf(err, http.StatusOK), list, c.Query("edit"))
}

// Create handles POST /domains
func (h *DomainHandler) Create(c *gin.Context) {
	list, _ := h.load(c)

	var form freeswitch.DomainCreate
	if err := c.ShouldBind(&form); err != nil {
		middleware.ConsoleFrom(c).Recorder.Error("Invalid form: " + err.Error())
		h.render(c, http.StatusBadRequest, list, "")
		return
	}

	_, err := list.Create(c.Request.Context(), form)
	h.render(c, statusOf(err, http.StatusOK), list, "")
}

// Update handles POST /domains/:id. A rejected update keeps the form open.
func (h *DomainHandler) Update(c *gin.Context) {
	id := c.Param("id")
	list, _ := h.load(c)

	var form freeswitch.DomainUpdate
	if err := c.ShouldBind(&form); err != nil {
		middleware.ConsoleFrom(c).Recorder.Error("Invalid form: " + err.Error())
		h.render(c, http.StatusBadRequest, list, id)
		return
	}

	if _, err := list.Update(c.Request.Context(), id, form); err != nil {
		h.render(c, failureStatus(err), list, id)
		return
	}
	h.render(c, http.StatusOK, list, "")
}

// Delete handles POST /domains/:id/delete
func (h *DomainHandler) Delete(c *gin.Context) {
	list, _ := h.load(c)
	err := list.Delete(c.Request.Context(), c.Param("id"))
	h.render(c, statusOf(err, http.StatusOK), list, "")
}

func (h *DomainHandler) render(c *gin.Context, status int, list *views.DomainList, editID string) {
	var edit *freeswitch.Domain
	if editID != "" {
		if d, ok := list.Find(editID); ok {
			edit = &d
		}
	}
	render(c, status, "domains.html", "Domains", gin.H{
		"Items": list.Items(),
		"Edit":  edit,
	})
}
