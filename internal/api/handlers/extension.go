package handlers

import (
	"net/http"

	"freeswitch-admin-console/internal/api/middleware"
	"freeswitch-admin-console/internal/freeswitch"
	"freeswitch-admin-console/internal/views"

	"github.com/gin-gonic/gin"
)

// ExtensionHandler serves the extension table and its create/edit form.
// The form posts every field it shows; blank fields are pruned so they leave
// the stored values untouched.
type ExtensionHandler struct{}

// NewExtensionHandler creates a new extension handler
func NewExtensionHandler() *ExtensionHandler {
	return &ExtensionHandler{}
}

type extensionPage struct {
	list    *views.ExtensionList
	domains *views.DomainList
}

func (h *ExtensionHandler) load(c *gin.Context) (extensionPage, error) {
	console := middleware.ConsoleFrom(c)
	ctx := c.Request.Context()

	p := extensionPage{
		list:    views.NewExtensionList(console.API, console.Recorder),
		domains: views.NewDomainList(console.API, console.Recorder),
	}
	err := p.list.Load(ctx)
	_ = p.domains.Load(ctx)
	return p, err
}

// List handles GET /extensions. ?edit=<id> opens the form on that extension
// together with its settings.
func (h *ExtensionHandler) List(c *gin.Context) {
	p, err := h.load(c)
	h.render(c, statusOf(err, http.StatusOK), p, c.Query("edit"), nil)
}

// Create handles POST /extensions
func (h *ExtensionHandler) Create(c *gin.Context) {
	p, _ := h.load(c)

	var form freeswitch.ExtensionCreate
	if err := c.ShouldBind(&form); err != nil {
		middleware.ConsoleFrom(c).Recorder.Error("Invalid form: " + err.Error())
		h.render(c, http.StatusBadRequest, p, "", &form)
		return
	}

	if _, err := p.list.Create(c.Request.Context(), form.Prune()); err != nil {
		h.render(c, failureStatus(err), p, "", &form)
		return
	}
	h.render(c, http.StatusOK, p, "", nil)
}

// Update handles POST /extensions/:id
func (h *ExtensionHandler) Update(c *gin.Context) {
	id := c.Param("id")
	p, _ := h.load(c)

	var form freeswitch.ExtensionUpdate
	if err := c.ShouldBind(&form); err != nil {
		middleware.ConsoleFrom(c).Recorder.Error("Invalid form: " + err.Error())
		h.render(c, http.StatusBadRequest, p, id, nil)
		return
	}

	if _, err := p.list.Update(c.Request.Context(), id, form.Prune()); err != nil {
		h.render(c, failureStatus(err), p, id, nil)
		return
	}
	h.render(c, http.StatusOK, p, "", nil)
}

// Delete handles POST /extensions/:id/delete
func (h *ExtensionHandler) Delete(c *gin.Context) {
	p, _ := h.load(c)
	err := p.list.Delete(c.Request.Context(), c.Param("id"))
	h.render(c, statusOf(err, http.StatusOK), p, "", nil)
}

// render shows the page. The form is filled from submitted when given, else
// from the edited record, else with the defaults of a new extension.
func (h *ExtensionHandler) render(c *gin.Context, status int, p extensionPage, editID string, submitted *freeswitch.ExtensionCreate) {
	var (
		edit     *freeswitch.Extension
		settings []freeswitch.ExtensionSetting
	)
	if editID != "" {
		if e, ok := p.list.Find(editID); ok {
			edit = &e
			settings = h.settings(c, editID)
		}
	}

	form := extensionForm(edit)
	if submitted != nil {
		form = *submitted
	}

	domains := p.domains.Items()
	render(c, status, "extensions.html", "Extensions", gin.H{
		"Items":       p.list.Items(),
		"Edit":        edit,
		"Form":        form,
		"Domains":     domains,
		"DomainNames": domainNames(domains),
		"Settings":    settings,
	})
}

func (h *ExtensionHandler) settings(c *gin.Context, extensionID string) []freeswitch.ExtensionSetting {
	console := middleware.ConsoleFrom(c)
	settings, err := console.API.ExtensionSettings.ListByExtension(c.Request.Context(), extensionID)
	if err != nil {
		console.Recorder.Error("Failed to fetch extension settings")
	}
	return settings
}

func extensionForm(e *freeswitch.Extension) freeswitch.ExtensionCreate {
	if e == nil {
		return freeswitch.ExtensionCreate{Enabled: freeswitch.FlagPtr(true)}
	}
	enabled := e.Enabled
	form := freeswitch.ExtensionCreate{
		DomainUUID:          e.DomainUUID,
		Extension:           e.Extension,
		Enabled:             &enabled,
		ExtensionAttributes: e.ExtensionAttributes,
	}
	form.Password = nil
	return form
}
