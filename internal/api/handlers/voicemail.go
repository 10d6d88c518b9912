package handlers

import (
	"net/http"

	"freeswitch-admin-console/internal/api/middleware"
	"freeswitch-admin-console/internal/freeswitch"
	"freeswitch-admin-console/internal/views"

	"github.com/gin-gonic/gin"
)

// VoicemailHandler serves the mailbox table and its create/edit form
type VoicemailHandler struct{}

// NewVoicemailHandler creates a new voicemail handler
func NewVoicemailHandler() *VoicemailHandler {
	return &VoicemailHandler{}
}

type voicemailPage struct {
	list    *views.VoicemailList
	domains *views.DomainList
}

func (h *VoicemailHandler) load(c *gin.Context) (voicemailPage, error) {
	console := middleware.ConsoleFrom(c)
	ctx := c.Request.Context()

	p := voicemailPage{
		list:    views.NewVoicemailList(console.API, console.Recorder),
		domains: views.NewDomainList(console.API, console.Recorder),
	}
	err := p.list.Load(ctx)
	_ = p.domains.Load(ctx)
	return p, err
}

// List handles GET /voicemails. ?edit=<id> opens the form on that mailbox.
func (h *VoicemailHandler) List(c *gin.Context) {
	p, err := h.load(c)
	h.render(c, statusOf(err, http.StatusOK), p, c.Query("edit"), nil)
}

// Create handles POST /voicemails
func (h *VoicemailHandler) Create(c *gin.Context) {
	p, _ := h.load(c)

	var form freeswitch.VoicemailCreate
	if err := c.ShouldBind(&form); err != nil {
		middleware.ConsoleFrom(c).Recorder.Error("Invalid form: " + err.Error())
		h.render(c, http.StatusBadRequest, p, "", &form)
		return
	}
	form.VoicemailPassword = emptyToNil(form.VoicemailPassword)

	if _, err := p.list.Create(c.Request.Context(), form); err != nil {
		h.render(c, failureStatus(err), p, "", &form)
		return
	}
	h.render(c, http.StatusOK, p, "", nil)
}

// Update handles POST /voicemails/:id. A blank PIN keeps the current one.
func (h *VoicemailHandler) Update(c *gin.Context) {
	id := c.Param("id")
	p, _ := h.load(c)

	var form freeswitch.VoicemailUpdate
	if err := c.ShouldBind(&form); err != nil {
		middleware.ConsoleFrom(c).Recorder.Error("Invalid form: " + err.Error())
		h.render(c, http.StatusBadRequest, p, id, nil)
		return
	}
	form.VoicemailPassword = emptyToNil(form.VoicemailPassword)

	if _, err := p.list.Update(c.Request.Context(), id, form); err != nil {
		h.render(c, failureStatus(err), p, id, nil)
		return
	}
	h.render(c, http.StatusOK, p, "", nil)
}

// Delete handles POST /voicemails/:id/delete
func (h *VoicemailHandler) Delete(c *gin.Context) {
	p, _ := h.load(c)
	err := p.list.Delete(c.Request.Context(), c.Param("id"))
	h.render(c, statusOf(err, http.StatusOK), p, "", nil)
}

func (h *VoicemailHandler) render(c *gin.Context, status int, p voicemailPage, editID string, submitted *freeswitch.VoicemailCreate) {
	var edit *freeswitch.Voicemail
	if editID != "" {
		if v, ok := p.list.Find(editID); ok {
			edit = &v
		}
	}

	form := voicemailForm(edit)
	if submitted != nil {
		form = *submitted
	}

	domains := p.domains.Items()
	render(c, status, "voicemails.html", "Voicemail", gin.H{
		"Items":       p.list.Items(),
		"Edit":        edit,
		"Form":        form,
		"Domains":     domains,
		"DomainNames": domainNames(domains),
	})
}

func voicemailForm(v *freeswitch.Voicemail) freeswitch.VoicemailCreate {
	if v == nil {
		return freeswitch.VoicemailCreate{
			VoicemailEnabled:         freeswitch.FlagPtr(true),
			VoicemailAttachFile:      freeswitch.FlagPtr(true),
			VoicemailLocalAfterEmail: freeswitch.FlagPtr(true),
		}
	}
	enabled := v.VoicemailEnabled
	return freeswitch.VoicemailCreate{
		DomainUUID:               v.DomainUUID,
		VoicemailID:              v.VoicemailID,
		VoicemailEnabled:         &enabled,
		VoicemailAttachFile:      v.VoicemailAttachFile,
		VoicemailLocalAfterEmail: v.VoicemailLocalAfterEmail,
		VoicemailMailTo:          v.VoicemailMailTo,
	}
}
