package handlers

import (
	"net/http"

	"freeswitch-admin-console/internal/api/middleware"
	"freeswitch-admin-console/internal/views"

	"github.com/gin-gonic/gin"
)

// ResourceCount is one row of the dashboard
type ResourceCount struct {
	Link   string
	Label  string
	Loaded bool
	Count  int
}

// DashboardHandler summarizes the records of the selected tenant
type DashboardHandler struct{}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Show handles GET /. A resource that cannot be fetched is reported and
// shown as unavailable; the others are still counted.
func (h *DashboardHandler) Show(c *gin.Context) {
	console := middleware.ConsoleFrom(c)
	ctx := c.Request.Context()

	domains := views.NewDomainList(console.API, console.Recorder)
	extensions := views.NewExtensionList(console.API, console.Recorder)
	voicemails := views.NewVoicemailList(console.API, console.Recorder)

	counts := []ResourceCount{
		{Link: "/domains", Label: "Domains", Loaded: domains.Load(ctx) == nil},
		{Link: "/extensions", Label: "Extensions", Loaded: extensions.Load(ctx) == nil},
		{Link: "/voicemails", Label: "Voicemail boxes", Loaded: voicemails.Load(ctx) == nil},
	}
	counts[0].Count = domains.Len()
	counts[1].Count = extensions.Len()
	counts[2].Count = voicemails.Len()

	registrations, err := console.API.Registrations.List(ctx)
	if err != nil {
		console.Recorder.Error("Failed to fetch registrations")
	}
	counts = append(counts, ResourceCount{
		Link:   "",
		Label:  "Active registrations",
		Loaded: err == nil,
		Count:  len(registrations),
	})

	render(c, http.StatusOK, "dashboard.html", "Dashboard", gin.H{"Counts": counts})
}
