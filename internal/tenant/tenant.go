// Package tenant holds the tenants available to the session and the one
// currently scoping every API call.
package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"freeswitch-admin-console/internal/client"
	apperrors "freeswitch-admin-console/internal/errors"
	"freeswitch-admin-console/internal/logger"
	"freeswitch-admin-console/internal/storage"
)

const (
	PathTenants    = "/api/tenants/"
	MsgFetchFailed = "Failed to fetch tenants"
)

// Tenant is an isolated customer context
type Tenant struct {
	TenantID    int64   `json:"tenant_id"`
	TenantName  string  `json:"tenant_name"`
	Description *string `json:"description,omitempty"`
}

// IDString returns the id as sent in the tenant header
func (t Tenant) IDString() string {
	return strconv.FormatInt(t.TenantID, 10)
}

// Snapshot is a point-in-time copy of the tenant state
type Snapshot struct {
	Tenants  []Tenant
	Selected *Tenant
	Loading  bool
	Error    string
}

// Holder owns the tenant list and selection. Only the selection is
// persisted; the list is refetched.
type Holder struct {
	api   client.Requester
	store storage.Store

	mu       sync.Mutex
	tenants  []Tenant
	selected *Tenant
	loading  bool
	err      string
}

// NewHolder creates a Holder seeded from the selection in store
func NewHolder(api client.Requester, store storage.Store) *Holder {
	h := &Holder{api: api, store: store}
	if raw, ok := store.Get(storage.KeySelectedTenant); ok && raw != "" {
		var t Tenant
		if err := json.Unmarshal([]byte(raw), &t); err == nil {
			h.selected = &t
		}
	}
	if h.selected == nil {
		// The header may have been persisted without the tenant record.
		if raw, ok := store.Get(storage.KeySelectedTenantID); ok {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				h.selected = &Tenant{TenantID: id}
			}
		}
	}
	return h
}

// FetchTenants loads the tenants available to the session
func (h *Holder) FetchTenants(ctx context.Context) error {
	h.mu.Lock()
	h.loading = true
	h.err = ""
	h.mu.Unlock()

	var tenants []Tenant
	if err := h.api.Do(ctx, http.MethodGet, PathTenants, nil, &tenants); err != nil {
		msg := apperrors.Detail(err)
		if msg == "" {
			msg = MsgFetchFailed
		}
		h.mu.Lock()
		h.err = msg
		h.loading = false
		h.mu.Unlock()
		return err
	}
	if tenants == nil {
		tenants = []Tenant{}
	}

	h.mu.Lock()
	h.tenants = tenants
	h.loading = false
	h.mu.Unlock()
	return nil
}

// Select persists t as the tenant sent with every later call. The switch is
// not applied to already-loaded screens; callers reload afterwards.
func (h *Holder) Select(ctx context.Context, t Tenant) error {
	if t.TenantID <= 0 {
		return apperrors.ErrInvalidTenantID
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode tenant: %w", err)
	}
	if err := h.store.Set(storage.KeySelectedTenantID, t.IDString()); err != nil {
		return fmt.Errorf("failed to persist tenant id: %w", err)
	}
	if err := h.store.Set(storage.KeySelectedTenant, string(data)); err != nil {
		return fmt.Errorf("failed to persist tenant: %w", err)
	}

	h.mu.Lock()
	h.selected = &t
	h.mu.Unlock()

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"tenant_id":   t.TenantID,
		"tenant_name": t.TenantName,
	}).Info("Tenant selected")
	return nil
}

// SelectByID selects a tenant from the fetched list
func (h *Holder) SelectByID(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.ErrInvalidTenantID
	}
	h.mu.Lock()
	var found *Tenant
	for i := range h.tenants {
		if h.tenants[i].TenantID == id {
			t := h.tenants[i]
			found = &t
			break
		}
	}
	h.mu.Unlock()

	if found == nil {
		return apperrors.ErrTenantNotFound
	}
	return h.Select(ctx, *found)
}

// Clear drops the selection; later calls carry no tenant header
func (h *Holder) Clear(ctx context.Context) error {
	idErr := h.store.Remove(storage.KeySelectedTenantID)
	tenantErr := h.store.Remove(storage.KeySelectedTenant)

	h.mu.Lock()
	h.selected = nil
	h.mu.Unlock()

	if idErr != nil {
		return fmt.Errorf("failed to clear tenant id: %w", idErr)
	}
	if tenantErr != nil {
		return fmt.Errorf("failed to clear tenant: %w", tenantErr)
	}
	logger.WithContext(ctx).Info("Tenant selection cleared")
	return nil
}

// Selected returns the selected tenant, if any
func (h *Holder) Selected() (Tenant, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.selected == nil {
		return Tenant{}, false
	}
	return *h.selected, true
}

// Tenants returns the last fetched list
func (h *Holder) Tenants() []Tenant {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Tenant, len(h.tenants))
	copy(out, h.tenants)
	return out
}

// Snapshot returns a copy of the current state
func (h *Holder) Snapshot() Snapshot {
	tenants := h.Tenants()
	selected, ok := h.Selected()

	h.mu.Lock()
	defer h.mu.Unlock()
	snap := Snapshot{
		Tenants: tenants,
		Loading: h.loading,
		Error:   h.err,
	}
	if ok {
		snap.Selected = &selected
	}
	return snap
}
