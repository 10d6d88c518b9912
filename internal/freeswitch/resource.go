// Package freeswitch maps the PBX resources of the remote management API to
// typed CRUD operations.
package freeswitch

import (
	"context"
	"net/http"
	"net/url"

	"freeswitch-admin-console/internal/client"
	apperrors "freeswitch-admin-console/internal/errors"
)

// BasePath is the prefix every PBX resource lives under
const BasePath = "/api/freeswitch"

// Resource exposes list, get, create, update and delete for one resource
// type. Payloads are passed through untouched.
type Resource[T, C, U any] struct {
	api  client.Requester
	path string
}

// NewResource creates a Resource rooted at BasePath + "/" + name
func NewResource[T, C, U any](api client.Requester, name string) *Resource[T, C, U] {
	return &Resource[T, C, U]{api: api, path: BasePath + "/" + name}
}

// Path returns the collection path
func (r *Resource[T, C, U]) Path() string {
	return r.path
}

func (r *Resource[T, C, U]) itemPath(id string) (string, error) {
	if id == "" {
		return "", apperrors.ErrMissingID
	}
	return r.path + "/" + url.PathEscape(id), nil
}

// List returns every record visible to the current tenant
func (r *Resource[T, C, U]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.api.Do(ctx, http.MethodGet, r.path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get returns one record
func (r *Resource[T, C, U]) Get(ctx context.Context, id string) (*T, error) {
	path, err := r.itemPath(id)
	if err != nil {
		return nil, err
	}
	var item T
	if err := r.api.Do(ctx, http.MethodGet, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create submits data and returns the stored record
func (r *Resource[T, C, U]) Create(ctx context.Context, data C) (*T, error) {
	var item T
	if err := r.api.Do(ctx, http.MethodPost, r.path, data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update submits data for id and returns the stored record
func (r *Resource[T, C, U]) Update(ctx context.Context, id string, data U) (*T, error) {
	path, err := r.itemPath(id)
	if err != nil {
		return nil, err
	}
	var item T
	if err := r.api.Do(ctx, http.MethodPut, path, data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes id
func (r *Resource[T, C, U]) Delete(ctx context.Context, id string) error {
	path, err := r.itemPath(id)
	if err != nil {
		return err
	}
	return r.api.Do(ctx, http.MethodDelete, path, nil, nil)
}

// ReadOnly exposes list and get for resources the console cannot change
type ReadOnly[T any] struct {
	inner *Resource[T, struct{}, struct{}]
}

// NewReadOnly creates a ReadOnly rooted at BasePath + "/" + name
func NewReadOnly[T any](api client.Requester, name string) *ReadOnly[T] {
	return &ReadOnly[T]{inner: NewResource[T, struct{}, struct{}](api, name)}
}

func (r *ReadOnly[T]) Path() string {
	return r.inner.Path()
}

func (r *ReadOnly[T]) List(ctx context.Context) ([]T, error) {
	return r.inner.List(ctx)
}

func (r *ReadOnly[T]) Get(ctx context.Context, id string) (*T, error) {
	return r.inner.Get(ctx, id)
}

type (
	Domains       = Resource[Domain, DomainCreate, DomainUpdate]
	Contacts      = Resource[Contact, ContactCreate, ContactUpdate]
	Users         = Resource[User, UserCreate, UserUpdate]
	Extensions    = Resource[Extension, ExtensionCreate, ExtensionUpdate]
	Voicemails    = Resource[Voicemail, VoicemailCreate, VoicemailUpdate]
	Dialplans     = Resource[Dialplan, DialplanCreate, DialplanUpdate]
	Registrations = ReadOnly[Registration]
)

// ExtensionSettings adds the per-extension listing to the generic resource
type ExtensionSettings struct {
	*Resource[ExtensionSetting, ExtensionSettingCreate, ExtensionSettingUpdate]
}

// ListByExtension returns the settings attached to one extension
func (s *ExtensionSettings) ListByExtension(ctx context.Context, extensionID string) ([]ExtensionSetting, error) {
	if extensionID == "" {
		return nil, apperrors.ErrMissingID
	}
	var items []ExtensionSetting
	path := s.Path() + "/extension/" + url.PathEscape(extensionID)
	if err := s.api.Do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []ExtensionSetting{}
	}
	return items, nil
}

// API groups every PBX resource behind one Requester
type API struct {
	Domains           *Domains
	Contacts          *Contacts
	Users             *Users
	Extensions        *Extensions
	ExtensionSettings *ExtensionSettings
	Voicemails        *Voicemails
	Dialplans         *Dialplans
	Registrations     *Registrations
}

// New wires every resource to api
func New(api client.Requester) *API {
	return &API{
		Domains:    NewResource[Domain, DomainCreate, DomainUpdate](api, "domains"),
		Contacts:   NewResource[Contact, ContactCreate, ContactUpdate](api, "contacts"),
		Users:      NewResource[User, UserCreate, UserUpdate](api, "users"),
		Extensions: NewResource[Extension, ExtensionCreate, ExtensionUpdate](api, "extensions"),
		ExtensionSettings: &ExtensionSettings{
			Resource: NewResource[ExtensionSetting, ExtensionSettingCreate, ExtensionSettingUpdate](api, "extension-settings"),
		},
		Voicemails:    NewResource[Voicemail, VoicemailCreate, VoicemailUpdate](api, "voicemails"),
		Dialplans:     NewResource[Dialplan, DialplanCreate, DialplanUpdate](api, "dialplans"),
		Registrations: NewReadOnly[Registration](api, "registrations"),
	}
}
