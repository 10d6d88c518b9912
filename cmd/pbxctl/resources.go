package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"freeswitch-admin-console/internal/freeswitch"
	"freeswitch-admin-console/internal/notify"
	"freeswitch-admin-console/internal/views"

	"github.com/spf13/cobra"
)

// reader is the read side of a resource module
type reader[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
}

// viewReader reads through a list view, so failures carry the view's
// per-operation message
type viewReader[T views.Record, C, U any] struct {
	view *views.ListView[T, C, U]
}

func (r viewReader[T, C, U]) List(ctx context.Context) ([]T, error) {
	if err := r.view.Load(ctx); err != nil {
		return nil, err
	}
	return r.view.Items(), nil
}

func (r viewReader[T, C, U]) Get(ctx context.Context, id string) (*T, error) {
	return r.view.Get(ctx, id)
}

// numericFields are sent as JSON numbers when given with --set
var numericFields = map[string]bool{
	"dialplan_order": true,
}

var (
	domainColumns = []column{
		{Header: "UUID", Path: "domain_uuid"},
		{Header: "NAME", Path: "domain_name"},
		{Header: "ENABLED", Path: "domain_enabled"},
	}
	extensionColumns = []column{
		{Header: "UUID", Path: "extension_uuid"},
		{Header: "EXTENSION", Path: "extension"},
		{Header: "DOMAIN", Path: "domain_uuid"},
		{Header: "CALLER ID", Path: "effective_caller_id_name"},
		{Header: "CONTEXT", Path: "user_context"},
		{Header: "ENABLED", Path: "enabled"},
	}
	settingColumns = []column{
		{Header: "UUID", Path: "extension_setting_uuid"},
		{Header: "EXTENSION", Path: "extension_uuid"},
		{Header: "TYPE", Path: "extension_setting_type"},
		{Header: "NAME", Path: "extension_setting_name"},
		{Header: "VALUE", Path: "extension_setting_value"},
		{Header: "ENABLED", Path: "extension_setting_enabled"},
	}
	voicemailColumns = []column{
		{Header: "UUID", Path: "voicemail_uuid"},
		{Header: "MAILBOX", Path: "voicemail_id"},
		{Header: "DOMAIN", Path: "domain_uuid"},
		{Header: "MAIL TO", Path: "voicemail_mail_to"},
		{Header: "ENABLED", Path: "voicemail_enabled"},
	}
	contactColumns = []column{
		{Header: "UUID", Path: "contact_uuid"},
		{Header: "NAME", Path: "contact_name"},
		{Header: "EMAIL", Path: "contact_email"},
	}
	userColumns = []column{
		{Header: "UUID", Path: "user_uuid"},
		{Header: "USERNAME", Path: "username"},
		{Header: "DOMAIN", Path: "domain_uuid"},
		{Header: "CONTACT", Path: "contact_uuid"},
	}
	dialplanColumns = []column{
		{Header: "UUID", Path: "dialplan_uuid"},
		{Header: "NAME", Path: "dialplan_name"},
		{Header: "CONTEXT", Path: "dialplan_context"},
		{Header: "ORDER", Path: "dialplan_order"},
		{Header: "ENABLED", Path: "dialplan_enabled"},
	}
	registrationColumns = []column{
		{Header: "UUID", Path: "reg_uuid"},
		{Header: "USER", Path: "reg_user"},
		{Header: "REALM", Path: "realm"},
		{Header: "HOST", Path: "hostname"},
		{Header: "EXPIRES", Path: "expires"},
	}
)

func resourceCMDs(a *app) []*cobra.Command {
	settingsCmd := crudCMD(a, "extension-settings", "Manage extension params and variables",
		views.NewExtensionSettingList, settingColumns)
	settingsCmd.AddCommand(&cobra.Command{
		Use:   "by-extension EXTENSION_UUID",
		Short: "List the settings of one extension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}
			items, err := a.api.ExtensionSettings.ListByExtension(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printRecords(a.out, a.output(cmd), items, settingColumns)
		},
	})

	return []*cobra.Command{
		crudCMD(a, "domains", "Manage SIP domains", views.NewDomainList, domainColumns),
		crudCMD(a, "extensions", "Manage extensions", views.NewExtensionList, extensionColumns),
		settingsCmd,
		crudCMD(a, "voicemails", "Manage voicemail boxes", views.NewVoicemailList, voicemailColumns),
		crudCMD(a, "contacts", "Manage contacts", views.NewContactList, contactColumns),
		crudCMD(a, "users", "Manage directory users", views.NewUserList, userColumns),
		crudCMD(a, "dialplans", "Manage dialplans", views.NewDialplanList, dialplanColumns),
		readCMD(a, "registrations", "Show live SIP registrations",
			func(a *app) reader[freeswitch.Registration] {
				return a.api.Registrations
			}, registrationColumns),
	}
}

// readCMD builds "NAME list" and "NAME get ID"
func readCMD[T any](a *app, name, short string, backend func(*app) reader[T], columns []column) *cobra.Command {
	resourceCmd := &cobra.Command{
		Use:   name,
		Short: short,
	}
	resourceCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all " + name,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.requireSession(cmd); err != nil {
					return err
				}
				items, err := backend(a).List(cmd.Context())
				if err != nil {
					return err
				}
				return printRecords(a.out, a.output(cmd), items, columns)
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show one of the " + name,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.requireSession(cmd); err != nil {
					return err
				}
				item, err := backend(a).Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printRecords(a.out, a.output(cmd), item, columns)
			},
		},
	)
	return resourceCmd
}

// crudCMD adds create, update and delete to readCMD, all going through the
// resource's list view. Payloads are built from --data and --set; blank
// fields are dropped for payloads that prune.
func crudCMD[T views.Record, C, U any](a *app, name, short string, newView func(*freeswitch.API, notify.Notifier) *views.ListView[T, C, U], columns []column) *cobra.Command {
	view := func(a *app) *views.ListView[T, C, U] { return newView(a.api, a.notifier) }
	resourceCmd := readCMD(a, name, short, func(a *app) reader[T] { return viewReader[T, C, U]{view: view(a)} }, columns)

	var createPayload, updatePayload payloadFlags

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create one of the " + name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}
			var data C
			if err := createPayload.decode(&data); err != nil {
				return err
			}
			if p, ok := any(data).(interface{ Prune() C }); ok {
				data = p.Prune()
			}
			item, err := view(a).Create(cmd.Context(), data)
			if err != nil {
				return err
			}
			return printRecords(a.out, a.output(cmd), item, columns)
		},
	}
	createPayload.register(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update one of the " + name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}
			var data U
			if err := updatePayload.decode(&data); err != nil {
				return err
			}
			if p, ok := any(data).(interface{ Prune() U }); ok {
				data = p.Prune()
			}
			item, err := view(a).Update(cmd.Context(), args[0], data)
			if err != nil {
				return err
			}
			return printRecords(a.out, a.output(cmd), item, columns)
		},
	}
	updatePayload.register(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete one of the " + name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}
			return view(a).Delete(cmd.Context(), args[0])
		},
	}

	resourceCmd.AddCommand(createCmd, updateCmd, deleteCmd)
	return resourceCmd
}

// payloadFlags collect a request body from the command line
type payloadFlags struct {
	data string
	sets []string
}

func (p *payloadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.data, "data", "", "JSON object with the fields to send")
	cmd.Flags().StringArrayVar(&p.sets, "set", nil, "field to send as key=value, repeatable; applied over --data")
}

// decode merges --data and --set into dst. Unknown fields are rejected.
func (p *payloadFlags) decode(dst interface{}) error {
	fields := make(map[string]interface{})
	if p.data != "" {
		if err := json.Unmarshal([]byte(p.data), &fields); err != nil {
			return fmt.Errorf("invalid --data: %w", err)
		}
	}
	for _, kv := range p.sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid --set %q, want key=value", kv)
		}
		fields[key] = coerce(key, value)
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func coerce(key, value string) interface{} {
	if numericFields[key] {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return value
}
