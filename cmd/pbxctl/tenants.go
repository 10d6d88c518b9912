package main

import (
	"fmt"
	"strconv"

	"freeswitch-admin-console/internal/tenant"

	"github.com/spf13/cobra"
)

var tenantColumns = []column{
	{Header: "ID", Path: "tenant_id"},
	{Header: "NAME", Path: "tenant_name"},
	{Header: "DESCRIPTION", Path: "description"},
	{Header: "SELECTED", Path: "selected"},
}

// tenantRow is a tenant as listed, flagged when it is the active one
type tenantRow struct {
	tenant.Tenant
	Selected bool `json:"selected"`
}

func TenantsCMD(a *app) *cobra.Command {
	tenantsCmd := &cobra.Command{
		Use:   "tenants",
		Short: "List tenants and choose the one every command is scoped to",
	}
	tenantsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the tenants available to the session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.requireSession(cmd); err != nil {
					return err
				}
				if err := a.tenant.FetchTenants(cmd.Context()); err != nil {
					return fmt.Errorf("tenants: %s", a.tenant.Snapshot().Error)
				}

				selected, hasSelected := a.tenant.Selected()
				tenants := a.tenant.Tenants()
				rows := make([]tenantRow, len(tenants))
				for i, t := range tenants {
					rows[i] = tenantRow{Tenant: t, Selected: hasSelected && t.TenantID == selected.TenantID}
				}
				return printRecords(a.out, a.output(cmd), rows, tenantColumns)
			},
		},
		&cobra.Command{
			Use:   "select TENANT_ID",
			Short: "Scope every following command to a tenant",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.requireSession(cmd); err != nil {
					return err
				}
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid tenant id %q", args[0])
				}
				if err := a.tenant.FetchTenants(cmd.Context()); err != nil {
					return fmt.Errorf("tenants: %s", a.tenant.Snapshot().Error)
				}
				if err := a.tenant.SelectByID(cmd.Context(), id); err != nil {
					return err
				}
				t, _ := a.tenant.Selected()
				fmt.Fprintf(a.out, "Selected tenant %s (%s); it applies from the next command\n", t.IDString(), t.TenantName)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Stop scoping commands to a tenant",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.tenant.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Tenant selection cleared")
				return nil
			},
		},
	)
	return tenantsCmd
}
