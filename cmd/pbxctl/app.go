package main

import (
	"fmt"
	"io"

	"freeswitch-admin-console/internal/client"
	"freeswitch-admin-console/internal/config"
	"freeswitch-admin-console/internal/freeswitch"
	"freeswitch-admin-console/internal/logger"
	"freeswitch-admin-console/internal/notify"
	"freeswitch-admin-console/internal/session"
	"freeswitch-admin-console/internal/storage"
	"freeswitch-admin-console/internal/tenant"

	"github.com/spf13/cobra"
)

const (
	OutputFlagName = "output"
	StateFlagName  = "state"
	VerboseFlag    = "verbose"
)

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// ConfigLoader loads the configuration of one invocation
type ConfigLoader func() (*config.Config, error)

// app is what every command works with. It is built once per invocation,
// after flags are parsed.
type app struct {
	out io.Writer

	cfg      *config.Config
	store    *storage.FileStore
	notifier notify.Notifier
	client   *client.Client
	api      *freeswitch.API
	session  *session.Holder
	tenant   *tenant.Holder
}

// NewRootCMD builds the pbxctl command tree. Data goes to out, notifications
// to errOut.
func NewRootCMD(out, errOut io.Writer, load ConfigLoader) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:   "pbxctl",
		Short: "FreeSWITCH management console",
		Long: `Terminal console of the FreeSWITCH management API.
Sign in with "pbxctl login", choose a tenant with "pbxctl tenants select", then
manage domains, extensions, voicemail boxes and the other directory records.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, errOut, load)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringP(OutputFlagName, string(OutputFlagName[0]), OutputTable,
		"specify output format, available values: [ table | json | yaml ]")
	flags.String(StateFlagName, "", "state file holding the session (default STATE_FILE)")
	flags.BoolP(VerboseFlag, "v", false, "also print progress messages and LOG_LEVEL logs")

	rootCmd.AddCommand(
		LoginCMD(a),
		LogoutCMD(a),
		WhoamiCMD(a),
		RefreshCMD(a),
		PasswdCMD(a),
		TenantsCMD(a),
	)
	rootCmd.AddCommand(resourceCMDs(a)...)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command, errOut io.Writer, load ConfigLoader) error {
	cfg, err := load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	flags := cmd.Flags()
	verbose, _ := flags.GetBool(VerboseFlag)

	// Logs share stderr with notifications; only -v shows them below warn
	level := "warn"
	if verbose {
		level = cfg.LogLevel
	}
	logger.Setup(level, false)

	if path, _ := flags.GetString(StateFlagName); path != "" {
		cfg.StateFile = path
	}
	output, _ := flags.GetString(OutputFlagName)
	switch output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	store, err := storage.OpenFileStore(cfg.StateFile)
	if err != nil {
		return err
	}

	writer := notify.NewWriter(errOut)
	writer.ShowLoading = verbose

	c, err := client.NewFromConfig(cfg, store, writer)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.store = store
	a.notifier = writer
	a.client = c
	a.api = freeswitch.New(c)
	a.session = session.NewHolder(c, store)
	a.tenant = tenant.NewHolder(c, store)
	return nil
}

func (a *app) output(cmd *cobra.Command) string {
	output, _ := cmd.Flags().GetString(OutputFlagName)
	return output
}
