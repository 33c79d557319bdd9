package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardenlabs/promptwarden/config"
	"github.com/wardenlabs/promptwarden/tui"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage configuration.

The tool's own settings live in the YAML config file (show, get, set,
reset). The runtime monitoring switches live in the shared store and
take effect without restarting the daemon (enable, disable, set-key).`,
	}

	cmd.PersistentFlags().StringVarP(&format, "format", "o", "table", "output format (table, json, jsonl, csv)")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, manager, err := loadConfigManager(format)
			if err != nil {
				return err
			}
			return app.Presenter.RenderConfig(&tui.ConfigView{
				Location: manager.ConfigPath(),
				Values:   manager.AllSettings(),
			})
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, manager, err := loadConfigManager(format)
			if err != nil {
				return err
			}
			if !manager.HasKey(args[0]) {
				return NewCLIError(ExitConfig, fmt.Sprintf("unknown configuration key: %s", args[0]))
			}
			return app.Presenter.RenderMessage(fmt.Sprintf("%v", manager.Get(args[0])))
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, manager, err := loadConfigManager(format)
			if err != nil {
				return err
			}
			if err := manager.Set(args[0], config.ParseValue(args[1])); err != nil {
				return ErrConfig("failed to write configuration", err)
			}
			return app.Presenter.RenderMessage(fmt.Sprintf("Set %s.", args[0]))
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, manager, err := loadConfigManager(format)
			if err != nil {
				return err
			}
			if err := manager.Reset(); err != nil {
				return ErrConfig("failed to reset configuration", err)
			}
			return app.Presenter.RenderMessage("Configuration reset to defaults.")
		},
	}

	cmd.AddCommand(
		showCmd,
		getCmd,
		setCmd,
		resetCmd,
		newConfigEnableCmd(true),
		newConfigEnableCmd(false),
		newConfigSetKeyCmd(),
	)

	return cmd
}

func newConfigEnableCmd(enable bool) *cobra.Command {
	use, short, done := "enable", "Enable monitoring", "Monitoring enabled."
	if !enable {
		use, short, done = "disable", "Disable monitoring", "Monitoring disabled."
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateRuntimeConfiguration(done, func(rc *config.Configuration) {
				rc.Enabled = enable
			})
		},
	}
}

func newConfigSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key <api-key>",
		Short: "Store the analyzer API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateRuntimeConfiguration("Analyzer API key stored.", func(rc *config.Configuration) {
				rc.APIKey = args[0]
			})
		},
	}
}

// updateRuntimeConfiguration applies a mutation to the stored runtime
// configuration. A running daemon polls the store and picks the change up
// within its poll interval; no channel spans processes.
func updateRuntimeConfiguration(done string, mutate func(*config.Configuration)) error {
	ctx := context.Background()

	app, err := loadApp("table")
	if err != nil {
		return err
	}
	if err := app.InitStore(ctx); err != nil {
		return err
	}
	defer app.Close()

	rc := config.LoadConfiguration(ctx, app.Store)
	mutate(rc)
	if err := config.SaveConfiguration(ctx, app.Store, nil, rc); err != nil {
		return ErrDatabase("failed to save runtime configuration", err)
	}
	return app.Presenter.RenderMessage(done)
}

func loadConfigManager(format string) (*App, *config.Manager, error) {
	app, err := loadApp(format)
	if err != nil {
		return nil, nil, err
	}

	path := globalFlags.ConfigPath
	if path == "" {
		path = app.Paths.ConfigFile
	}

	manager, err := config.NewManager(path)
	if err != nil {
		return nil, nil, ErrConfig("failed to load configuration", err)
	}
	return app, manager, nil
}
