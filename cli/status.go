package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/wardenlabs/promptwarden/config"
	"github.com/wardenlabs/promptwarden/internal/version"
	"github.com/wardenlabs/promptwarden/promptlog"
	"github.com/wardenlabs/promptwarden/tui"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show monitoring status and health",
		Long: `Show monitoring status and health.

Displays the enablement and authentication state, the scan log
database, and the effective configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := loadApp(format)
			if err != nil {
				return err
			}

			view := &tui.StatusView{
				Version: version.Version,
			}

			host, _ := os.Hostname()
			view.Monitor = tui.MonitorStatusView{
				Domain:   host,
				WatchDir: app.Config.Monitor.WatchDir,
			}

			view.Database = tui.DatabaseView{
				Location: app.Config.GetDatabasePath(),
			}
			if stat, err := os.Stat(view.Database.Location); err == nil {
				view.Database.SizeBytes = stat.Size()
				view.Database.SizeHuman = tui.FormatBytes(stat.Size())

				if err := app.InitStore(ctx); err == nil {
					defer app.Close()

					entries := promptlog.NewService(app.Store, nil).Load(ctx)
					view.Database.LogCount = len(entries)
					if len(entries) > 0 {
						view.Database.NewestEntry = entries[0].Time()
						view.Database.OldestEntry = entries[len(entries)-1].Time()
					}

					rc := config.LoadConfiguration(ctx, app.Store)
					view.Monitor.Enabled = rc.Enabled
					view.Monitor.Authenticated = config.LoadAuthToken(ctx, app.Store) != ""
					view.Config.BlockEnvFiles = rc.AdvancedSettings.BlockEnvFiles
					view.Config.ScanExecutables = rc.AdvancedSettings.ScanExecutables
				}
			}

			view.Config.Location = globalFlags.ConfigPath
			if view.Config.Location == "" {
				view.Config.Location = app.Paths.ConfigFile
			}
			view.Config.AnalyzerEndpoint = app.Config.Analyzer.Endpoint
			view.Config.MaxLogEntries = app.Config.Monitor.MaxLogEntries

			return app.Presenter.RenderStatus(view)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format (table, json, jsonl, csv)")

	return cmd
}
