// Package cli provides the command-line interface for promptwarden.
package cli

import (
	"context"
	"os"

	"github.com/safedep/dry/log"
	"github.com/spf13/cobra"

	"github.com/wardenlabs/promptwarden/analyzer"
	"github.com/wardenlabs/promptwarden/config"
	"github.com/wardenlabs/promptwarden/internal/version"
	"github.com/wardenlabs/promptwarden/scanner"
	"github.com/wardenlabs/promptwarden/storage"
	"github.com/wardenlabs/promptwarden/tui"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Store     storage.Store
	Presenter tui.Presenter
	Paths     *config.Paths
}

// NewApp creates a new App with the given configuration.
func NewApp(cfg *config.Config, format tui.Format) *App {
	paths := config.ResolvePaths()

	presenter := tui.NewPresenter(format, tui.PresenterOptions{
		Writer:    os.Stdout,
		UseColors: cfg.ShouldUseColors(),
	})

	return &App{
		Config:    cfg,
		Presenter: presenter,
		Paths:     paths,
	}
}

// InitStore initializes the database store.
func (a *App) InitStore(ctx context.Context) error {
	store, err := storage.NewSQLiteStore(a.Config.GetDatabasePath())
	if err != nil {
		return ErrDatabase("failed to open database", err)
	}
	if err := store.Init(ctx); err != nil {
		return ErrDatabase("failed to initialize database", err)
	}
	a.Store = store
	return nil
}

// Close closes the application resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// NewAnalyzer builds the remote analysis client from the configured
// endpoint. Credentials are read from the store on every call, so a key
// set or rotated while the client is alive takes effect immediately.
// Returns nil when no endpoint is configured.
func (a *App) NewAnalyzer() *analyzer.Client {
	endpoint := a.Config.Analyzer.Endpoint
	if endpoint == "" {
		return nil
	}

	opts := []analyzer.Option{analyzer.WithTokenSource(a.tokenSource())}
	if a.Config.Analyzer.TimeoutSeconds > 0 {
		opts = append(opts, analyzer.WithTimeout(a.Config.AnalyzerTimeout()))
	}
	return analyzer.NewClient(endpoint, opts...)
}

// tokenSource resolves the bearer token for analyzer calls: an explicit API
// key in the runtime configuration wins over the login session token.
func (a *App) tokenSource() func() string {
	return func() string {
		if a.Store == nil {
			return ""
		}
		ctx := context.Background()
		if rc := config.LoadConfiguration(ctx, a.Store); rc.APIKey != "" {
			return rc.APIKey
		}
		return config.LoadAuthToken(ctx, a.Store)
	}
}

// NewScanChain builds the verdict chain: the local heuristic scanner first,
// the remote analyzer second when one is configured.
func (a *App) NewScanChain() *scanner.Chain {
	chain := scanner.NewChain(nil)
	chain.Register(scanner.NewHeuristic(a.settingsProvider()))

	if client := a.NewAnalyzer(); client != nil {
		chain.Register(scanner.NewRemote(client))
	}
	return chain
}

// settingsProvider reads the advanced settings fresh from the store on
// every scan so configuration changes apply without a restart.
func (a *App) settingsProvider() scanner.SettingsProvider {
	return func() config.AdvancedSettings {
		if a.Store == nil {
			return config.DefaultConfiguration().AdvancedSettings
		}
		return config.LoadConfiguration(context.Background(), a.Store).AdvancedSettings
	}
}

// GlobalFlags holds the global command flags.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
	NoColor    bool
}

var globalFlags GlobalFlags

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "promptwarden",
		Short: "Client-side prompt and file upload security monitor",
		Long: `Promptwarden is a local-first security monitor for AI chat workflows.

It scans outgoing prompt submissions and staged file uploads for
credentials, PII, and policy violations, blocks what must not leave,
and keeps a durable log of every decision.`,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle NO_COLOR environment variable
			if os.Getenv("NO_COLOR") != "" {
				globalFlags.NoColor = true
			}

			if os.Getenv("PROMPTWARDEN_NO_COLOR") != "" {
				globalFlags.NoColor = true
			}

			setupInternalLogger()

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "increase output verbosity")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.NoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		NewRunCmd(),
		NewStatusCmd(),
		NewLogsCmd(),
		NewScanCmd(),
		NewConfigCmd(),
		NewAuthCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// setupInternalLogger sets up the DRY logger.
func setupInternalLogger() {
	// Always skip the stdout logger since we are running in a CLI context
	// with our own TUI.
	_ = os.Setenv("APP_LOG_SKIP_STDOUT_LOGGER", "true")

	log.Init("promptwarden", "cli")
}

// loadApp loads the application with configuration.
func loadApp(format string) (*App, error) {
	cfg, err := config.Load(globalFlags.ConfigPath)
	if err != nil {
		// Use defaults if config not found
		cfg = config.Default()
	}

	// Override with flags
	if globalFlags.NoColor {
		cfg.Display.Colors = config.ColorNever
	}

	return NewApp(cfg, getFormat(format)), nil
}

// getFormat returns the output format from flags or default.
func getFormat(format string) tui.Format {
	switch format {
	case "json":
		return tui.FormatJSON
	case "jsonl":
		return tui.FormatJSONL
	case "csv":
		return tui.FormatCSV
	default:
		return tui.FormatTable
	}
}
