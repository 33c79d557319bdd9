package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/safedep/dry/log"
	"github.com/spf13/cobra"

	"github.com/wardenlabs/promptwarden/bus"
	"github.com/wardenlabs/promptwarden/config"
	"github.com/wardenlabs/promptwarden/core/guard"
	"github.com/wardenlabs/promptwarden/core/monitor"
	"github.com/wardenlabs/promptwarden/core/scan"
	"github.com/wardenlabs/promptwarden/notify"
	"github.com/wardenlabs/promptwarden/promptlog"
	"github.com/wardenlabs/promptwarden/scanner"
	"github.com/wardenlabs/promptwarden/surface"
)

// runtimePollInterval is how often the daemon re-reads the shared store
// for configuration and auth changes made by other processes.
const runtimePollInterval = 2 * time.Second

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	var watchDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the monitoring daemon",
		Long: `Run the monitoring daemon.

Watches the staged-uploads directory and scans prompt lines read from
stdin. Blocking decisions quarantine the file or drop the prompt, show
a notification, and land in the scan log. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(watchDir)
		},
	}

	cmd.Flags().StringVar(&watchDir, "watch-dir", "", "staged-uploads directory to watch (overrides config)")

	return cmd
}

func runDaemon(watchDirOverride string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := loadApp("table")
	if err != nil {
		return err
	}
	if err := config.EnsureDirectories(); err != nil {
		return ErrConfig("failed to create application directories", err)
	}
	if err := app.InitStore(ctx); err != nil {
		return err
	}
	defer app.Close()

	channel := bus.NewLocal()

	var logOpts []promptlog.Option
	if n := app.Config.Monitor.MaxLogEntries; n > 0 {
		logOpts = append(logOpts, promptlog.WithMaxEntries(n))
	}
	if ms := app.Config.Monitor.DebounceMs; ms > 0 {
		logOpts = append(logOpts, promptlog.WithDebounce(time.Duration(ms)*time.Millisecond))
	}
	logs := promptlog.NewService(app.Store, channel, logOpts...)

	notifier := notify.NewManager(notify.NewTerminalRenderer(os.Stderr, app.Config.ShouldUseColors()))

	chain := app.NewScanChain()

	promptSurface := surface.NewChan()
	watchDir := watchDirOverride
	if watchDir == "" {
		watchDir = app.Config.Monitor.WatchDir
	}
	var uploadSurface surface.Surface
	if watchDir != "" {
		uploadSurface = surface.NewWatch(watchDir)
	} else {
		uploadSurface = surface.NewChan()
	}

	promptGuard := guard.NewPromptGuard(promptSurface, chain, notifier, logs)
	uploadGuard := guard.NewFileUploadMonitor(uploadSurface, chain, notifier, logs)

	host, _ := os.Hostname()
	manager := monitor.NewSecurityManager(app.Store, promptGuard, uploadGuard, notifier, logs, host)

	unsubscribe := channel.Subscribe(controlHandler(app, channel, manager, logs, chain))
	defer unsubscribe()

	if err := manager.Initialize(ctx); err != nil {
		return err
	}

	// The config and auth commands run in their own process and only write
	// the store, so the daemon polls it to pick their changes up.
	go manager.WatchStore(ctx, runtimePollInterval)

	go readStdinPrompts(ctx, promptSurface)

	status := manager.GetStatus()
	_, _ = fmt.Fprintf(os.Stderr, "promptwarden monitoring started on %s", status.Domain)
	if watchDir != "" {
		_, _ = fmt.Fprintf(os.Stderr, ", watching %s", watchDir)
	}
	_, _ = fmt.Fprintln(os.Stderr)

	<-ctx.Done()
	log.Debugf("daemon: shutting down")
	manager.Cleanup(context.Background())
	return nil
}

// controlHandler answers the channel's control-plane traffic. Broadcast
// messages return a nil response.
func controlHandler(app *App, channel bus.Channel, manager *monitor.SecurityManager, logs *promptlog.Service, chain *scanner.Chain) bus.Handler {
	return func(ctx context.Context, msg bus.Message) (*bus.Message, error) {
		switch msg.Type {
		case bus.TypeGetConfig:
			rc := config.LoadConfiguration(ctx, app.Store)
			resp, err := bus.NewMessage(bus.TypeGetConfig, bus.StatusPayload{IsEnabled: rc.Enabled})
			if err != nil {
				return nil, err
			}
			return &resp, nil

		case bus.TypeSaveConfig:
			var rc config.Configuration
			if err := msg.Decode(&rc); err != nil {
				return nil, err
			}
			// SaveConfiguration rebroadcasts STATUS_CHANGED, which flows
			// back through this handler into the manager.
			return nil, config.SaveConfiguration(ctx, app.Store, channel, &rc)

		case bus.TypeStatusChanged:
			var p bus.StatusPayload
			if err := msg.Decode(&p); err != nil {
				return nil, err
			}
			manager.SetEnabled(p.IsEnabled)
			return nil, nil

		case bus.TypeAuthStatusChanged:
			var p bus.AuthStatusPayload
			if err := msg.Decode(&p); err != nil {
				return nil, err
			}
			manager.SetAuthenticated(p.IsAuthenticated)
			return nil, nil

		case bus.TypeAddLog:
			var p bus.AddLogPayload
			if err := msg.Decode(&p); err != nil {
				return nil, err
			}
			kind, err := scan.ParseKind(strings.ToUpper(p.LogType))
			if err != nil {
				kind = scan.KindInfo
			}
			logs.Add(ctx, kind, p.Message, "", p.Category)
			return nil, nil

		case bus.TypeScanFile:
			var p bus.ScanFilePayload
			if err := msg.Decode(&p); err != nil {
				return nil, err
			}
			verdict, scanErr := chain.ScanFile(ctx, p.FileName, p.FileData)
			if scanErr != nil {
				log.Errorf("daemon: on-demand file scan failed: %v", scanErr)
			}
			resp, err := bus.NewMessage(bus.TypeScanFile, verdict)
			if err != nil {
				return nil, err
			}
			return &resp, nil
		}

		return nil, nil
	}
}

// readStdinPrompts feeds stdin lines into the prompt surface until EOF.
func readStdinPrompts(ctx context.Context, s *surface.Chan) {
	reader := bufio.NewScanner(os.Stdin)
	reader.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for reader.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(reader.Text())
		if line == "" {
			continue
		}
		s.SubmitPrompt(ctx, line)
	}
}
