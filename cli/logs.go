package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wardenlabs/promptwarden/analyzer"
	"github.com/wardenlabs/promptwarden/core/scan"
	"github.com/wardenlabs/promptwarden/promptlog"
	"github.com/wardenlabs/promptwarden/tui"
	"github.com/wardenlabs/promptwarden/tui/component/livelog"
)

const followPollInterval = 2 * time.Second

// NewLogsCmd creates the logs command.
func NewLogsCmd() *cobra.Command {
	var (
		format string
		limit  int
		kind   string
		follow bool
		remote bool
		offset int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the scan log",
		Long: `Show the scan log.

Lists the recorded scan decisions, newest first. With --follow, opens an
interactive live view. With --remote, queries the analyzer's audit trail
instead of the local log.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := loadApp(format)
			if err != nil {
				return err
			}
			if err := app.InitStore(ctx); err != nil {
				return err
			}
			defer app.Close()

			if remote {
				return runRemoteLogs(ctx, app, limit, offset)
			}

			service := promptlog.NewService(app.Store, nil)
			if follow {
				return runFollow(ctx, service)
			}

			entries := service.Load(ctx)
			if kind != "" {
				want, err := scan.ParseKind(kind)
				if err != nil {
					return NewCLIError(ExitGeneral, fmt.Sprintf("unknown log kind: %s", kind))
				}
				entries = filterByKind(entries, want)
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			return app.Presenter.RenderLogs(logViews(entries))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format (table, json, jsonl, csv)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum entries to show")
	cmd.Flags().StringVar(&kind, "kind", "", "filter by kind (SUCCESS, ERROR, BLOCKED, INFO)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "open the interactive live view")
	cmd.Flags().BoolVar(&remote, "remote", false, "query the analyzer's remote audit trail")
	cmd.Flags().IntVar(&offset, "offset", 0, "remote audit trail offset")

	cmd.AddCommand(newLogsClearCmd())

	return cmd
}

func newLogsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the scan log",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := loadApp("table")
			if err != nil {
				return err
			}
			if err := app.InitStore(ctx); err != nil {
				return err
			}
			defer app.Close()

			if err := promptlog.NewService(app.Store, nil).Clear(ctx); err != nil {
				return ErrDatabase("failed to clear log", err)
			}
			return app.Presenter.RenderMessage("Scan log cleared.")
		},
	}
}

func runRemoteLogs(ctx context.Context, app *App, limit, offset int) error {
	client := app.NewAnalyzer()
	if client == nil {
		return ErrConfig("no analyzer endpoint configured", nil)
	}

	page, err := tui.RunWithSpinner("fetching remote audit events...", func() (*analyzer.AuditPage, error) {
		return client.SearchAuditEvents(ctx, limit, offset)
	})
	if err != nil {
		return ErrAnalyzer("audit search failed", err)
	}

	views := make([]*tui.AuditView, 0, len(page.Events))
	for _, r := range page.Events {
		views = append(views, &tui.AuditView{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			EventType: r.EventType,
			Severity:  r.Severity,
			Message:   r.Message,
		})
	}
	return app.Presenter.RenderAudits(views)
}

// runFollow opens the live view. Updates are observed by polling the
// store; the daemon's debounced writes land within its persistence window,
// so a short poll interval keeps the view close to real time.
func runFollow(ctx context.Context, service *promptlog.Service) error {
	initial := service.Load(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stream := make(chan livelog.StreamEvent, 64)
	go pollLog(ctx, service, initial, stream)

	model := livelog.New(livelog.Options{
		Initial: initial,
		Stream:  stream,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// pollLog watches the persisted log for entries that were not seen yet and
// pushes them into the live view stream, oldest first.
func pollLog(ctx context.Context, service *promptlog.Service, initial []*scan.LogEntry, stream chan<- livelog.StreamEvent) {
	defer close(stream)

	seen := make(map[string]bool, len(initial))
	for _, e := range initial {
		seen[e.ID] = true
	}

	ticker := time.NewTicker(followPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		entries := service.Load(ctx)
		if len(entries) == 0 && len(seen) > 0 {
			seen = make(map[string]bool)
			select {
			case stream <- livelog.StreamEvent{Cleared: true}:
			case <-ctx.Done():
				return
			}
			continue
		}

		// Entries are newest-first; replay the unseen ones oldest-first.
		var fresh []*scan.LogEntry
		for _, e := range entries {
			if seen[e.ID] {
				break
			}
			fresh = append(fresh, e)
		}
		for i := len(fresh) - 1; i >= 0; i-- {
			seen[fresh[i].ID] = true
			select {
			case stream <- livelog.StreamEvent{Entry: fresh[i]}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func filterByKind(entries []*scan.LogEntry, kind scan.Kind) []*scan.LogEntry {
	filtered := make([]*scan.LogEntry, 0, len(entries))
	for _, e := range entries {
		if e.Kind == kind {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func logViews(entries []*scan.LogEntry) []*tui.LogView {
	views := make([]*tui.LogView, 0, len(entries))
	for _, e := range entries {
		views = append(views, &tui.LogView{
			ID:        e.ID,
			Timestamp: e.Time(),
			Kind:      string(e.Kind),
			Subject:   e.Subject,
			Summary:   e.Summary,
			Reason:    e.Reason,
		})
	}
	return views
}
