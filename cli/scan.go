package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wardenlabs/promptwarden/core/scan"
	"github.com/wardenlabs/promptwarden/tui"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a prompt or file without submitting it",
		Long: `Scan a prompt or file without submitting it.

Runs the same verdict chain the monitor uses and reports the decision.
A blocking verdict exits non-zero so the command composes in scripts.`,
	}

	cmd.PersistentFlags().StringVarP(&format, "format", "o", "table", "output format (table, json, jsonl, csv)")

	promptCmd := &cobra.Command{
		Use:   "prompt <text>",
		Short: "Scan prompt text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return runOneShotScan(format, "prompt", text, func(ctx context.Context, app *App) (*scan.Verdict, error) {
				return app.NewScanChain().ScanPrompt(ctx, text)
			})
		},
	}

	fileCmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Scan a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return NewCLIError(ExitGeneral, fmt.Sprintf("failed to read %s: %v", path, err))
			}
			return runOneShotScan(format, "file", path, func(ctx context.Context, app *App) (*scan.Verdict, error) {
				return app.NewScanChain().ScanFile(ctx, filepath.Base(path), data)
			})
		},
	}

	cmd.AddCommand(promptCmd, fileCmd)

	return cmd
}

func runOneShotScan(format, kind, target string, do func(ctx context.Context, app *App) (*scan.Verdict, error)) error {
	ctx := context.Background()

	app, err := loadApp(format)
	if err != nil {
		return err
	}
	if err := app.InitStore(ctx); err != nil {
		return err
	}
	defer app.Close()

	verdict, scanErr := do(ctx, app)

	view := &tui.ScanView{
		Target:    target,
		Kind:      kind,
		Blocked:   verdict.ShouldBlock,
		Reason:    verdict.Reason,
		RiskLevel: verdict.RiskLevel.String(),
	}
	if scanErr != nil {
		view.ScanError = scanErr.Error()
	}

	if err := app.Presenter.RenderScan(view); err != nil {
		return err
	}

	if verdict.ShouldBlock {
		return NewCLIError(ExitBlocked, fmt.Sprintf("blocked: %s", verdict.Reason))
	}
	return nil
}
