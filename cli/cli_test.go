package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig creates an isolated config file pointing the database
// into a temp dir, so commands never touch the real platform paths.
func writeTestConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "warden.db")
	cfgPath := filepath.Join(dir, "config.yaml")

	content := fmt.Sprintf("storage:\n  path: %s\ndisplay:\n  colors: never\n", dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))

	return cfgPath
}

func execute(args ...string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	for _, want := range []string{"run", "status", "logs", "scan", "config", "auth", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestScanPrompt_BlockingVerdictExitCode(t *testing.T) {
	cfg := writeTestConfig(t)

	err := execute("scan", "prompt", "password=hunter2", "-c", cfg)
	require.Error(t, err)

	var coder ExitCoder
	require.ErrorAs(t, err, &coder)
	assert.Equal(t, ExitBlocked, coder.ExitCode())
}

func TestScanPrompt_CleanPromptSucceeds(t *testing.T) {
	cfg := writeTestConfig(t)

	err := execute("scan", "prompt", "summarize", "the", "meeting", "-c", cfg, "-o", "json")
	assert.NoError(t, err)
}

func TestScanFile_EnvFileBlocked(t *testing.T) {
	cfg := writeTestConfig(t)

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("DB_URL=postgres://"), 0600))

	err := execute("scan", "file", envPath, "-c", cfg, "-o", "json")
	require.Error(t, err)

	var coder ExitCoder
	require.ErrorAs(t, err, &coder)
	assert.Equal(t, ExitBlocked, coder.ExitCode())
}

func TestAuthLifecycle(t *testing.T) {
	cfg := writeTestConfig(t)

	require.NoError(t, execute("auth", "status", "-c", cfg))
	require.NoError(t, execute("auth", "login", "--token", "tok-123", "-c", cfg))
	require.NoError(t, execute("auth", "status", "-c", cfg))
	require.NoError(t, execute("auth", "logout", "-c", cfg))
}

func TestAuthLogin_RequiresToken(t *testing.T) {
	cfg := writeTestConfig(t)

	err := execute("auth", "login", "-c", cfg)
	require.Error(t, err)

	var coder ExitCoder
	require.ErrorAs(t, err, &coder)
	assert.Equal(t, ExitGeneral, coder.ExitCode())
}

func TestLogs_EmptyDatabase(t *testing.T) {
	cfg := writeTestConfig(t)

	assert.NoError(t, execute("logs", "-c", cfg, "-o", "json"))
}

func TestLogs_UnknownKindRejected(t *testing.T) {
	cfg := writeTestConfig(t)

	err := execute("logs", "--kind", "bogus", "-c", cfg)
	require.Error(t, err)
}

func TestLogs_RemoteWithoutEndpoint(t *testing.T) {
	cfg := writeTestConfig(t)

	err := execute("logs", "--remote", "-c", cfg)
	require.Error(t, err)

	var coder ExitCoder
	require.ErrorAs(t, err, &coder)
	assert.Equal(t, ExitConfig, coder.ExitCode())
}

func TestConfigSetAndGet(t *testing.T) {
	cfg := writeTestConfig(t)

	require.NoError(t, execute("config", "set", "monitor.max_log_entries", "500", "-c", cfg))
	require.NoError(t, execute("config", "get", "monitor.max_log_entries", "-c", cfg))
}

func TestConfigEnableDisable(t *testing.T) {
	cfg := writeTestConfig(t)

	require.NoError(t, execute("config", "disable", "-c", cfg))
	require.NoError(t, execute("config", "enable", "-c", cfg))
}

func TestStatus_FreshInstall(t *testing.T) {
	cfg := writeTestConfig(t)

	assert.NoError(t, execute("status", "-c", cfg, "-o", "json"))
}

func TestCLIError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := ErrDatabase("failed to open database", inner)

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, ExitDatabase, err.ExitCode())
	assert.Contains(t, err.Error(), "boom")
}
