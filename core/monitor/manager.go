// Package monitor hosts the security manager that owns guard lifecycles
// and applies the enablement policy.
package monitor

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/safedep/dry/log"

	"github.com/wardenlabs/promptwarden/config"
	"github.com/wardenlabs/promptwarden/core/guard"
	"github.com/wardenlabs/promptwarden/core/scan"
	"github.com/wardenlabs/promptwarden/notify"
	"github.com/wardenlabs/promptwarden/promptlog"
	"github.com/wardenlabs/promptwarden/storage"
)

// State is the lifecycle phase of the security manager.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateReady         State = "ready"
)

// Status is a point-in-time snapshot of the monitoring state.
type Status struct {
	PromptGuardReady bool   `json:"promptGuardReady"`
	IsInitialized    bool   `json:"isInitialized"`
	Domain           string `json:"domain"`
}

// SecurityManager coordinates the guards. Protection is active only while
// the user is authenticated and monitoring is enabled in the runtime
// configuration; either condition dropping disables every guard.
type SecurityManager struct {
	store    storage.Store
	notifier *notify.Manager
	logs     *promptlog.Service
	domain   string

	promptGuard guard.Guard
	uploadGuard guard.Guard

	mu            sync.Mutex
	state         State
	authenticated bool
	configEnabled bool
	pendingToggle *bool
}

// NewSecurityManager creates a manager over the given guards. The domain
// labels status snapshots and log entries; empty falls back to the host
// name.
func NewSecurityManager(store storage.Store, promptGuard, uploadGuard guard.Guard, notifier *notify.Manager, logs *promptlog.Service, domain string) *SecurityManager {
	if domain == "" {
		domain, _ = os.Hostname()
	}
	return &SecurityManager{
		store:       store,
		notifier:    notifier,
		logs:        logs,
		domain:      domain,
		promptGuard: promptGuard,
		uploadGuard: uploadGuard,
		state:       StateUninitialized,
	}
}

// Initialize brings the manager to ready: it loads the runtime
// configuration and auth state, attaches the guards, and applies the
// enablement policy. Calling it on a ready manager is a no-op. A guard
// failing to attach degrades to ready-but-disabled instead of failing the
// caller.
func (m *SecurityManager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StateReady || m.state == StateInitializing {
		m.mu.Unlock()
		return nil
	}
	m.state = StateInitializing
	m.mu.Unlock()

	cfg := config.LoadConfiguration(ctx, m.store)
	token := config.LoadAuthToken(ctx, m.store)

	m.mu.Lock()
	m.configEnabled = cfg.Enabled
	if m.pendingToggle != nil {
		m.configEnabled = *m.pendingToggle
		m.pendingToggle = nil
	}
	if token != "" {
		m.authenticated = true
	}
	m.mu.Unlock()

	if err := m.attachGuards(ctx); err != nil {
		log.Errorf("monitor: failed to initialize guards: %v", err)
		m.notifier.Show("Security monitoring failed to start, protection disabled",
			notify.SeverityError, nil)

		m.mu.Lock()
		m.configEnabled = false
		m.state = StateReady
		m.mu.Unlock()

		m.applyEnablement()
		m.logs.Add(ctx, scan.KindError, m.domain,
			"security monitoring failed to initialize: "+err.Error(), "init_failed")
		return nil
	}

	m.mu.Lock()
	m.state = StateReady
	m.mu.Unlock()

	m.applyEnablement()
	m.logs.Add(ctx, scan.KindInfo, m.domain, "security monitoring initialized", "")
	return nil
}

func (m *SecurityManager) attachGuards(ctx context.Context) error {
	if err := m.promptGuard.Initialize(ctx); err != nil {
		return err
	}
	if err := m.uploadGuard.Initialize(ctx); err != nil {
		m.promptGuard.Cleanup()
		return err
	}
	return nil
}

// SetEnabled records the monitoring toggle. Before the manager is ready
// the value is queued and applied once initialization completes.
func (m *SecurityManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	if m.state != StateReady {
		v := enabled
		m.pendingToggle = &v
		m.mu.Unlock()
		return
	}
	m.configEnabled = enabled
	m.mu.Unlock()

	m.applyEnablement()
}

// SetAuthenticated records the auth state and reapplies the enablement
// policy. Protection never runs for an unauthenticated user regardless of
// the configuration toggle.
func (m *SecurityManager) SetAuthenticated(authenticated bool) {
	m.mu.Lock()
	m.authenticated = authenticated
	m.mu.Unlock()

	m.applyEnablement()
}

// WatchStore polls the shared store and folds external configuration and
// auth changes into the enablement policy. The channel only reaches
// in-process subscribers, so edits made by another process (the config
// and auth commands) land in the store alone; polling is what makes them
// take effect in a running daemon. Blocks until ctx is done.
func (m *SecurityManager) WatchStore(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.refreshFromStore(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// refreshFromStore reloads the runtime configuration and auth token and
// reapplies the enablement policy when either changed.
func (m *SecurityManager) refreshFromStore(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateReady {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	cfg := config.LoadConfiguration(ctx, m.store)
	token := config.LoadAuthToken(ctx, m.store)
	authenticated := token != ""

	m.mu.Lock()
	changed := cfg.Enabled != m.configEnabled || authenticated != m.authenticated
	m.configEnabled = cfg.Enabled
	m.authenticated = authenticated
	m.mu.Unlock()

	if changed {
		log.Debugf("monitor: runtime state changed in store (enabled=%v authenticated=%v)",
			cfg.Enabled, authenticated)
		m.applyEnablement()
	}
}

// GetStatus returns a snapshot of the monitoring state.
func (m *SecurityManager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Status{
		PromptGuardReady: m.promptGuard.IsProtectionReady(),
		IsInitialized:    m.state == StateReady,
		Domain:           m.domain,
	}
}

// State returns the current lifecycle phase.
func (m *SecurityManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Cleanup detaches the guards, clears pending notifications, and returns
// the manager to uninitialized so it can be initialized again. It runs
// synchronously and tolerates repeated calls.
func (m *SecurityManager) Cleanup(ctx context.Context) {
	m.mu.Lock()
	if m.state == StateUninitialized {
		m.mu.Unlock()
		return
	}
	m.state = StateUninitialized
	m.mu.Unlock()

	m.promptGuard.Cleanup()
	m.uploadGuard.Cleanup()
	m.notifier.Clear()
	m.logs.Flush(ctx)
}

// applyEnablement pushes the effective protection state to the guards.
func (m *SecurityManager) applyEnablement() {
	m.mu.Lock()
	effective := m.state == StateReady && m.authenticated && m.configEnabled
	m.mu.Unlock()

	m.promptGuard.SetEnabled(effective)
	m.uploadGuard.SetEnabled(effective)
}
