package sysservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"go.uber.org/zap"

	"github.com/QIN2DIM/juicy/internal/config"
	"github.com/QIN2DIM/juicy/internal/domain"
	"github.com/QIN2DIM/juicy/internal/sysexec"
)

const unitTemplate = `[Unit]
Description=juicity-server Service
Documentation=https://github.com/juicity/juicity
After=network.target nss-lookup.target

[Service]
Type=simple
User=root
ExecStart={{.ExecStart}}
Restart=on-failure
LimitNPROC=512
LimitNOFILE=infinity
WorkingDirectory={{.WorkingDirectory}}

[Install]
WantedBy=multi-user.target
`

// Manager installs and drives the juicity system service.
type Manager struct {
	sup      Supervisor
	runner   sysexec.Runner
	settings *config.Settings
	logger   *zap.Logger
}

func NewManager(sup Supervisor, runner sysexec.Runner, settings *config.Settings, logger *zap.Logger) *Manager {
	return &Manager{
		sup:      sup,
		runner:   runner,
		settings: settings,
		logger:   logger,
	}
}

// RenderUnit produces the service unit text for the current workstation
// layout.
func (m *Manager) RenderUnit() (string, error) {
	tmpl, err := template.New("unit").Parse(unitTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse unit template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		ExecStart        string
		WorkingDirectory string
	}{
		ExecStart:        fmt.Sprintf("%s run -c %s", m.settings.Executable(), m.settings.ServerConfigPath()),
		WorkingDirectory: m.settings.Workstation,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render unit template: %w", err)
	}
	return buf.String(), nil
}

// Install writes the unit file and reloads the supervisor's unit index. An
// empty unit text is the attach mode used by every operation other than a
// fresh install: the existing unit is left untouched.
func (m *Manager) Install(ctx context.Context, unitText string) error {
	if unitText == "" {
		return nil
	}
	if err := os.WriteFile(m.settings.ServiceUnitPath, []byte(unitText), 0644); err != nil {
		return fmt.Errorf("failed to write unit file: %w", err)
	}
	if err := m.sup.DaemonReload(ctx); err != nil {
		m.logger.Warn("daemon-reload failed", zap.Error(err))
	}
	return nil
}

// Start enables and starts the unit. Repeated starts on a running service
// are harmless.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.sup.EnableNow(ctx, m.settings.ServiceName); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	m.logger.Info("system service started")
	m.logger.Info("service enabled at boot")
	return nil
}

// Stop is best-effort: the unit may already be stopped.
func (m *Manager) Stop(ctx context.Context) {
	m.logger.Info("stopping system service")
	if err := m.sup.Stop(ctx, m.settings.ServiceName); err != nil {
		m.logger.Warn("stop failed", zap.Error(err))
	}
}

// Restart reloads the unit index first so an updated unit file takes effect.
func (m *Manager) Restart(ctx context.Context) {
	m.logger.Info("restarting system service")
	if err := m.sup.DaemonReload(ctx); err != nil {
		m.logger.Warn("daemon-reload failed", zap.Error(err))
	}
	if err := m.sup.Restart(ctx, m.settings.ServiceName); err != nil {
		m.logger.Warn("restart failed", zap.Error(err))
	}
}

// Journal follows the unit's log output until the context is canceled.
func (m *Manager) Journal(ctx context.Context) error {
	return m.sup.StreamJournal(ctx, m.settings.ServiceName)
}

// Status maps supervisor liveness to the tri-state result. Advisory only:
// the supervisor considering the unit active does not guarantee the proxy
// is serving traffic.
func (m *Manager) Status(ctx context.Context) domain.ServiceState {
	text := m.sup.IsActive(ctx, m.settings.ServiceName)
	return domain.ServiceState{
		Active: text == "active",
		Text:   text,
	}
}

// Remove tears the installation down. Ordering matters: the unit must be
// disabled and the process dead before the workstation is deleted, or an
// on-failure restart could resurrect the server against a half-deleted
// tree.
func (m *Manager) Remove(ctx context.Context) error {
	m.logger.Info("unregistering system service")
	if err := m.sup.DisableNow(ctx, m.settings.ServiceName); err != nil {
		m.logger.Warn("disable failed", zap.Error(err))
	}

	m.logger.Info("terminating lingering processes")
	if err := m.runner.KillByName(ctx, filepath.Base(m.settings.Executable())); err != nil {
		m.logger.Warn("kill by name failed", zap.Error(err))
	}

	m.logger.Info("removing unit file")
	if err := os.Remove(m.settings.ServiceUnitPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		m.logger.Warn("unit file removal failed", zap.Error(err))
	}

	m.logger.Info("removing workstation")
	if err := os.RemoveAll(m.settings.Workstation); err != nil {
		return fmt.Errorf("failed to remove workstation: %w", err)
	}
	return nil
}
