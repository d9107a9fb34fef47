// Package sysservice manages the background proxy service through the OS
// service supervisor.
package sysservice

import (
	"context"

	"github.com/QIN2DIM/juicy/internal/sysexec"
)

// Supervisor is the narrow capability this system needs from the OS service
// supervisor: unit index reload, enable/disable, stop/restart, liveness
// query and log streaming, all by unit name.
type Supervisor interface {
	DaemonReload(ctx context.Context) error
	EnableNow(ctx context.Context, unit string) error
	DisableNow(ctx context.Context, unit string) error
	Stop(ctx context.Context, unit string) error
	Restart(ctx context.Context, unit string) error

	// IsActive returns the supervisor's textual liveness state for the
	// unit ("active", "inactive", "failed", ...).
	IsActive(ctx context.Context, unit string) string

	// StreamJournal follows the unit's log output until ctx is canceled.
	StreamJournal(ctx context.Context, unit string) error
}

type systemdSupervisor struct {
	runner sysexec.Runner
}

// NewSupervisor creates a systemd-backed Supervisor.
func NewSupervisor(runner sysexec.Runner) Supervisor {
	return &systemdSupervisor{runner: runner}
}

func (s *systemdSupervisor) DaemonReload(ctx context.Context) error {
	return s.runner.Run(ctx, "systemctl", "daemon-reload")
}

func (s *systemdSupervisor) EnableNow(ctx context.Context, unit string) error {
	return s.runner.Run(ctx, "systemctl", "enable", "--now", unit)
}

func (s *systemdSupervisor) DisableNow(ctx context.Context, unit string) error {
	return s.runner.Run(ctx, "systemctl", "disable", "--now", unit)
}

func (s *systemdSupervisor) Stop(ctx context.Context, unit string) error {
	return s.runner.Run(ctx, "systemctl", "stop", unit)
}

func (s *systemdSupervisor) Restart(ctx context.Context, unit string) error {
	return s.runner.Run(ctx, "systemctl", "restart", unit)
}

func (s *systemdSupervisor) IsActive(ctx context.Context, unit string) string {
	// is-active exits non-zero for anything but "active"; the text on
	// stdout is the state either way.
	out, _, _ := s.runner.Output(ctx, "systemctl", "is-active", unit)
	return out
}

func (s *systemdSupervisor) StreamJournal(ctx context.Context, unit string) error {
	return s.runner.Stream(ctx, "journalctl", "-u", unit, "-f", "-o", "cat")
}
