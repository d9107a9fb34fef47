// Package certd brackets the external ACME client (certbot) with the pre-
// and post-hooks a standalone HTTP-01 request needs on a live host.
package certd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/QIN2DIM/juicy/internal/domain"
	"github.com/QIN2DIM/juicy/internal/netutil"
	"github.com/QIN2DIM/juicy/internal/sysexec"
	"github.com/QIN2DIM/juicy/internal/sysservice"
)

// rateLimitMarker is the authority-specific quota phrase in certbot's
// diagnostics: Let's Encrypt caps issuance per domain over a rolling
// 168-hour window.
const rateLimitMarker = "168 hours"

// renewalTimer is certbot's periodic renewal unit.
const renewalTimer = "certbot.timer"

// ErrRateLimited means the certificate authority refused issuance for quota
// reasons. Not retryable within the current invocation; the operator can
// point a fresh A record at the host instead.
var ErrRateLimited = errors.New("certificate authority rate limit reached")

// Manager drives certificate acquisition and revocation for one domain at a
// time.
type Manager struct {
	runner sysexec.Runner
	sup    sysservice.Supervisor
	logger *zap.Logger

	// liveDir and portInUse default to the real certificate store and bind
	// probe; tests substitute both.
	liveDir   string
	portInUse func(port int, proto string) bool
}

func NewManager(runner sysexec.Runner, sup sysservice.Supervisor, logger *zap.Logger) *Manager {
	return &Manager{
		runner:    runner,
		sup:       sup,
		logger:    logger,
		liveDir:   domain.LetsEncryptLiveDir,
		portInUse: netutil.PortInUse,
	}
}

// Exists reports whether the canonical certificate for the domain is
// already on disk.
func (m *Manager) Exists(domainName string) bool {
	_, err := os.Stat(filepath.Join(m.liveDir, domainName, "fullchain.pem"))
	return err == nil
}

// Acquire requests a certificate for the domain in standalone mode. The
// post-hook runs regardless of the request outcome: a stopped port-80
// occupant is revived and the renewal timer is enabled (idempotent).
func (m *Manager) Acquire(ctx context.Context, domainName string) error {
	revive := m.preHook(ctx, domainName)
	defer m.postHook(ctx, revive)
	return m.request(ctx, domainName)
}

// preHook clears stale certificate directories and frees port 80 for the
// self-served HTTP-01 challenge. Returns whether a port-80 occupant was
// stopped and should be revived afterwards.
func (m *Manager) preHook(ctx context.Context, domainName string) bool {
	m.sweepStaleDirs(domainName)

	m.logger.Info("requesting a free certificate for the domain bound to this host")
	m.ensureClient(ctx)

	m.logger.Info("checking port 80 occupancy")
	if !m.portInUse(80, "tcp") {
		return false
	}
	if err := m.sup.Stop(ctx, "nginx"); err != nil {
		m.logger.Debug("nginx stop returned", zap.Error(err))
	}
	if err := m.runner.Run(ctx, "bash", "-c", "kill $(lsof -t -i:80)"); err != nil {
		m.logger.Debug("port 80 occupant kill returned", zap.Error(err))
	}
	return true
}

// sweepStaleDirs removes duplicate-suffix directories (domain-0001 and
// friends) the ACME client leaves behind on repeated requests, but only
// while the canonical directory is missing.
func (m *Manager) sweepStaleDirs(domainName string) {
	entries, err := os.ReadDir(m.liveDir)
	if err != nil {
		return
	}

	if _, err := os.Stat(filepath.Join(m.liveDir, domainName)); err == nil {
		return
	}

	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), domainName+"-") {
			continue
		}
		m.logger.Info("removing stale certificate directory", zap.String("dir", e.Name()))
		if err := os.RemoveAll(filepath.Join(m.liveDir, e.Name())); err != nil {
			m.logger.Warn("stale certificate cleanup failed", zap.Error(err))
		}
	}
}

// ensureClient installs certbot if missing. Best-effort: on a host that
// already has it this is a no-op, and a failure here surfaces soon enough
// as a failed request.
func (m *Manager) ensureClient(ctx context.Context) {
	m.logger.Info("updating package index")
	if err := m.runner.Run(ctx, "apt-get", "update", "-y"); err != nil {
		m.logger.Debug("apt-get update returned", zap.Error(err))
	}
	m.logger.Info("installing certbot")
	if err := m.runner.Run(ctx, "apt-get", "install", "certbot", "-y"); err != nil {
		m.logger.Debug("certbot install returned", zap.Error(err))
	}
}

func (m *Manager) request(ctx context.Context, domainName string) error {
	m.logger.Info("starting certificate request")
	_, stderr, err := m.runner.Output(ctx, "certbot",
		"certonly",
		"--standalone",
		"--register-unsafely-without-email",
		"--agree-tos",
		"--keep",
		"--non-interactive",
		"-d", domainName,
	)
	if strings.Contains(stderr, rateLimitMarker) {
		m.logger.Warn(
			"a domain can be issued at most 5 free certificates per 168 hours; " +
				"create a new A record for this host to work around the quota. " +
				"There is no point continuing the install until this is resolved.")
		return ErrRateLimited
	}
	if err != nil {
		return fmt.Errorf("certificate request failed: %w (%s)", err, stderr)
	}
	return nil
}

func (m *Manager) postHook(ctx context.Context, revive bool) {
	if revive {
		if err := m.sup.Restart(ctx, "nginx"); err != nil {
			m.logger.Warn("failed to revive port 80 occupant", zap.Error(err))
		}
	}

	m.logger.Info("enabling certificate renewal service", zap.String("service", renewalTimer))
	if err := m.sup.DaemonReload(ctx); err != nil {
		m.logger.Warn("daemon-reload failed", zap.Error(err))
	}
	if err := m.sup.EnableNow(ctx, renewalTimer); err != nil {
		m.logger.Warn("failed to enable renewal timer", zap.Error(err))
	}
}

// Revoke deletes the named certificate best-effort: the client-side delete
// is auto-confirmed, and the storage directory is removed regardless of the
// client's verdict as a defense against partial state.
func (m *Manager) Revoke(ctx context.Context, domainName string) {
	m.logger.Info("removing possibly lingering certificate files")
	if err := m.runner.RunWithInput(ctx, "y\n", "certbot", "delete", "--cert-name", domainName); err != nil {
		m.logger.Warn("certbot delete failed", zap.Error(err))
	}

	dir := filepath.Join(m.liveDir, domainName)
	if err := os.RemoveAll(dir); err != nil {
		m.logger.Warn("certificate directory removal failed", zap.String("dir", dir), zap.Error(err))
	}
}

// RenewalTimerState reports the renewal timer's supervisor liveness text.
func (m *Manager) RenewalTimerState(ctx context.Context) string {
	return m.sup.IsActive(ctx, renewalTimer)
}
