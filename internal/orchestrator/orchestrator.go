// Package orchestrator sequences the install, remove, check and service
// relay workflows over the component capabilities.
package orchestrator

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/QIN2DIM/juicy/internal/alias"
	"github.com/QIN2DIM/juicy/internal/config"
	"github.com/QIN2DIM/juicy/internal/domain"
	"github.com/QIN2DIM/juicy/internal/fetch"
	"github.com/QIN2DIM/juicy/internal/netutil"
	"github.com/QIN2DIM/juicy/internal/sysexec"
)

// CertificateLifecycle is the certificate side of the install/remove flows.
type CertificateLifecycle interface {
	Exists(domainName string) bool
	Acquire(ctx context.Context, domainName string) error
	Revoke(ctx context.Context, domainName string)
	RenewalTimerState(ctx context.Context) string
}

// ServiceManager is the background-service side of the workflows.
type ServiceManager interface {
	RenderUnit() (string, error)
	Install(ctx context.Context, unitText string) error
	Start(ctx context.Context) error
	Stop(ctx context.Context)
	Restart(ctx context.Context)
	Status(ctx context.Context) domain.ServiceState
	Journal(ctx context.Context) error
	Remove(ctx context.Context) error
}

// BinaryInstaller places the server executable into the workstation.
type BinaryInstaller interface {
	Install(ctx context.Context, stopper fetch.ServiceStopper) error
}

// Orchestrator runs one command workflow to completion per invocation.
type Orchestrator struct {
	settings   *config.Settings
	ipChecker  netutil.IPChecker
	resolver   netutil.Resolver
	ports      netutil.PortAllocator
	certs      CertificateLifecycle
	service    ServiceManager
	downloader BinaryInstaller
	aliases    *alias.Manager
	runner     sysexec.Runner
	logger     *zap.Logger
}

func New(
	settings *config.Settings,
	ipChecker netutil.IPChecker,
	resolver netutil.Resolver,
	ports netutil.PortAllocator,
	certs CertificateLifecycle,
	service ServiceManager,
	downloader BinaryInstaller,
	aliases *alias.Manager,
	runner sysexec.Runner,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		settings:   settings,
		ipChecker:  ipChecker,
		resolver:   resolver,
		ports:      ports,
		certs:      certs,
		service:    service,
		downloader: downloader,
		aliases:    aliases,
		runner:     runner,
		logger:     logger,
	}
}

// Execute dispatches the parsed command to its workflow.
func (o *Orchestrator) Execute(ctx context.Context, cmd domain.Command) error {
	switch cmd.Name {
	case domain.CommandInstall:
		return o.Install(ctx, cmd)
	case domain.CommandRemove:
		return o.Remove(ctx, cmd)
	case domain.CommandCheck:
		return o.Check(cmd)
	case domain.CommandStatus, domain.CommandLog,
		domain.CommandStart, domain.CommandStop, domain.CommandRestart:
		return o.Relay(ctx, cmd.Name)
	}
	return fmt.Errorf("unknown command: %s", cmd.Name)
}

// validateDomain resolves the domain and requires it to point at this host.
// Returns the resolved server IP. Any mismatch is a hard stop: installing
// against a domain that resolves elsewhere produces an unusable service.
func (o *Orchestrator) validateDomain(ctx context.Context, domainName string) (string, error) {
	serverIP, err := o.resolver.Resolve(ctx, domainName)
	if err != nil {
		return "", fmt.Errorf("domain is unreachable or misspelled - domain=%s: %w", domainName, err)
	}

	myIP, err := o.ipChecker.PublicIP(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to discover public IP: %w", err)
	}
	if myIP != serverIP {
		return "", fmt.Errorf(
			"this host's public IP does not match the domain's resolved IP - my_ip=%s domain=%s server_ip=%s",
			myIP, domainName, serverIP,
		)
	}
	return serverIP, nil
}

// resolveDomainArg returns the domain from the flag, prompting interactively
// when the flag is absent and stdin is a terminal.
func (o *Orchestrator) resolveDomainArg(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg != "" {
		return arg, nil
	}
	if !isInteractiveInput() {
		return "", fmt.Errorf("missing -d/--domain and stdin is not a terminal")
	}

	fmt.Print("> domain resolved to this host: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read domain: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("empty domain")
	}
	return line, nil
}

func isInteractiveInput() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// shellRefreshHint replaces the original in-process shell re-exec: the
// operator is told to refresh the session so the alias takes effect.
func (o *Orchestrator) shellRefreshHint() {
	o.logger.Info("restart your shell session to pick up the alias (e.g. exec $SHELL -l)")
}
