package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/QIN2DIM/juicy/internal/domain"
	"github.com/QIN2DIM/juicy/internal/proxyconf"
)

// Install provisions the whole service: certificate, workstation, service
// unit, server binary, server config, then - only once the service is
// confirmed active - the client artifacts.
func (o *Orchestrator) Install(ctx context.Context, cmd domain.Command) error {
	domainName, err := o.resolveDomainArg(cmd.Domain)
	if err != nil {
		return err
	}

	serverIP, err := o.validateDomain(ctx, domainName)
	if err != nil {
		return err
	}
	o.logger.Info("domain resolved successfully", zap.String("domain", domainName))

	cert := domain.Certificate{Domain: domainName}

	// Orchestrator-level short-circuit: an existing canonical certificate
	// is an already-satisfied precondition, not a reason to re-request.
	if o.certs.Exists(domainName) {
		o.logger.Info("certificate already exists", zap.String("path", cert.StorageDir()))
	} else if err := o.certs.Acquire(ctx, domainName); err != nil {
		// Rate limit (or any other acquisition failure) aborts before any
		// service or config mutation.
		return err
	}

	if err := o.settings.EnsureWorkstation(); err != nil {
		return err
	}
	o.aliases.Set()

	user, err := domain.NewUser()
	if err != nil {
		return err
	}

	port, err := o.ports.Allocate()
	if err != nil {
		return err
	}

	unit, err := o.service.RenderUnit()
	if err != nil {
		return err
	}
	if err := o.service.Install(ctx, unit); err != nil {
		return err
	}

	o.logger.Info("downloading juicity-server")
	if err := o.downloader.Install(ctx, o.service); err != nil {
		return err
	}

	// The probe socket was released at allocation time; re-validate right
	// before the service binds for real and move once if the port got
	// taken in the meantime.
	if !o.ports.Probe(port) {
		o.logger.Warn("allocated port got taken, re-allocating", zap.Int("port", port))
		if port, err = o.ports.Allocate(); err != nil {
			return err
		}
	}

	o.logger.Info("generating default server config")
	serverConfig := proxyconf.NewServerConfig([]domain.User{user}, cert, port, o.settings.CongestionControl)
	if err := serverConfig.WriteFile(o.settings.ServerConfigPath()); err != nil {
		return err
	}
	o.logger.Info("saved server config", zap.String("save_path", o.settings.ServerConfigPath()))

	o.logger.Info("deploying system service")
	if err := o.service.Start(ctx); err != nil {
		return err
	}

	o.logger.Info("checking service status")
	state := o.service.Status(ctx)
	if !state.Active {
		// Advisory failure: no client artifacts for a service that did
		// not come up.
		o.logger.Error("service failed to start", zap.String("status", state.Colorized()))
		return nil
	}

	o.logger.Info("generating client config")
	clientConfig := proxyconf.NewClientConfig(user, serverConfig, domainName, port, serverIP)
	if err := clientConfig.WriteFile(o.settings.ClientConfigPath()); err != nil {
		return err
	}
	if err := clientConfig.WriteShareLinkArtifacts(o.settings.ShareLinkPath(), o.settings.QRCodePath()); err != nil {
		o.logger.Warn("failed to write share-link artifacts", zap.Error(err))
	}

	o.display(clientConfig, cmd.Format())
	o.shellRefreshHint()
	return nil
}
