package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/QIN2DIM/juicy/internal/domain"
)

// Remove tears the installation down: alias, certificate, service unit and
// workstation. The service does not need to be running.
func (o *Orchestrator) Remove(ctx context.Context, cmd domain.Command) error {
	domainName, err := o.resolveDomainArg(cmd.Domain)
	if err != nil {
		return err
	}
	if _, err := o.validateDomain(ctx, domainName); err != nil {
		return err
	}
	o.logger.Info("unbinding service", zap.String("bind", domainName))

	o.aliases.Remove()
	o.certs.Revoke(ctx, domainName)

	if err := o.service.Remove(ctx); err != nil {
		return err
	}

	o.shellRefreshHint()
	return nil
}
