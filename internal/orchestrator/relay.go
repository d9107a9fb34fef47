package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/QIN2DIM/juicy/internal/domain"
)

// Relay passes service lifecycle commands through to the service manager,
// with supplementary diagnostics for status.
func (o *Orchestrator) Relay(ctx context.Context, name domain.CommandName) error {
	switch name {
	case domain.CommandStatus:
		o.status(ctx)
	case domain.CommandLog:
		return o.service.Journal(ctx)
	case domain.CommandStart:
		return o.service.Start(ctx)
	case domain.CommandStop:
		o.service.Stop(ctx)
	case domain.CommandRestart:
		o.service.Restart(ctx)
	}
	return nil
}

func (o *Orchestrator) status(ctx context.Context) {
	state := o.service.Status(ctx)
	o.logger.Info("juicity service state", zap.String("status", state.Colorized()))

	version, _, err := o.runner.Output(ctx, o.settings.Executable(), "-v")
	if err != nil {
		o.logger.Warn("failed to query server version", zap.Error(err))
	} else {
		o.logger.Info("juicity service version", zap.String("version", version))
	}

	o.logger.Info("certificate renewal state",
		zap.String("status", o.certs.RenewalTimerState(ctx)))

	o.logger.Info("server config", zap.String("path", o.settings.ServerConfigPath()))
	o.logger.Info("client config [NekoRay]", zap.String("path", o.settings.ClientConfigPath()))
	o.logger.Info("system service unit", zap.String("path", o.settings.ServiceUnitPath))
}
