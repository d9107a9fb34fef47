package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/QIN2DIM/juicy/internal/alias"
	"github.com/QIN2DIM/juicy/internal/certd"
	"github.com/QIN2DIM/juicy/internal/common"
	"github.com/QIN2DIM/juicy/internal/config"
	"github.com/QIN2DIM/juicy/internal/domain"
	"github.com/QIN2DIM/juicy/internal/fetch"
	"github.com/QIN2DIM/juicy/internal/netutil"
	"github.com/QIN2DIM/juicy/internal/orchestrator"
	"github.com/QIN2DIM/juicy/internal/sysexec"
	"github.com/QIN2DIM/juicy/internal/sysservice"
)

// Application wires the component graph for one CLI invocation and runs the
// selected command to completion.
type Application struct {
	app     *fx.App
	logger  *zap.Logger
	command domain.Command
	orch    *orchestrator.Orchestrator
}

func NewApplication(opts ...common.Option) *Application {
	options := &common.ServiceOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Ensure required options are set
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	app := &Application{
		logger:  options.Logger,
		command: options.Command,
	}

	// Build fx application
	app.app = fx.New(
		// Core modules
		config.Module,
		sysexec.Module,
		netutil.Module,
		sysservice.Module,
		certd.Module,
		fetch.Module,
		alias.Module,
		orchestrator.Module,

		// Provide base dependencies
		fx.Provide(
			func() *zap.Logger { return options.Logger },
		),

		// Keep fx's own wiring chatter out of operator-facing output
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: logger}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),

		fx.Populate(&app.orch),
	)

	return app
}

// Run executes the command. Graph construction errors (bad settings, failed
// providers) surface here before any workflow step runs.
func (a *Application) Run(ctx context.Context) error {
	if err := a.app.Err(); err != nil {
		return err
	}
	return a.orch.Execute(ctx, a.command)
}
