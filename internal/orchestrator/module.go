package orchestrator

import (
	"go.uber.org/fx"

	"github.com/QIN2DIM/juicy/internal/certd"
	"github.com/QIN2DIM/juicy/internal/fetch"
	"github.com/QIN2DIM/juicy/internal/sysservice"
)

var Module = fx.Options(
	fx.Provide(New),
	fx.Provide(func(m *certd.Manager) CertificateLifecycle { return m }),
	fx.Provide(func(m *sysservice.Manager) ServiceManager { return m }),
	fx.Provide(func(d *fetch.Downloader) BinaryInstaller { return d }),
)
