package orchestrator

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/QIN2DIM/juicy/internal/domain"
	"github.com/QIN2DIM/juicy/internal/proxyconf"
)

const templateShareLink = `
%s--> Juicity universal subscription%s
%s%s%s
`

const templateNekoRay = `
%s--> NekoRay custom core config%s
# Name:    (custom)
# Address: %s
# Port:    %s
# Command: run -c %%config%%
# Core:    juicity

%s
`

const (
	colorCyan  = "\033[36m"
	colorBlue  = "\033[34m"
	colorReset = "\033[0m"
)

// Check prints the persisted client artifacts without touching any state.
func (o *Orchestrator) Check(cmd domain.Command) error {
	clientConfig, err := proxyconf.LoadClientConfig(o.settings.ClientConfigPath())
	if err != nil {
		o.logger.Error("client config does not exist, run install first",
			zap.String("path", o.settings.ClientConfigPath()), zap.Error(err))
		return err
	}
	o.display(clientConfig, cmd.Format())
	return nil
}

// display prints the share link and the requested client-config variant.
// Only the NekoRay variant is implemented.
func (o *Orchestrator) display(clientConfig proxyconf.ClientConfig, format domain.OutputFormat) {
	switch format {
	case domain.FormatNekoRay:
		o.printNekoRay(clientConfig)
	case domain.FormatClash, domain.FormatV2Ray, domain.FormatSingBox:
		o.logger.Warn("unimplemented feature", zap.String("format", string(format)))
	default:
		o.printNekoRay(clientConfig)
	}
}

func (o *Orchestrator) printNekoRay(clientConfig proxyconf.ClientConfig) {
	servAddr, servPort := clientConfig.ServerPeer()
	fmt.Printf(templateShareLink, colorCyan, colorReset, colorBlue, clientConfig.ShareLink(), colorReset)
	fmt.Printf(templateNekoRay, colorCyan, colorReset, servAddr, servPort, clientConfig.Showcase())
}
