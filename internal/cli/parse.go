package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/QIN2DIM/juicy/internal/domain"
)

type formatFlags struct {
	nekoray bool
	clash   bool
	v2ray   bool
	singbox bool
}

func (f *formatFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&f.nekoray, "nekoray", false, "show NekoRay config")
	fs.BoolVar(&f.clash, "clash", false, "show Clash.Meta config")
	fs.BoolVar(&f.v2ray, "v2ray", false, "show v2rayN config")
	fs.BoolVar(&f.singbox, "singbox", false, "show sing-box config")
}

func (f *formatFlags) selected() []domain.OutputFormat {
	var out []domain.OutputFormat
	if f.nekoray {
		out = append(out, domain.FormatNekoRay)
	}
	if f.clash {
		out = append(out, domain.FormatClash)
	}
	if f.v2ray {
		out = append(out, domain.FormatV2Ray)
	}
	if f.singbox {
		out = append(out, domain.FormatSingBox)
	}
	return out
}

func parseCommand(args []string) (domain.Command, error) {
	name := domain.CommandName(args[0])
	rest := args[1:]

	switch name {
	case domain.CommandInstall:
		return parseWithDomainAndFormats(name, rest, true)
	case domain.CommandRemove:
		return parseWithDomainAndFormats(name, rest, false)
	case domain.CommandCheck:
		return parseWithFormats(name, rest)
	case domain.CommandStatus, domain.CommandLog,
		domain.CommandStart, domain.CommandStop, domain.CommandRestart:
		if len(rest) > 0 {
			return domain.Command{}, fmt.Errorf("%s takes no arguments", name)
		}
		return domain.Command{Name: name}, nil
	}
	return domain.Command{}, fmt.Errorf("unknown command: %s", args[0])
}

func parseWithDomainAndFormats(name domain.CommandName, args []string, withFormats bool) (domain.Command, error) {
	fs := flag.NewFlagSet(string(name), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var domainArg string
	fs.StringVar(&domainArg, "d", "", "domain resolved to this host")
	fs.StringVar(&domainArg, "domain", "", "domain resolved to this host")

	var formats formatFlags
	if withFormats {
		formats.register(fs)
	}

	if err := fs.Parse(args); err != nil {
		return domain.Command{}, err
	}
	if fs.NArg() > 0 {
		return domain.Command{}, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return domain.Command{
		Name:    name,
		Domain:  domainArg,
		Formats: formats.selected(),
	}, nil
}

func parseWithFormats(name domain.CommandName, args []string) (domain.Command, error) {
	fs := flag.NewFlagSet(string(name), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var formats formatFlags
	formats.register(fs)

	if err := fs.Parse(args); err != nil {
		return domain.Command{}, err
	}
	if fs.NArg() > 0 {
		return domain.Command{}, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return domain.Command{Name: name, Formats: formats.selected()}, nil
}
