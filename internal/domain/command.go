package domain

// CommandName is a CLI subcommand recognized by the orchestrator.
type CommandName string

const (
	CommandInstall CommandName = "install"
	CommandRemove  CommandName = "remove"
	CommandCheck   CommandName = "check"
	CommandStatus  CommandName = "status"
	CommandLog     CommandName = "log"
	CommandStart   CommandName = "start"
	CommandStop    CommandName = "stop"
	CommandRestart CommandName = "restart"
)

// OutputFormat selects the client artifact variant to display. Only NekoRay
// is implemented; the other flags are accepted for forward compatibility.
type OutputFormat string

const (
	FormatNekoRay OutputFormat = "nekoray"
	FormatClash   OutputFormat = "clash"
	FormatV2Ray   OutputFormat = "v2ray"
	FormatSingBox OutputFormat = "singbox"
)

// Command carries one parsed CLI invocation through the fx graph.
type Command struct {
	Name    CommandName
	Domain  string
	Formats []OutputFormat
}

// Format returns the requested output variant, defaulting to NekoRay when no
// format flag was given.
func (c Command) Format() OutputFormat {
	if len(c.Formats) == 0 {
		return FormatNekoRay
	}
	return c.Formats[0]
}

// ServiceState is the supervisor's answer about unit liveness. Active is
// authoritative only when true; anything else is surfaced through Text for
// display.
type ServiceState struct {
	Active bool
	Text   string
}

// Colorized renders the state text with the conventional terminal colors:
// green for active, red for inactive, plain otherwise.
func (s ServiceState) Colorized() string {
	switch s.Text {
	case "active":
		return "\033[32m" + s.Text + "\033[0m"
	case "inactive":
		return "\033[91m" + s.Text + "\033[0m"
	}
	return s.Text
}
