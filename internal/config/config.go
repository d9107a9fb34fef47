package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/QIN2DIM/juicy/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// DefaultSettingsPath is the optional operator override file. Absent file is
// not an error; every field has a working default.
const DefaultSettingsPath = "/etc/juicy/juicy.yaml"

// Settings is the process-wide installation layout, constructed once per
// invocation and threaded through every component (no ambient globals).
type Settings struct {
	// Workstation is the directory holding all persisted state for the
	// single installation on this host.
	Workstation string `yaml:"workstation" validate:"required"`

	// ServiceName is the systemd unit name (without the .service suffix).
	ServiceName string `yaml:"service_name" validate:"required"`

	// ServiceUnitPath is where the rendered unit file is written.
	ServiceUnitPath string `yaml:"service_unit_path" validate:"required"`

	// DownloadURL points at the juicity-server release archive.
	DownloadURL string `yaml:"download_url" validate:"required,url"`

	// IPEchoURL returns this host's public IP as plain text.
	IPEchoURL string `yaml:"ip_echo_url" validate:"required,url"`

	// PortRangeLow and PortRangeHigh bound the half-open candidate range
	// probed by the port allocator.
	PortRangeLow  int `yaml:"port_range_low" validate:"required,min=1024,max=65535"`
	PortRangeHigh int `yaml:"port_range_high" validate:"required,gtfield=PortRangeLow,max=65535"`

	CongestionControl domain.CongestionControl `yaml:"congestion_control" validate:"required,oneof=bbr cubic new_reno"`
	LogLevel          string                   `yaml:"log_level" validate:"required,oneof=debug info warn error"`
}

func defaultSettings() Settings {
	return Settings{
		Workstation:       "/home/juicity",
		ServiceName:       "juicity",
		ServiceUnitPath:   "/etc/systemd/system/juicity.service",
		DownloadURL:       "https://github.com/juicity/juicity/releases/download/v0.1.0/juicity-linux-x86_64.zip",
		IPEchoURL:         "http://ifconfig.me/ip",
		PortRangeLow:      41670,
		PortRangeHigh:     46990,
		CongestionControl: domain.CongestionBBR,
		LogLevel:          "info",
	}
}

// NewSettings builds the settings from defaults, applies the YAML override
// file when one exists (JUICY_SETTINGS wins over the default path), and
// validates the result.
func NewSettings() (*Settings, error) {
	path := os.Getenv("JUICY_SETTINGS")
	if path == "" {
		path = DefaultSettingsPath
	}
	return load(path)
}

func load(path string) (*Settings, error) {
	cfg := defaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("error reading settings: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing settings: %w", err)
		}
	}

	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return nil, formatValidationErrors(validationErrors)
		}
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}

	return &cfg, nil
}

// EnsureWorkstation creates the workstation directory if it does not exist.
func (s *Settings) EnsureWorkstation() error {
	if err := os.MkdirAll(s.Workstation, 0755); err != nil {
		return fmt.Errorf("failed to create workstation at %s: %w", s.Workstation, err)
	}
	return nil
}

// Executable is the installed juicity-server binary path.
func (s *Settings) Executable() string {
	return filepath.Join(s.Workstation, "juicity-server")
}

// ServerConfigPath is the canonical on-disk server configuration.
func (s *Settings) ServerConfigPath() string {
	return filepath.Join(s.Workstation, "server.json")
}

// ClientConfigPath is the persisted NekoRay client configuration.
func (s *Settings) ClientConfigPath() string {
	return filepath.Join(s.Workstation, "nekoray_config.json")
}

// ShareLinkPath is the plain-text share link artifact.
func (s *Settings) ShareLinkPath() string {
	return filepath.Join(s.Workstation, "sharelink.txt")
}

// QRCodePath is the share-link QR code image.
func (s *Settings) QRCodePath() string {
	return filepath.Join(s.Workstation, "sharelink.png")
}

// ArchivePath is where the downloaded release archive lands before
// extraction.
func (s *Settings) ArchivePath() string {
	return filepath.Join(s.Workstation, filepath.Base(s.DownloadURL))
}

// formatValidationErrors formats validation errors into a user-friendly error message
func formatValidationErrors(errors validator.ValidationErrors) error {
	var errMsgs []string
	for _, err := range errors {
		errMsgs = append(errMsgs, fmt.Sprintf(
			"field '%s' failed validation: %s",
			err.Field(),
			err.Tag(),
		))
	}
	return fmt.Errorf("validation errors: %v", errMsgs)
}
