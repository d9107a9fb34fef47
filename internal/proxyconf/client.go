package proxyconf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/QIN2DIM/juicy/internal/domain"
)

// ClientListenPlaceholder is the local SOCKS front-end address as NekoRay
// expects it, with the port left for the client app to substitute.
const ClientListenPlaceholder = "127.0.0.1:%socks_port%"

// ErrNoClientConfig is returned when no client artifact has been generated
// yet (install not run, or the service failed to start).
var ErrNoClientConfig = errors.New("client config has not been generated")

// ClientConfig is the NekoRay-compatible juicity client configuration,
// derived deterministically from the server config plus the discovered
// public IP.
type ClientConfig struct {
	Server            string                   `json:"server"`
	Listen            string                   `json:"listen"`
	UUID              string                   `json:"uuid"`
	Password          string                   `json:"password"`
	SNI               string                   `json:"sni"`
	AllowInsecure     bool                     `json:"allow_insecure"`
	CongestionControl domain.CongestionControl `json:"congestion_control"`
	LogLevel          string                   `json:"log_level"`
}

// NewClientConfig derives the client config for one user. The SNI carries
// the domain for TLS server-name verification; congestion control is
// inherited from the server config so both ends agree by construction.
func NewClientConfig(user domain.User, server ServerConfig, domainName string, port int, serverIP string) ClientConfig {
	return ClientConfig{
		Server:            fmt.Sprintf("%s:%d", serverIP, port),
		Listen:            ClientListenPlaceholder,
		UUID:              user.Username,
		Password:          user.Password,
		SNI:               domainName,
		CongestionControl: server.CongestionControl,
		LogLevel:          "info",
	}
}

// DecodeClientConfig parses a persisted client config. Missing optional
// fields take their declared defaults; unknown fields are ignored.
func DecodeClientConfig(data []byte) (ClientConfig, error) {
	cfg := ClientConfig{
		AllowInsecure:     false,
		CongestionControl: domain.CongestionBBR,
		LogLevel:          "info",
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("error parsing client config: %w", err)
	}
	if !cfg.CongestionControl.Valid() {
		return ClientConfig{}, fmt.Errorf("invalid congestion_control: %q", cfg.CongestionControl)
	}
	return cfg, nil
}

// LoadClientConfig reads the persisted client config from the workstation.
func LoadClientConfig(path string) (ClientConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ClientConfig{}, ErrNoClientConfig
	}
	if err != nil {
		return ClientConfig{}, fmt.Errorf("error reading client config: %w", err)
	}
	return DecodeClientConfig(data)
}

// Encode serializes the config as indented JSON.
func (c ClientConfig) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal client config: %w", err)
	}
	return data, nil
}

// WriteFile persists the config at the given path.
func (c ClientConfig) WriteFile(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write client config: %w", err)
	}
	return nil
}

// Showcase renders the config as display JSON for the console.
func (c ClientConfig) Showcase() string {
	data, _ := c.Encode()
	return string(data)
}

// ServerPeer splits the server endpoint into address and port.
func (c ClientConfig) ServerPeer() (addr, port string) {
	i := strings.LastIndex(c.Server, ":")
	if i < 0 {
		return c.Server, ""
	}
	return c.Server[:i], c.Server[i+1:]
}
