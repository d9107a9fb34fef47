// Package proxyconf builds the juicity server- and client-side
// configuration records and their JSON and share-link encodings. Everything
// here is a pure projection of already-resolved inputs; the only I/O is
// reading and writing the serialized artifacts.
package proxyconf

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/QIN2DIM/juicy/internal/domain"
)

// Listen is a juicity listen address, always normalized to the ":<port>"
// form. The upstream server accepts both bare and colon-prefixed ports (and
// some hand-written configs carry the port as a JSON number), so
// deserialization accepts all three shapes.
type Listen string

func NewListen(port int) Listen {
	return Listen(fmt.Sprintf(":%d", port))
}

func NormalizeListen(v string) Listen {
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, ":") {
		v = ":" + v
	}
	return Listen(v)
}

func (l *Listen) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n json.Number
		if err2 := json.Unmarshal(data, &n); err2 != nil {
			return fmt.Errorf("listen must be a string or number: %w", err)
		}
		s = n.String()
	}
	*l = NormalizeListen(s)
	return nil
}

// ServerConfig is the canonical on-disk configuration consumed by
// juicity-server. It is created at install time and never mutated in place;
// re-install regenerates it.
type ServerConfig struct {
	Listen            Listen                   `json:"listen"`
	Certificate       string                   `json:"certificate"`
	PrivateKey        string                   `json:"private_key"`
	Users             map[string]string        `json:"users"`
	CongestionControl domain.CongestionControl `json:"congestion_control"`
	LogLevel          string                   `json:"log_level"`
}

// NewServerConfig assembles the server config from provisioned users, the
// issued certificate and the allocated port.
func NewServerConfig(users []domain.User, cert domain.Certificate, port int, cc domain.CongestionControl) ServerConfig {
	m := make(map[string]string, len(users))
	for _, u := range users {
		m[u.Username] = u.Password
	}
	return ServerConfig{
		Listen:            NewListen(port),
		Certificate:       cert.Fullchain(),
		PrivateKey:        cert.PrivateKey(),
		Users:             m,
		CongestionControl: cc,
		LogLevel:          "info",
	}
}

// DecodeServerConfig parses a persisted server config. Missing optional
// fields take their declared defaults; unknown fields are ignored.
func DecodeServerConfig(data []byte) (ServerConfig, error) {
	cfg := ServerConfig{
		Users:             map[string]string{},
		CongestionControl: domain.CongestionBBR,
		LogLevel:          "info",
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("error parsing server config: %w", err)
	}
	if cfg.Users == nil {
		cfg.Users = map[string]string{}
	}
	if !cfg.CongestionControl.Valid() {
		return ServerConfig{}, fmt.Errorf("invalid congestion_control: %q", cfg.CongestionControl)
	}
	return cfg, nil
}

// Encode serializes the config as indented JSON.
func (c ServerConfig) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal server config: %w", err)
	}
	return data, nil
}

// WriteFile persists the config at the given path.
func (c ServerConfig) WriteFile(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write server config: %w", err)
	}
	return nil
}
