package proxyconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QIN2DIM/juicy/internal/domain"
)

func TestNewClientConfig(t *testing.T) {
	user := domain.User{Username: "u1", Password: "p1"}
	server := ServerConfig{
		Listen:            ":41999",
		CongestionControl: domain.CongestionCubic,
	}

	cfg := NewClientConfig(user, server, "example.com", 41999, "1.2.3.4")

	assert.Equal(t, "1.2.3.4:41999", cfg.Server)
	assert.Equal(t, ClientListenPlaceholder, cfg.Listen)
	assert.Equal(t, "u1", cfg.UUID)
	assert.Equal(t, "p1", cfg.Password)
	assert.Equal(t, "example.com", cfg.SNI)
	assert.False(t, cfg.AllowInsecure)
	// Inherited from the server config, not a fresh default.
	assert.Equal(t, domain.CongestionCubic, cfg.CongestionControl)
}

func TestClientConfigRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cfg  ClientConfig
	}{
		{
			name: "full config",
			cfg: ClientConfig{
				Server:            "1.2.3.4:41999",
				Listen:            ClientListenPlaceholder,
				UUID:              "u1",
				Password:          "p1",
				SNI:               "example.com",
				AllowInsecure:     true,
				CongestionControl: domain.CongestionNewReno,
				LogLevel:          "debug",
			},
		},
		{
			name: "optional fields at defaults",
			cfg: ClientConfig{
				Server:            "1.2.3.4:41999",
				Listen:            ClientListenPlaceholder,
				UUID:              "u1",
				Password:          "p1",
				AllowInsecure:     false,
				CongestionControl: domain.CongestionBBR,
				LogLevel:          "info",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.cfg.Encode()
			require.NoError(t, err)

			decoded, err := DecodeClientConfig(data)
			require.NoError(t, err)
			assert.Equal(t, tt.cfg, decoded)
		})
	}
}

func TestClientConfigEncodesEmptySNI(t *testing.T) {
	// The sni key is always present in the artifact, even without a value.
	cfg := ClientConfig{Server: "1.2.3.4:41999", UUID: "u1", Password: "p1"}

	data, err := cfg.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sni"`)
}

func TestDecodeClientConfigDefaults(t *testing.T) {
	decoded, err := DecodeClientConfig([]byte(`{"server": "1.2.3.4:41999", "uuid": "u", "password": "p"}`))
	require.NoError(t, err)

	assert.Equal(t, domain.CongestionBBR, decoded.CongestionControl)
	assert.Equal(t, "info", decoded.LogLevel)
	assert.False(t, decoded.AllowInsecure)
	assert.Empty(t, decoded.SNI)
}

func TestLoadClientConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadClientConfig(filepath.Join(t.TempDir(), "nekoray_config.json"))
		assert.ErrorIs(t, err, ErrNoClientConfig)
	})

	t.Run("persisted file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nekoray_config.json")
		cfg := ClientConfig{
			Server:            "1.2.3.4:41999",
			Listen:            ClientListenPlaceholder,
			UUID:              "u1",
			Password:          "p1",
			SNI:               "example.com",
			CongestionControl: domain.CongestionBBR,
			LogLevel:          "info",
		}
		require.NoError(t, cfg.WriteFile(path))

		loaded, err := LoadClientConfig(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nekoray_config.json")
		require.NoError(t, os.WriteFile(path, []byte("{nope"), 0644))

		_, err := LoadClientConfig(path)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoClientConfig)
	})
}

func TestServerPeer(t *testing.T) {
	cfg := ClientConfig{Server: "1.2.3.4:41999"}
	addr, port := cfg.ServerPeer()
	assert.Equal(t, "1.2.3.4", addr)
	assert.Equal(t, "41999", port)
}
