package proxyconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QIN2DIM/juicy/internal/domain"
)

func TestShareLink(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ClientConfig
		expected string
	}{
		{
			name: "with sni",
			cfg: ClientConfig{
				Server:            "1.2.3.4:41999",
				UUID:              "u1",
				Password:          "p1",
				SNI:               "example.com",
				AllowInsecure:     false,
				CongestionControl: domain.CongestionBBR,
			},
			expected: "juicity://u1:p1@1.2.3.4:41999?congestion_control=bbr&allow_insecure=0&sni=example.com",
		},
		{
			name: "without sni",
			cfg: ClientConfig{
				Server:            "1.2.3.4:41999",
				UUID:              "u1",
				Password:          "p1",
				AllowInsecure:     false,
				CongestionControl: domain.CongestionBBR,
			},
			expected: "juicity://u1:p1@1.2.3.4:41999?congestion_control=bbr&allow_insecure=0",
		},
		{
			name: "allow insecure",
			cfg: ClientConfig{
				Server:            "5.6.7.8:42000",
				UUID:              "u2",
				Password:          "p2",
				AllowInsecure:     true,
				CongestionControl: domain.CongestionCubic,
			},
			expected: "juicity://u2:p2@5.6.7.8:42000?congestion_control=cubic&allow_insecure=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.ShareLink())
		})
	}
}

func TestParseShareLink(t *testing.T) {
	tests := []struct {
		name        string
		link        string
		expectError bool
		validate    func(*testing.T, ClientConfig)
	}{
		{
			name: "full link",
			link: "juicity://u1:p1@1.2.3.4:41999?congestion_control=bbr&allow_insecure=0&sni=example.com",
			validate: func(t *testing.T, c ClientConfig) {
				assert.Equal(t, "1.2.3.4:41999", c.Server)
				assert.Equal(t, "u1", c.UUID)
				assert.Equal(t, "p1", c.Password)
				assert.Equal(t, "example.com", c.SNI)
				assert.False(t, c.AllowInsecure)
				assert.Equal(t, domain.CongestionBBR, c.CongestionControl)
			},
		},
		{
			name: "no sni",
			link: "juicity://u1:p1@1.2.3.4:41999?congestion_control=cubic&allow_insecure=1",
			validate: func(t *testing.T, c ClientConfig) {
				assert.Empty(t, c.SNI)
				assert.True(t, c.AllowInsecure)
				assert.Equal(t, domain.CongestionCubic, c.CongestionControl)
			},
		},
		{
			name:        "wrong scheme",
			link:        "vless://u1@example.com:443",
			expectError: true,
		},
		{
			name:        "missing credentials",
			link:        "juicity://1.2.3.4:41999",
			expectError: true,
		},
		{
			name:        "invalid congestion control",
			link:        "juicity://u1:p1@1.2.3.4:41999?congestion_control=warp",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseShareLink(tt.link)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, parsed)
			}
		})
	}
}

func TestShareLinkParseRoundTrip(t *testing.T) {
	cfg := ClientConfig{
		Server:            "1.2.3.4:41999",
		Listen:            ClientListenPlaceholder,
		UUID:              "u1",
		Password:          "p1",
		SNI:               "example.com",
		AllowInsecure:     false,
		CongestionControl: domain.CongestionBBR,
		LogLevel:          "info",
	}

	parsed, err := ParseShareLink(cfg.ShareLink())
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}

func TestWriteShareLinkArtifacts(t *testing.T) {
	dir := t.TempDir()
	linkPath := filepath.Join(dir, "sharelink.txt")
	qrPath := filepath.Join(dir, "sharelink.png")

	cfg := ClientConfig{
		Server:            "1.2.3.4:41999",
		UUID:              "u1",
		Password:          "p1",
		SNI:               "example.com",
		CongestionControl: domain.CongestionBBR,
	}
	require.NoError(t, cfg.WriteShareLinkArtifacts(linkPath, qrPath))

	link, err := os.ReadFile(linkPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.ShareLink()+"\n", string(link))

	info, err := os.Stat(qrPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
