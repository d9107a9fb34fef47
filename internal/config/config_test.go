package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QIN2DIM/juicy/internal/domain"
)

func TestNewSettings(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		noFile      bool
		expectError bool
		validate    func(*testing.T, *Settings)
	}{
		{
			name:   "defaults without override file",
			noFile: true,
			validate: func(t *testing.T, s *Settings) {
				assert.Equal(t, "/home/juicity", s.Workstation)
				assert.Equal(t, "juicity", s.ServiceName)
				assert.Equal(t, "/etc/systemd/system/juicity.service", s.ServiceUnitPath)
				assert.Equal(t, 41670, s.PortRangeLow)
				assert.Equal(t, 46990, s.PortRangeHigh)
				assert.Equal(t, domain.CongestionBBR, s.CongestionControl)
			},
		},
		{
			name: "partial override keeps remaining defaults",
			yaml: "workstation: /opt/juicity\ncongestion_control: cubic\n",
			validate: func(t *testing.T, s *Settings) {
				assert.Equal(t, "/opt/juicity", s.Workstation)
				assert.Equal(t, domain.CongestionCubic, s.CongestionControl)
				assert.Equal(t, "juicity", s.ServiceName)
				assert.Equal(t, 41670, s.PortRangeLow)
			},
		},
		{
			name:        "invalid congestion control",
			yaml:        "congestion_control: warp\n",
			expectError: true,
		},
		{
			name:        "inverted port range",
			yaml:        "port_range_low: 46990\nport_range_high: 41670\n",
			expectError: true,
		},
		{
			name:        "invalid download url",
			yaml:        "download_url: not-a-url\n",
			expectError: true,
		},
		{
			name:        "malformed yaml",
			yaml:        "workstation: [a, b\n",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "juicy.yaml")
			if !tt.noFile {
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))
			}
			t.Setenv("JUICY_SETTINGS", path)

			cfg, err := NewSettings()
			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	s := defaultSettings()
	s.Workstation = "/opt/juicity"

	assert.Equal(t, "/opt/juicity/juicity-server", s.Executable())
	assert.Equal(t, "/opt/juicity/server.json", s.ServerConfigPath())
	assert.Equal(t, "/opt/juicity/nekoray_config.json", s.ClientConfigPath())
	assert.Equal(t, "/opt/juicity/sharelink.txt", s.ShareLinkPath())
	assert.Equal(t, "/opt/juicity/sharelink.png", s.QRCodePath())
	assert.Equal(t, "/opt/juicity/juicity-linux-x86_64.zip", s.ArchivePath())
}

func TestEnsureWorkstation(t *testing.T) {
	s := defaultSettings()
	s.Workstation = filepath.Join(t.TempDir(), "nested", "juicity")

	require.NoError(t, s.EnsureWorkstation())
	info, err := os.Stat(s.Workstation)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Repeated calls are no-ops.
	assert.NoError(t, s.EnsureWorkstation())
}
