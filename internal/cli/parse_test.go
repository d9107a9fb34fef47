package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QIN2DIM/juicy/internal/domain"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectError bool
		expected    domain.Command
	}{
		{
			name:     "install with short domain flag",
			args:     []string{"install", "-d", "example.com"},
			expected: domain.Command{Name: domain.CommandInstall, Domain: "example.com"},
		},
		{
			name:     "install with long domain flag",
			args:     []string{"install", "--domain", "example.com"},
			expected: domain.Command{Name: domain.CommandInstall, Domain: "example.com"},
		},
		{
			name: "install with format selection",
			args: []string{"install", "-d", "example.com", "--nekoray", "--clash"},
			expected: domain.Command{
				Name:    domain.CommandInstall,
				Domain:  "example.com",
				Formats: []domain.OutputFormat{domain.FormatNekoRay, domain.FormatClash},
			},
		},
		{
			name:     "install without domain is deferred to the prompt",
			args:     []string{"install"},
			expected: domain.Command{Name: domain.CommandInstall},
		},
		{
			name:     "remove with domain",
			args:     []string{"remove", "-d", "example.com"},
			expected: domain.Command{Name: domain.CommandRemove, Domain: "example.com"},
		},
		{
			name:        "remove rejects format flags",
			args:        []string{"remove", "--nekoray"},
			expectError: true,
		},
		{
			name: "check with format",
			args: []string{"check", "--v2ray"},
			expected: domain.Command{
				Name:    domain.CommandCheck,
				Formats: []domain.OutputFormat{domain.FormatV2Ray},
			},
		},
		{
			name:     "bare check",
			args:     []string{"check"},
			expected: domain.Command{Name: domain.CommandCheck},
		},
		{
			name:     "status",
			args:     []string{"status"},
			expected: domain.Command{Name: domain.CommandStatus},
		},
		{
			name:     "log",
			args:     []string{"log"},
			expected: domain.Command{Name: domain.CommandLog},
		},
		{
			name:        "status rejects trailing arguments",
			args:        []string{"status", "now"},
			expectError: true,
		},
		{
			name:        "install rejects positional arguments",
			args:        []string{"install", "example.com"},
			expectError: true,
		},
		{
			name:        "unknown command",
			args:        []string{"conjure"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := parseCommand(tt.args)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cmd)
		})
	}
}

func TestCommandFormatDefaultsToNekoRay(t *testing.T) {
	cmd, err := parseCommand([]string{"check"})
	require.NoError(t, err)
	assert.Equal(t, domain.FormatNekoRay, cmd.Format())

	cmd, err = parseCommand([]string{"check", "--singbox"})
	require.NoError(t, err)
	assert.Equal(t, domain.FormatSingBox, cmd.Format())
}
