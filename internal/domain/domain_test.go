package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCongestionControlValid(t *testing.T) {
	assert.True(t, CongestionBBR.Valid())
	assert.True(t, CongestionCubic.Valid())
	assert.True(t, CongestionNewReno.Valid())
	assert.False(t, CongestionControl("warp").Valid())
	assert.False(t, CongestionControl("").Valid())
}

func TestNewUser(t *testing.T) {
	user, err := NewUser()
	require.NoError(t, err)

	_, err = uuid.Parse(user.Username)
	assert.NoError(t, err)
	assert.Len(t, user.Password, 16)
	assert.Regexp(t, "^[0-9a-f]{16}$", user.Password)

	second, err := NewUser()
	require.NoError(t, err)
	assert.NotEqual(t, user.Username, second.Username)
	assert.NotEqual(t, user.Password, second.Password)
}

func TestCertificatePaths(t *testing.T) {
	cert := Certificate{Domain: "example.com"}
	assert.Equal(t, "/etc/letsencrypt/live/example.com", cert.StorageDir())
	assert.Equal(t, "/etc/letsencrypt/live/example.com/fullchain.pem", cert.Fullchain())
	assert.Equal(t, "/etc/letsencrypt/live/example.com/privkey.pem", cert.PrivateKey())
}

func TestCommandFormat(t *testing.T) {
	assert.Equal(t, FormatNekoRay, Command{Name: CommandCheck}.Format())
	assert.Equal(t, FormatClash,
		Command{Name: CommandCheck, Formats: []OutputFormat{FormatClash, FormatV2Ray}}.Format())
}

func TestServiceStateColorized(t *testing.T) {
	tests := []struct {
		state    ServiceState
		expected string
	}{
		{state: ServiceState{Active: true, Text: "active"}, expected: "\033[32mactive\033[0m"},
		{state: ServiceState{Text: "inactive"}, expected: "\033[91minactive\033[0m"},
		{state: ServiceState{Text: "failed"}, expected: "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.state.Text, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.Colorized())
		})
	}
}
