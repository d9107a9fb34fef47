package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// CongestionControl is the QUIC congestion control algorithm shared by the
// server and client configs. The client inherits the server's value so both
// sides agree by construction.
type CongestionControl string

const (
	CongestionBBR     CongestionControl = "bbr"
	CongestionCubic   CongestionControl = "cubic"
	CongestionNewReno CongestionControl = "new_reno"
)

func (c CongestionControl) Valid() bool {
	switch c {
	case CongestionBBR, CongestionCubic, CongestionNewReno:
		return true
	}
	return false
}

// User is a single proxy credential pair. The username doubles as the
// client-side uuid field.
type User struct {
	Username string
	Password string
}

// NewUser generates a fresh credential pair: a random UUID identifier and a
// 16-hex-character secret.
func NewUser() (User, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return User{}, fmt.Errorf("failed to generate password: %w", err)
	}
	return User{
		Username: uuid.NewString(),
		Password: hex.EncodeToString(buf),
	}, nil
}

// LetsEncryptLiveDir is the certificate authority's storage convention.
// Certificates are owned by certbot; this system only reads and deletes
// files under it by path.
const LetsEncryptLiveDir = "/etc/letsencrypt/live"

// Certificate identifies an issued certificate by domain and derives its
// well-known storage paths.
type Certificate struct {
	Domain string
}

func (c Certificate) StorageDir() string {
	return filepath.Join(LetsEncryptLiveDir, c.Domain)
}

func (c Certificate) Fullchain() string {
	return filepath.Join(c.StorageDir(), "fullchain.pem")
}

func (c Certificate) PrivateKey() string {
	return filepath.Join(c.StorageDir(), "privkey.pem")
}
