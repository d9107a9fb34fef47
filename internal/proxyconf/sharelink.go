package proxyconf

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/QIN2DIM/juicy/internal/domain"
)

// Scheme is the juicity share-link URI scheme.
const Scheme = "juicity"

// ShareLink renders the single-line subscription URI:
//
//	juicity://<uuid>:<password>@<server>?congestion_control=<cc>&allow_insecure=<0|1>[&sni=<domain>]
//
// Built by hand so the query parameter order is stable; the sni parameter is
// present iff the field is non-empty.
func (c ClientConfig) ShareLink() string {
	insecure := 0
	if c.AllowInsecure {
		insecure = 1
	}
	sl := fmt.Sprintf(
		"%s://%s:%s@%s?congestion_control=%s&allow_insecure=%d",
		Scheme, c.UUID, c.Password, c.Server, c.CongestionControl, insecure,
	)
	if c.SNI != "" {
		sl += fmt.Sprintf("&sni=%s", c.SNI)
	}
	return sl
}

// ParseShareLink parses a share link back into a client config. The listen
// and log-level fields are not carried by the link and take their defaults.
func ParseShareLink(link string) (ClientConfig, error) {
	u, err := url.Parse(link)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("error parsing share link: %w", err)
	}
	if u.Scheme != Scheme {
		return ClientConfig{}, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if u.User == nil {
		return ClientConfig{}, fmt.Errorf("missing user info in share link")
	}
	if !strings.Contains(u.Host, ":") {
		return ClientConfig{}, fmt.Errorf("invalid host:port in share link: %s", u.Host)
	}

	password, _ := u.User.Password()
	q := u.Query()

	cfg := ClientConfig{
		Server:            u.Host,
		Listen:            ClientListenPlaceholder,
		UUID:              u.User.Username(),
		Password:          password,
		SNI:               q.Get("sni"),
		AllowInsecure:     q.Get("allow_insecure") == "1",
		CongestionControl: domain.CongestionBBR,
		LogLevel:          "info",
	}
	if cc := domain.CongestionControl(q.Get("congestion_control")); cc != "" {
		if !cc.Valid() {
			return ClientConfig{}, fmt.Errorf("invalid congestion_control: %q", cc)
		}
		cfg.CongestionControl = cc
	}
	if cfg.UUID == "" || cfg.Password == "" {
		return ClientConfig{}, fmt.Errorf("share link is missing credentials")
	}
	return cfg, nil
}

// WriteShareLinkArtifacts persists the plain-text share link and its QR code
// image next to the client config.
func (c ClientConfig) WriteShareLinkArtifacts(linkPath, qrPath string) error {
	link := c.ShareLink()
	if err := os.WriteFile(linkPath, []byte(link+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write share link: %w", err)
	}
	if err := qrcode.WriteFile(link, qrcode.Medium, 256, qrPath); err != nil {
		return fmt.Errorf("failed to write share link QR code: %w", err)
	}
	return nil
}
