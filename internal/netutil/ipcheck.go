package netutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/QIN2DIM/juicy/internal/config"
)

// IPChecker reports this host's public IP as seen from the outside.
type IPChecker interface {
	PublicIP(ctx context.Context) (string, error)
}

type defaultIPChecker struct {
	echoURL string
	client  *http.Client
}

func createDefaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 20 * time.Second,
	}
}

// NewIPChecker creates an IPChecker backed by the configured plain-text IP
// echo service.
func NewIPChecker(cfg *config.Settings) IPChecker {
	return &defaultIPChecker{
		echoURL: cfg.IPEchoURL,
		client:  createDefaultHTTPClient(),
	}
}

func (c *defaultIPChecker) PublicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.echoURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build IP echo request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get public IP: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read IP echo response: %w", err)
	}

	return strings.TrimSpace(string(body)), nil
}
