package netutil

import (
	"context"
	"fmt"
	"net"
)

// Resolver turns a domain name into the address it points at.
type Resolver interface {
	Resolve(ctx context.Context, domain string) (string, error)
}

type systemResolver struct{}

// NewResolver creates a Resolver backed by the system DNS configuration.
func NewResolver() Resolver {
	return &systemResolver{}
}

// Resolve returns the last address reported for the domain, matching the
// getaddrinfo ordering the install check was written against.
func (r *systemResolver) Resolve(ctx context.Context, domain string) (string, error) {
	addrs, err := net.DefaultResolver.LookupHost(ctx, domain)
	if err != nil {
		return "", fmt.Errorf("domain is unreachable or misspelled: %w", err)
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("domain %s resolved to no addresses", domain)
	}
	return addrs[len(addrs)-1], nil
}
