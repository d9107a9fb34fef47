package netutil

import (
	"errors"
	"fmt"
	"math/rand"
	"net"

	"go.uber.org/zap"

	"github.com/QIN2DIM/juicy/internal/config"
)

// ErrNoFreePort is returned when every candidate in the range is bound.
// Exhausting ~5000 UDP ports is not expected in practice, so callers treat
// this as fatal rather than retrying.
var ErrNoFreePort = errors.New("no free UDP port in candidate range")

// PortAllocator discovers a free UDP listening port for the proxy service.
type PortAllocator interface {
	// Allocate returns a port from the candidate range that was free at
	// probe time. The probe socket is released immediately, so the port is
	// not reserved; callers re-probe before binding for real.
	Allocate() (int, error)

	// Probe reports whether the port is currently free for UDP.
	Probe(port int) bool
}

type portAllocator struct {
	low    int
	high   int
	logger *zap.Logger
}

// NewPortAllocator creates an allocator over the configured half-open range
// [low, high).
func NewPortAllocator(cfg *config.Settings, logger *zap.Logger) PortAllocator {
	return &portAllocator{
		low:    cfg.PortRangeLow,
		high:   cfg.PortRangeHigh,
		logger: logger,
	}
}

func (a *portAllocator) Allocate() (int, error) {
	candidates := make([]int, 0, a.high-a.low)
	for p := a.low; p < a.high; p++ {
		candidates = append(candidates, p)
	}
	// Shuffled so repeated installs across hosts do not pile onto the
	// lowest candidate.
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, p := range candidates {
		if a.Probe(p) {
			a.logger.Info("initialized listen port", zap.Int("port", p))
			return p, nil
		}
	}
	return 0, ErrNoFreePort
}

func (a *portAllocator) Probe(port int) bool {
	return !PortInUse(port, "udp")
}

// PortInUse checks whether a loopback bind on the port fails for the given
// protocol ("tcp" or "udp").
func PortInUse(port int, proto string) bool {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	switch proto {
	case "tcp":
		l, err := net.Listen("tcp4", addr)
		if err != nil {
			return true
		}
		l.Close()
	case "udp":
		pc, err := net.ListenPacket("udp4", addr)
		if err != nil {
			return true
		}
		pc.Close()
	}
	return false
}
