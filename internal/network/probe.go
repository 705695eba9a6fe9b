// Package network answers one question before syncgit talks to a remote:
// is there a route to the outside world at all?
package network

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/syncgit/internal/constants"
	syncerrors "github.com/mrz1836/syncgit/internal/errors"
)

// Prober checks connectivity.
type Prober interface {
	// Probe returns nil when the network is reachable and an error wrapping
	// ErrNoInternet otherwise.
	Probe(ctx context.Context) error
}

// TCPProber dials a well-known address. Reachability of that address stands
// in for "online".
type TCPProber struct {
	address string
	timeout time.Duration
	logger  zerolog.Logger
	dialer  func(ctx context.Context, network, address string) (net.Conn, error)
}

// TCPOption configures a TCPProber.
type TCPOption func(*TCPProber)

// WithDialer replaces the dial function, for tests.
func WithDialer(dial func(ctx context.Context, network, address string) (net.Conn, error)) TCPOption {
	return func(p *TCPProber) {
		p.dialer = dial
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) TCPOption {
	return func(p *TCPProber) {
		p.logger = logger
	}
}

// NewTCPProber creates a prober for address. Zero values fall back to the
// built-in address and timeout.
func NewTCPProber(address string, timeout time.Duration, opts ...TCPOption) *TCPProber {
	if address == "" {
		address = constants.DefaultProbeAddress
	}
	if timeout <= 0 {
		timeout = constants.DefaultProbeTimeout
	}
	p := &TCPProber{
		address: address,
		timeout: timeout,
		logger:  zerolog.Nop(),
	}
	p.dialer = (&net.Dialer{}).DialContext
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe implements Prober.
func (p *TCPProber) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	conn, err := p.dialer(ctx, "tcp", p.address)
	if err != nil {
		p.logger.Debug().Err(err).Str("address", p.address).Msg("connectivity probe failed")
		return syncerrors.Wrapf(syncerrors.ErrNoInternet, "dial %s: %v", p.address, err)
	}
	_ = conn.Close()

	p.logger.Debug().
		Str("address", p.address).
		Dur("elapsed", time.Since(start)).
		Msg("connectivity probe succeeded")
	return nil
}

// StaticProber returns a fixed result.
type StaticProber struct {
	Err error
}

// Probe implements Prober.
func (s StaticProber) Probe(context.Context) error {
	return s.Err
}
