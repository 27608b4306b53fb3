// Package geo supplies the location capability used to stamp field actions
// (delivery confirmations, issue reports) with the device position.
package geo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnsupported means the host exposes no location capability at all.
	ErrUnsupported = errors.New("geolocation is not supported on this device")
	// ErrPermissionDenied means the user or OS refused location access.
	ErrPermissionDenied = errors.New("location access denied; allow it in your device settings")
	// ErrPositionUnavailable means the position could not be determined.
	ErrPositionUnavailable = errors.New("location information is unavailable")
	// ErrTimeout means the fix did not arrive within the configured timeout.
	ErrTimeout = errors.New("timed out waiting for a location fix")
)

// Position is a single location fix.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// String renders the position as "lat,lon" for compact location stamps.
func (p Position) String() string {
	return fmt.Sprintf("%f,%f", p.Latitude, p.Longitude)
}

// Source is the underlying platform location API. Implementations are
// injected so workflows can be tested deterministically.
type Source interface {
	Position(ctx context.Context) (*Position, error)
}

const defaultTimeout = 10 * time.Second

// Provider wraps a Source with a fixed timeout and error classification.
// Each call is a single attempt with no cached position; callers decide
// whether to retry.
type Provider struct {
	source  Source
	timeout time.Duration
}

// NewProvider creates a Provider over the given source. A nil source models
// a host without location support.
func NewProvider(source Source) *Provider {
	return &Provider{source: source, timeout: defaultTimeout}
}

// NewProviderWithTimeout creates a Provider with a custom fix timeout.
func NewProviderWithTimeout(source Source, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Provider{source: source, timeout: timeout}
}

// CurrentLocation requests one high-accuracy fix from the source.
func (p *Provider) CurrentLocation(ctx context.Context) (*Position, error) {
	if p.source == nil {
		return nil, ErrUnsupported
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	pos, err := p.source.Position(ctx)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return nil, ErrTimeout
		case errors.Is(err, ErrPermissionDenied),
			errors.Is(err, ErrPositionUnavailable),
			errors.Is(err, ErrTimeout),
			errors.Is(err, ErrUnsupported):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
		}
	}
	return pos, nil
}

// Available reports whether a location source is present.
func (p *Provider) Available() bool {
	return p.source != nil
}
