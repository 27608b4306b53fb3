package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/port"
)

// PollerConfig holds settings for recognition status polling.
type PollerConfig struct {
	// Interval between status queries. The dashboards poll every 5 seconds.
	Interval time.Duration
	// MaxAttempts bounds the loop so a stuck backend job surfaces as
	// domain.ErrRecognitionTimeout instead of polling forever. Zero or
	// negative means unbounded.
	MaxAttempts int
}

// Poller drives one recognition job to a terminal state without blocking
// anything but its own goroutine. Statuses it does not know are treated as
// non-terminal and polling continues, matching the backend's contract.
type Poller struct {
	api port.RecognitionAPI
	cfg PollerConfig
}

// NewPoller creates a Poller over the given backend API.
func NewPoller(api port.RecognitionAPI, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	return &Poller{api: api, cfg: cfg}
}

// WaitForResult polls the recognition status of documentID until the job
// reaches a terminal state, the attempt budget runs out, or ctx is canceled.
// On the failed status it returns domain.ErrRecognitionFailed.
func (p *Poller) WaitForResult(ctx context.Context, documentID uuid.UUID) (*domain.RecognitionResult, error) {
	timer := time.NewTimer(p.cfg.Interval)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		result, err := p.api.GetRecognitionStatus(ctx, documentID)
		if err != nil {
			return nil, fmt.Errorf("querying recognition status: %w", err)
		}

		switch result.Status {
		case domain.RecognitionStatusCompleted:
			return result, nil
		case domain.RecognitionStatusFailed:
			return nil, domain.ErrRecognitionFailed
		default:
			// pending, processing, and anything unknown: keep going.
		}

		if p.cfg.MaxAttempts > 0 && attempt >= p.cfg.MaxAttempts {
			log.Printf("poller: document %s still %s after %d attempts, giving up",
				documentID, result.Status, attempt)
			return nil, domain.ErrRecognitionTimeout
		}

		timer.Reset(p.cfg.Interval)
	}
}
