package noop

import (
	"context"
	"log"

	"github.com/KoTeHok22/Locus-sub001/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs messages instead of
// sending them. Used in development and when no provider is configured.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) Send(_ context.Context, msg port.EmailMessage) error {
	log.Printf("[NOOP EMAIL] to=%s subject=%q", msg.To, msg.Subject)
	return nil
}
