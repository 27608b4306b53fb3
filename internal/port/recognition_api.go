package port

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
)

// SubmitScanInput carries a scan upload for recognition.
type SubmitScanInput struct {
	ProjectID   uuid.UUID
	FileName    string
	ContentType string
	Body        io.Reader
}

// CreateDeliveryInput carries a confirmed delivery to the backend.
type CreateDeliveryInput struct {
	ProjectID    uuid.UUID
	DocumentID   uuid.UUID
	Items        []domain.LineItem
	DeliveryDate *time.Time
	Latitude     *float64
	Longitude    *float64
}

// RecognitionAPI is the backend contract the delivery workflow runs against.
// It is implemented remotely by client.Client and in-process by the service
// layer, so the same workflow controller serves both call sites.
type RecognitionAPI interface {
	RecognizeDocument(ctx context.Context, input SubmitScanInput) (uuid.UUID, error)
	GetRecognitionStatus(ctx context.Context, documentID uuid.UUID) (*domain.RecognitionResult, error)
	CreateDelivery(ctx context.Context, input CreateDeliveryInput) (*domain.MaterialDelivery, error)
	UpdateDocument(ctx context.Context, documentID uuid.UUID, data domain.RecognizedData) error
}
