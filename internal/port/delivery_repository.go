package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
)

// DeliveryRepository provides access to confirmed material deliveries.
type DeliveryRepository interface {
	// Create persists a delivery together with its items in one transaction.
	Create(ctx context.Context, delivery *domain.MaterialDelivery) error
	GetByDocumentID(ctx context.Context, docID uuid.UUID) (*domain.MaterialDelivery, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, offset, limit int) ([]domain.MaterialDelivery, int, error)
}
