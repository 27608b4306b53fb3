package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
)

// DocumentRepository provides access to uploaded delivery note scans.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, offset, limit int) ([]domain.Document, int, error)

	// ClaimPending atomically moves up to limit pending documents to the
	// processing status and returns them, so that concurrent workers never
	// pick up the same job twice.
	ClaimPending(ctx context.Context, limit int) ([]domain.Document, error)

	UpdateRecognition(ctx context.Context, doc *domain.Document) error
	UpdateRecognizedData(ctx context.Context, docID uuid.UUID, data domain.RecognizedData) error
}
