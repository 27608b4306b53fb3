package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
)

// ProjectRepository provides access to construction projects.
type ProjectRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, offset, limit int) ([]domain.Project, int, error)
	ListWithCoordinates(ctx context.Context) ([]domain.Project, error)
}

// UserRepository provides access to user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// MaterialRepository provides access to the material catalog.
type MaterialRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Material, error)
	Create(ctx context.Context, material *domain.Material) error
}
