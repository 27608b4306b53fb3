package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/port"
)

// ProjectService defines the project catalog contract.
type ProjectService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, offset, limit int) ([]domain.Project, int, error)
}

type projectService struct {
	projectRepo port.ProjectRepository
}

// NewProjectService creates a new ProjectService implementation.
func NewProjectService(projectRepo port.ProjectRepository) ProjectService {
	return &projectService{projectRepo: projectRepo}
}

func (s *projectService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context, offset, limit int) ([]domain.Project, int, error) {
	return s.projectRepo.List(ctx, offset, limit)
}
