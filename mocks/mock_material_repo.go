package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
)

// MockMaterialRepo is a mock implementation of port.MaterialRepository.
type MockMaterialRepo struct {
	mock.Mock
}

func (m *MockMaterialRepo) GetByName(ctx context.Context, name string) (*domain.Material, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Material), args.Error(1)
}

func (m *MockMaterialRepo) Create(ctx context.Context, material *domain.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}
