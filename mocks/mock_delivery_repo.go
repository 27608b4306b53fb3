package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
)

// MockDeliveryRepo is a mock implementation of port.DeliveryRepository.
type MockDeliveryRepo struct {
	mock.Mock
}

func (m *MockDeliveryRepo) Create(ctx context.Context, delivery *domain.MaterialDelivery) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

func (m *MockDeliveryRepo) GetByDocumentID(ctx context.Context, docID uuid.UUID) (*domain.MaterialDelivery, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaterialDelivery), args.Error(1)
}

func (m *MockDeliveryRepo) ListByProject(ctx context.Context, projectID uuid.UUID, offset, limit int) ([]domain.MaterialDelivery, int, error) {
	args := m.Called(ctx, projectID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.MaterialDelivery), args.Int(1), args.Error(2)
}
