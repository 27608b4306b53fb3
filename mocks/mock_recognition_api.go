package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/port"
)

// MockRecognitionAPI is a mock implementation of port.RecognitionAPI.
type MockRecognitionAPI struct {
	mock.Mock
}

func (m *MockRecognitionAPI) RecognizeDocument(ctx context.Context, input port.SubmitScanInput) (uuid.UUID, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRecognitionAPI) GetRecognitionStatus(ctx context.Context, documentID uuid.UUID) (*domain.RecognitionResult, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecognitionResult), args.Error(1)
}

func (m *MockRecognitionAPI) CreateDelivery(ctx context.Context, input port.CreateDeliveryInput) (*domain.MaterialDelivery, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaterialDelivery), args.Error(1)
}

func (m *MockRecognitionAPI) UpdateDocument(ctx context.Context, documentID uuid.UUID, data domain.RecognizedData) error {
	args := m.Called(ctx, documentID, data)
	return args.Error(0)
}
