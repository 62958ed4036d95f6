package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"billsense/internal/domain"
)

// MockSentimentSummaryRepo is a mock implementation of
// port.SentimentSummaryRepository.
type MockSentimentSummaryRepo struct {
	mock.Mock
}

func (m *MockSentimentSummaryRepo) GetOrCreate(ctx context.Context, customerID uuid.UUID) (*domain.SentimentSummary, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SentimentSummary), args.Error(1)
}

func (m *MockSentimentSummaryRepo) Update(ctx context.Context, summary *domain.SentimentSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}
