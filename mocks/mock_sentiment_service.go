package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"billsense/internal/domain"
)

// MockSentimentService is a mock implementation of port.SentimentService.
type MockSentimentService struct {
	mock.Mock
}

func (m *MockSentimentService) ClientFollowups(ctx context.Context, customer domain.Customer) ([]domain.FollowupSummary, error) {
	args := m.Called(ctx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FollowupSummary), args.Error(1)
}
