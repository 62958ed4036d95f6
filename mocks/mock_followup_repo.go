package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"billsense/internal/domain"
)

// MockFollowUpRepo is a mock implementation of port.FollowUpRepository.
type MockFollowUpRepo struct {
	mock.Mock
}

func (m *MockFollowUpRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.FollowUp, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FollowUp), args.Error(1)
}
