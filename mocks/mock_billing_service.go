package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"billsense/internal/domain"
)

// MockBillingService is a mock implementation of service.BillingService.
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) AnalyzeAll(ctx context.Context) (*domain.BatchResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}

func (m *MockBillingService) AnalyzeByInvoice(ctx context.Context, invoiceID uuid.UUID) (*domain.BatchResult, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}
