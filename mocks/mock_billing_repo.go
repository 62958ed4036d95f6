package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"billsense/internal/domain"
)

// MockBillingRepo is a mock implementation of port.BillingRepository.
type MockBillingRepo struct {
	mock.Mock
}

func (m *MockBillingRepo) ListActiveCustomers(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockBillingRepo) ListInvoices(ctx context.Context, customerID uuid.UUID) ([]domain.Invoice, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockBillingRepo) GetCustomerByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*domain.Customer, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
