package port

import (
	"context"

	"github.com/google/uuid"

	"billsense/internal/domain"
)

// BillingRepository reads customer and invoice records from the external
// store. Implementations must filter out deleted and inactive records; the
// core only ever sees live rows.
type BillingRepository interface {
	// ListActiveCustomers returns all active, non-deleted customers.
	ListActiveCustomers(ctx context.Context) ([]domain.Customer, error)

	// ListInvoices returns all live invoices for a customer.
	ListInvoices(ctx context.Context, customerID uuid.UUID) ([]domain.Invoice, error)

	// GetCustomerByInvoiceID resolves the customer owning an invoice.
	// Returns domain.ErrNotFound when no such invoice exists.
	GetCustomerByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*domain.Customer, error)
}
