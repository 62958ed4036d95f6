package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billsense/internal/domain"
	"billsense/internal/port"
)

type billingRepo struct {
	db *sqlx.DB
}

// NewBillingRepo creates a new PostgreSQL-backed BillingRepository.
func NewBillingRepo(db *sqlx.DB) port.BillingRepository {
	return &billingRepo{db: db}
}

func (r *billingRepo) ListActiveCustomers(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := r.db.SelectContext(ctx, &customers,
		`SELECT * FROM customers
		 WHERE is_active = TRUE AND is_deleted = FALSE
		 ORDER BY customer_name, id`)
	if err != nil {
		return nil, fmt.Errorf("billingRepo.ListActiveCustomers: %w", err)
	}
	return customers, nil
}

func (r *billingRepo) ListInvoices(ctx context.Context, customerID uuid.UUID) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.SelectContext(ctx, &invoices,
		`SELECT * FROM invoices
		 WHERE customer_id = $1 AND is_deleted = FALSE
		 ORDER BY invoice_date NULLS LAST, id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("billingRepo.ListInvoices: %w", err)
	}
	return invoices, nil
}

func (r *billingRepo) GetCustomerByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.GetContext(ctx, &customer,
		`SELECT c.* FROM customers c
		 INNER JOIN invoices i ON i.customer_id = c.id
		 WHERE i.id = $1 AND i.is_deleted = FALSE AND c.is_deleted = FALSE`, invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("billingRepo.GetCustomerByInvoiceID: %w", err)
	}
	return &customer, nil
}
