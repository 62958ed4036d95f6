package port

import (
	"context"

	"github.com/google/uuid"

	"billsense/internal/domain"
)

// FollowUpRepository reads communication followups recorded against a
// customer's invoices.
type FollowUpRepository interface {
	// ListByCustomer returns up to limit followups for a customer, oldest
	// first.
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.FollowUp, error)
}

// SentimentSummaryRepository persists the rolling per-customer sentiment
// state.
type SentimentSummaryRepository interface {
	// GetOrCreate returns the summary row for a customer, creating an empty
	// one when none exists.
	GetOrCreate(ctx context.Context, customerID uuid.UUID) (*domain.SentimentSummary, error)

	// Update stores the summary's current text and status.
	Update(ctx context.Context, summary *domain.SentimentSummary) error
}
