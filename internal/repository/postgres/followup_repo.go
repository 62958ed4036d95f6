package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billsense/internal/domain"
	"billsense/internal/port"
)

type followUpRepo struct {
	db *sqlx.DB
}

// NewFollowUpRepo creates a new PostgreSQL-backed FollowUpRepository.
func NewFollowUpRepo(db *sqlx.DB) port.FollowUpRepository {
	return &followUpRepo{db: db}
}

func (r *followUpRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.FollowUp, error) {
	var followups []domain.FollowUp
	err := r.db.SelectContext(ctx, &followups,
		`SELECT f.id, f.invoice_id, i.customer_id, f.comments, f.created_at
		 FROM followups f
		 INNER JOIN invoices i ON i.id = f.invoice_id
		 WHERE i.customer_id = $1
		 ORDER BY f.created_at, f.id
		 LIMIT $2`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("followUpRepo.ListByCustomer: %w", err)
	}
	return followups, nil
}

type sentimentSummaryRepo struct {
	db *sqlx.DB
}

// NewSentimentSummaryRepo creates a new PostgreSQL-backed SentimentSummaryRepository.
func NewSentimentSummaryRepo(db *sqlx.DB) port.SentimentSummaryRepository {
	return &sentimentSummaryRepo{db: db}
}

func (r *sentimentSummaryRepo) GetOrCreate(ctx context.Context, customerID uuid.UUID) (*domain.SentimentSummary, error) {
	var summary domain.SentimentSummary
	err := r.db.GetContext(ctx, &summary,
		"SELECT * FROM customer_sentiment_summaries WHERE customer_id = $1", customerID)
	if err == nil {
		return &summary, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sentimentSummaryRepo.GetOrCreate get: %w", err)
	}

	now := time.Now().UTC()
	summary = domain.SentimentSummary{
		ID:         uuid.New(),
		CustomerID: customerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO customer_sentiment_summaries (id, customer_id, past_summary, past_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (customer_id) DO NOTHING`,
		summary.ID, summary.CustomerID, summary.PastSummary, summary.PastStatus,
		summary.CreatedAt, summary.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("sentimentSummaryRepo.GetOrCreate insert: %w", err)
	}

	// Re-read in case a concurrent insert won the conflict.
	err = r.db.GetContext(ctx, &summary,
		"SELECT * FROM customer_sentiment_summaries WHERE customer_id = $1", customerID)
	if err != nil {
		return nil, fmt.Errorf("sentimentSummaryRepo.GetOrCreate reread: %w", err)
	}
	return &summary, nil
}

func (r *sentimentSummaryRepo) Update(ctx context.Context, summary *domain.SentimentSummary) error {
	summary.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE customer_sentiment_summaries
		 SET past_summary = $1, past_status = $2, updated_at = $3
		 WHERE id = $4`,
		summary.PastSummary, summary.PastStatus, summary.UpdatedAt, summary.ID)
	if err != nil {
		return fmt.Errorf("sentimentSummaryRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
