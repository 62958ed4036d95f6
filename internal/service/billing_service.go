package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"billsense/internal/analysis"
	"billsense/internal/config"
	"billsense/internal/dates"
	"billsense/internal/domain"
	"billsense/internal/port"
)

// defaultSentimentScore is the neutral value used whenever the sentiment
// collaborator is unavailable or returns nothing.
const defaultSentimentScore = 0.5

// BillingService runs the billing risk analysis over customers.
type BillingService interface {
	// AnalyzeAll analyzes every active customer. An empty customer set
	// yields an empty result, never an error.
	AnalyzeAll(ctx context.Context) (*domain.BatchResult, error)

	// AnalyzeByInvoice analyzes the customer owning the given invoice.
	// Returns domain.ErrNotFound for an unknown invoice.
	AnalyzeByInvoice(ctx context.Context, invoiceID uuid.UUID) (*domain.BatchResult, error)
}

type billingService struct {
	repo      port.BillingRepository
	sentiment port.SentimentService
	analyzer  *analysis.Analyzer
	cfg       config.AnalysisConfig
	log       *zap.Logger
}

// NewBillingService creates a new BillingService implementation.
func NewBillingService(
	repo port.BillingRepository,
	sentimentSvc port.SentimentService,
	analyzer *analysis.Analyzer,
	cfg config.AnalysisConfig,
	log *zap.Logger,
) BillingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &billingService{
		repo:      repo,
		sentiment: sentimentSvc,
		analyzer:  analyzer,
		cfg:       cfg,
		log:       log,
	}
}

func (s *billingService) AnalyzeAll(ctx context.Context) (*domain.BatchResult, error) {
	customers, err := s.repo.ListActiveCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active customers: %w", err)
	}

	// Customers share no state, so they are processed by a bounded worker
	// pool. Each worker writes to its own index, keeping the output in
	// input order.
	today := dates.Today()
	results := make([]domain.CustomerAnalysis, len(customers))

	concurrency := s.cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i := range customers {
		i := i
		customer := customers[i]

		sem <- struct{}{} // acquire
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release
			results[i] = s.analyzeCustomer(ctx, customer, today)
		}()
	}
	wg.Wait()

	s.log.Info("processed billing data", zap.Int("customers", len(results)))
	return &domain.BatchResult{Results: results}, nil
}

func (s *billingService) AnalyzeByInvoice(ctx context.Context, invoiceID uuid.UUID) (*domain.BatchResult, error) {
	customer, err := s.repo.GetCustomerByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("resolving invoice %s: %w", invoiceID, err)
	}
	if !customer.IsActive {
		return nil, fmt.Errorf("customer %s: %w", customer.CustomerID, domain.ErrCustomerInactive)
	}

	result := s.analyzeCustomer(ctx, *customer, dates.Today())
	return &domain.BatchResult{Results: []domain.CustomerAnalysis{result}}, nil
}

// analyzeCustomer computes one customer's metrics and score. Failures are
// contained: any error or panic becomes an error marker on that customer's
// row and never aborts the batch.
func (s *billingService) analyzeCustomer(ctx context.Context, customer domain.Customer, today time.Time) (result domain.CustomerAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("customer analysis panicked",
				zap.String("customer_id", customer.CustomerID),
				zap.Any("panic", r),
			)
			result = errorRow(customer, fmt.Sprintf("analysis failed: %v", r))
		}
	}()

	invoices, err := s.repo.ListInvoices(ctx, customer.ID)
	if err != nil {
		s.log.Error("failed to fetch invoices",
			zap.String("customer_id", customer.CustomerID),
			zap.Error(err),
		)
		return errorRow(customer, "failed to fetch invoices")
	}

	metrics := s.analyzer.CalculateMetrics(customer, invoices, today)
	metrics.SentimentScoreFromComm = s.fetchSentiment(ctx, customer)
	score := s.analyzer.CalculateScore(metrics, invoices, today)

	return domain.CustomerAnalysis{
		CustomerMetrics: *metrics,
		ScoreResult:     *score,
	}
}

// fetchSentiment asks the sentiment collaborator for the customer's score,
// bounded by a timeout. Any failure degrades to the neutral default; one
// customer's sentiment outage never affects another's processing.
func (s *billingService) fetchSentiment(ctx context.Context, customer domain.Customer) float64 {
	timeout := time.Duration(s.cfg.SentimentTimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	summaries, err := s.sentiment.ClientFollowups(sctx, customer)
	if err != nil {
		s.log.Warn("could not fetch sentiment, using neutral default",
			zap.String("customer_id", customer.CustomerID),
			zap.Error(err),
		)
		return defaultSentimentScore
	}
	if len(summaries) == 0 {
		return defaultSentimentScore
	}

	score := summaries[0].Data.Analysis.SentimentScore
	s.log.Info("fetched sentiment score",
		zap.String("customer_id", customer.CustomerID),
		zap.Float64("sentiment_score", score),
	)
	return score
}

func errorRow(customer domain.Customer, msg string) domain.CustomerAnalysis {
	return domain.CustomerAnalysis{
		CustomerMetrics: domain.CustomerMetrics{
			CustomerID:   customer.CustomerID,
			CustomerName: customer.CustomerName,
		},
		AnalysisError: msg,
	}
}
