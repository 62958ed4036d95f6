package sentiment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"billsense/internal/domain"
	"billsense/internal/port"
)

// Service aggregates a customer's followup communications into a sentiment
// summary. It implements port.SentimentService.
type Service struct {
	followups    port.FollowUpRepository
	summaries    port.SentimentSummaryRepository
	analyzer     port.SentimentAnalyzer
	maxFollowups int
	log          *zap.Logger
}

// NewService creates a sentiment Service. maxFollowups caps how many
// followups are read per customer; 0 defaults to 50.
func NewService(
	followups port.FollowUpRepository,
	summaries port.SentimentSummaryRepository,
	analyzer port.SentimentAnalyzer,
	maxFollowups int,
	log *zap.Logger,
) *Service {
	if maxFollowups <= 0 {
		maxFollowups = 50
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		followups:    followups,
		summaries:    summaries,
		analyzer:     analyzer,
		maxFollowups: maxFollowups,
		log:          log,
	}
}

// ClientFollowups returns at most one summary object for the customer, or an
// empty list when no followups are recorded.
func (s *Service) ClientFollowups(ctx context.Context, customer domain.Customer) ([]domain.FollowupSummary, error) {
	followups, err := s.followups.ListByCustomer(ctx, customer.ID, s.maxFollowups)
	if err != nil {
		return nil, fmt.Errorf("listing followups: %w", err)
	}
	if len(followups) == 0 {
		return nil, nil
	}

	record, err := s.summaries.GetOrCreate(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("loading sentiment summary: %w", err)
	}

	texts := make([]string, 0, len(followups))
	flow := make([]domain.FollowupFlowEntry, 0, len(followups))
	for _, f := range followups {
		texts = append(texts, f.Comments)

		entry := domain.FollowupFlowEntry{Date: f.CreatedAt.UTC().Format("2006-01-02")}
		analysis, err := s.analyzer.Analyze(ctx, f.Comments)
		if err != nil {
			// A single unreadable followup contributes a zero reading; it
			// must not sink the whole summary.
			s.log.Warn("followup sentiment analysis failed",
				zap.String("customer_id", customer.CustomerID),
				zap.String("followup_id", f.ID.String()),
				zap.Error(err),
			)
		} else {
			entry.SentimentScore = analysis.SentimentScore
		}
		flow = append(flow, entry)
	}

	combined, err := s.analyzer.AnalyzeWithHistory(ctx,
		strings.Join(texts, " "), record.PastSummary, record.PastStatus)
	if err != nil {
		return nil, fmt.Errorf("analyzing combined followups: %w", err)
	}

	combinedSummary := strings.Join(combined.KeyNotes, " | ")

	record.PastSummary = combinedSummary
	record.PastStatus = combined.CurrentStatus
	if err := s.summaries.Update(ctx, record); err != nil {
		// Persisting the rolling state is best-effort; the caller still
		// gets a usable summary.
		s.log.Warn("failed to persist sentiment summary",
			zap.String("customer_id", customer.CustomerID),
			zap.Error(err),
		)
	}

	return []domain.FollowupSummary{{
		Status:        "success",
		Message:       "Sentiment analysis fetched successfully.",
		CustomerID:    customer.CustomerID,
		CustomerName:  customer.CustomerName,
		TotalInvoices: len(flow),
		Data: domain.FollowupSummaryData{
			ID:              len(flow),
			Analysis:        *combined,
			FollowupsFlow:   flow,
			CombinedSummary: combinedSummary,
			TotalFollowups:  len(flow),
		},
	}}, nil
}
