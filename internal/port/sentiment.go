package port

import (
	"context"

	"billsense/internal/domain"
)

// SentimentService summarizes a customer's communication tone. It returns a
// list of at most one summary object; an empty list means no followups were
// recorded. Callers must treat any error as "sentiment unavailable" and
// degrade to the neutral score.
type SentimentService interface {
	ClientFollowups(ctx context.Context, customer domain.Customer) ([]domain.FollowupSummary, error)
}

// SentimentAnalyzer evaluates a block of communication text. It is backed by
// a language-model endpoint; the score is an opaque value in [0,1].
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, comments string) (*domain.SentimentAnalysis, error)

	// AnalyzeWithHistory evaluates text in the context of the customer's
	// previously stored summary and relationship status.
	AnalyzeWithHistory(ctx context.Context, comments, pastSummary, pastStatus string) (*domain.SentimentAnalysis, error)
}
