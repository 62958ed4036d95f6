package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"billsense/internal/domain"
)

// MockSentimentAnalyzer is a mock implementation of port.SentimentAnalyzer.
type MockSentimentAnalyzer struct {
	mock.Mock
}

func (m *MockSentimentAnalyzer) Analyze(ctx context.Context, comments string) (*domain.SentimentAnalysis, error) {
	args := m.Called(ctx, comments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SentimentAnalysis), args.Error(1)
}

func (m *MockSentimentAnalyzer) AnalyzeWithHistory(ctx context.Context, comments, pastSummary, pastStatus string) (*domain.SentimentAnalysis, error) {
	args := m.Called(ctx, comments, pastSummary, pastStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SentimentAnalysis), args.Error(1)
}
