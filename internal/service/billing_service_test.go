package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"billsense/internal/analysis"
	"billsense/internal/config"
	"billsense/internal/dates"
	"billsense/internal/domain"
	"billsense/internal/service"
	"billsense/mocks"
)

func newTestService(repo *mocks.MockBillingRepo, sentiment *mocks.MockSentimentService) service.BillingService {
	return service.NewBillingService(
		repo,
		sentiment,
		analysis.NewAnalyzer(nil),
		config.AnalysisConfig{Concurrency: 4, SentimentTimeoutSecs: 1},
		nil,
	)
}

func customer(name string) domain.Customer {
	return domain.Customer{
		ID:           uuid.New(),
		CustomerID:   "CUST-" + name,
		CustomerName: name,
		IsActive:     true,
	}
}

func paidInvoices(n int) []domain.Invoice {
	today := dates.Today()
	invoices := make([]domain.Invoice, 0, n)
	for i := 0; i < n; i++ {
		due := today.AddDate(0, 0, -30-i)
		invoices = append(invoices, domain.Invoice{
			ID:             uuid.New(),
			InvoiceDate:    dates.NewFlexDate(due.AddDate(0, 0, -30)),
			DueDate:        dates.NewFlexDate(due),
			InvoiceAmount:  1000,
			LastPaidAmount: 1000,
			LastPaidDate:   dates.NewFlexDate(due.AddDate(0, 0, -1)),
		})
	}
	return invoices
}

func sentimentSummary(score float64) []domain.FollowupSummary {
	return []domain.FollowupSummary{{
		Status: "success",
		Data: domain.FollowupSummaryData{
			Analysis: domain.SentimentAnalysis{SentimentScore: score},
		},
	}}
}

func TestAnalyzeAll_EmptyCustomerSet(t *testing.T) {
	repo := new(mocks.MockBillingRepo)
	sentiment := new(mocks.MockSentimentService)
	svc := newTestService(repo, sentiment)

	repo.On("ListActiveCustomers", mock.Anything).Return([]domain.Customer{}, nil)

	result, err := svc.AnalyzeAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, result.Results)
	repo.AssertExpectations(t)
}

func TestAnalyzeAll_RepoErrorPropagates(t *testing.T) {
	repo := new(mocks.MockBillingRepo)
	sentiment := new(mocks.MockSentimentService)
	svc := newTestService(repo, sentiment)

	repo.On("ListActiveCustomers", mock.Anything).Return(nil, errors.New("connection refused"))

	result, err := svc.AnalyzeAll(context.Background())

	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestAnalyzeAll_PreservesInputOrder(t *testing.T) {
	repo := new(mocks.MockBillingRepo)
	sentiment := new(mocks.MockSentimentService)
	svc := newTestService(repo, sentiment)

	customers := []domain.Customer{
		customer("Alpha"), customer("Beta"), customer("Gamma"), customer("Delta"),
	}
	repo.On("ListActiveCustomers", mock.Anything).Return(customers, nil)
	for _, c := range customers {
		repo.On("ListInvoices", mock.Anything, c.ID).Return(paidInvoices(3), nil)
	}
	sentiment.On("ClientFollowups", mock.Anything, mock.Anything).Return(sentimentSummary(0.8), nil)

	result, err := svc.AnalyzeAll(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Results, 4)
	for i, c := range customers {
		assert.Equal(t, c.CustomerID, result.Results[i].CustomerMetrics.CustomerID)
		assert.Empty(t, result.Results[i].AnalysisError)
	}
}

func TestAnalyzeAll_InvoiceFetchFailureMarksRowOnly(t *testing.T) {
	repo := new(mocks.MockBillingRepo)
	sentiment := new(mocks.MockSentimentService)
	svc := newTestService(repo, sentiment)

	good := customer("Good")
	bad := customer("Bad")
	repo.On("ListActiveCustomers", mock.Anything).Return([]domain.Customer{good, bad}, nil)
	repo.On("ListInvoices", mock.Anything, good.ID).Return(paidInvoices(3), nil)
	repo.On("ListInvoices", mock.Anything, bad.ID).Return(nil, errors.New("query timeout"))
	sentiment.On("ClientFollowups", mock.Anything, mock.Anything).Return(sentimentSummary(0.7), nil)

	result, err := svc.AnalyzeAll(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Empty(t, result.Results[0].AnalysisError)
	assert.Equal(t, "failed to fetch invoices", result.Results[1].AnalysisError)
	assert.Equal(t, bad.CustomerID, result.Results[1].CustomerMetrics.CustomerID)
}

func TestAnalyzeAll_SentimentFailureDegradesToNeutral(t *testing.T) {
	repo := new(mocks.MockBillingRepo)
	sentiment := new(mocks.MockSentimentService)
	svc := newTestService(repo, sentiment)

	c := customer("Alpha")
	repo.On("ListActiveCustomers", mock.Anything).Return([]domain.Customer{c}, nil)
	repo.On("ListInvoices", mock.Anything, c.ID).Return(paidInvoices(3), nil)
	sentiment.On("ClientFollowups", mock.Anything, mock.Anything).Return(nil, errors.New("llm unavailable"))

	result, err := svc.AnalyzeAll(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Empty(t, result.Results[0].AnalysisError)
	assert.Equal(t, 0.5, result.Results[0].CustomerMetrics.SentimentScoreFromComm)
}

func TestAnalyzeAll_NoFollowupsDegradesToNeutral(t *testing.T) {
	repo := new(mocks.MockBillingRepo)
	sentiment := new(mocks.MockSentimentService)
	svc := newTestService(repo, sentiment)

	c := customer("Alpha")
	repo.On("ListActiveCustomers", mock.Anything).Return([]domain.Customer{c}, nil)
	repo.On("ListInvoices", mock.Anything, c.ID).Return(paidInvoices(3), nil)
	sentiment.On("ClientFollowups", mock.Anything, mock.Anything).Return([]domain.FollowupSummary{}, nil)

	result, err := svc.AnalyzeAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0.5, result.Results[0].CustomerMetrics.SentimentScoreFromComm)
}

func TestAnalyzeAll_SentimentScoreFlowsIntoResult(t *testing.T) {
	repo := new(mocks.MockBillingRepo)
	sentiment := new(mocks.MockSentimentService)
	svc := newTestService(repo, sentiment)

	c := customer("Alpha")
	repo.On("ListActiveCustomers", mock.Anything).Return([]domain.Customer{c}, nil)
	repo.On("ListInvoices", mock.Anything, c.ID).Return(paidInvoices(4), nil)
	sentiment.On("ClientFollowups", mock.Anything, c).Return(sentimentSummary(0.9), nil)

	result, err := svc.AnalyzeAll(context.Background())

	require.NoError(t, err)
	row := result.Results[0]
	assert.Equal(t, 0.9, row.CustomerMetrics.SentimentScoreFromComm)
	// The communication score shifts the blended sentiment, not the client
	// score tiers.
	assert.Greater(t, row.ScoreResult.SentimentScore, 0.5)
}

// panickingSentiment triggers the per-customer panic containment.
type panickingSentiment struct{}

func (panickingSentiment) ClientFollowups(context.Context, domain.Customer) ([]domain.FollowupSummary, error) {
	panic("sentiment exploded")
}

func TestAnalyzeAll_PanicIsContainedToRow(t *testing.T) {
	repo := new(mocks.MockBillingRepo)
	svc := service.NewBillingService(
		repo,
		panickingSentiment{},
		analysis.NewAnalyzer(nil),
		config.AnalysisConfig{Concurrency: 2},
		nil,
	)

	c := customer("Boom")
	repo.On("ListActiveCustomers", mock.Anything).Return([]domain.Customer{c}, nil)
	repo.On("ListInvoices", mock.Anything, c.ID).Return(paidInvoices(2), nil)

	result, err := svc.AnalyzeAll(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Contains(t, result.Results[0].AnalysisError, "analysis failed")
	assert.Contains(t, result.Results[0].AnalysisError, "sentiment exploded")
}

func TestAnalyzeByInvoice_Success(t *testing.T) {
	repo := new(mocks.MockBillingRepo)
	sentiment := new(mocks.MockSentimentService)
	svc := newTestService(repo, sentiment)

	c := customer("Alpha")
	invoiceID := uuid.New()
	repo.On("GetCustomerByInvoiceID", mock.Anything, invoiceID).Return(&c, nil)
	repo.On("ListInvoices", mock.Anything, c.ID).Return(paidInvoices(3), nil)
	sentiment.On("ClientFollowups", mock.Anything, c).Return(sentimentSummary(0.8), nil)

	result, err := svc.AnalyzeByInvoice(context.Background(), invoiceID)

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, c.CustomerID, result.Results[0].CustomerMetrics.CustomerID)
}

func TestAnalyzeByInvoice_InactiveCustomer(t *testing.T) {
	repo := new(mocks.MockBillingRepo)
	sentiment := new(mocks.MockSentimentService)
	svc := newTestService(repo, sentiment)

	c := customer("Dormant")
	c.IsActive = false
	invoiceID := uuid.New()
	repo.On("GetCustomerByInvoiceID", mock.Anything, invoiceID).Return(&c, nil)

	result, err := svc.AnalyzeByInvoice(context.Background(), invoiceID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrCustomerInactive)
	repo.AssertNotCalled(t, "ListInvoices")
}

func TestAnalyzeByInvoice_UnknownInvoice(t *testing.T) {
	repo := new(mocks.MockBillingRepo)
	sentiment := new(mocks.MockSentimentService)
	svc := newTestService(repo, sentiment)

	invoiceID := uuid.New()
	repo.On("GetCustomerByInvoiceID", mock.Anything, invoiceID).Return(nil, domain.ErrNotFound)

	result, err := svc.AnalyzeByInvoice(context.Background(), invoiceID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
