package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"billsense/internal/domain"
	"billsense/internal/handler"
	"billsense/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleBatch() *domain.BatchResult {
	return &domain.BatchResult{Results: []domain.CustomerAnalysis{{
		CustomerMetrics: domain.CustomerMetrics{
			CustomerID:    "CUST-1001",
			CustomerName:  "Prime Ventures 1",
			TotalInvoices: 4,
		},
		ScoreResult: domain.ScoreResult{
			ClientScore: 0.82,
			RiskLevel:   domain.RiskLow,
			KeyFactors:  []string{"Excellent payment behavior"},
		},
	}}}
}

func doRequest(h *handler.BillingHandler, method, target string, fn func(*gin.Context)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(method, target, nil)
	fn(c)
	return w
}

func TestGetAnalysis_All(t *testing.T) {
	svc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(svc, nil)

	svc.On("AnalyzeAll", mock.Anything).Return(sampleBatch(), nil)

	w := doRequest(h, http.MethodGet, "/api/v1/billing/analysis", h.GetAnalysis)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, w.Body.String(), "CUST-1001")
	svc.AssertExpectations(t)
}

func TestGetAnalysis_ByInvoice(t *testing.T) {
	svc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(svc, nil)

	invoiceID := uuid.New()
	svc.On("AnalyzeByInvoice", mock.Anything, invoiceID).Return(sampleBatch(), nil)

	w := doRequest(h, http.MethodGet,
		"/api/v1/billing/analysis?invoice_id="+invoiceID.String(), h.GetAnalysis)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestGetAnalysis_InvalidInvoiceID(t *testing.T) {
	svc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(svc, nil)

	w := doRequest(h, http.MethodGet,
		"/api/v1/billing/analysis?invoice_id=not-a-uuid", h.GetAnalysis)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "INVALID_INVOICE_ID", resp.Error.Code)
	svc.AssertNotCalled(t, "AnalyzeByInvoice")
}

func TestGetAnalysis_UnknownInvoice(t *testing.T) {
	svc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(svc, nil)

	invoiceID := uuid.New()
	svc.On("AnalyzeByInvoice", mock.Anything, invoiceID).Return(nil, domain.ErrNotFound)

	w := doRequest(h, http.MethodGet,
		"/api/v1/billing/analysis?invoice_id="+invoiceID.String(), h.GetAnalysis)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestExportAnalysis_CSV(t *testing.T) {
	svc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(svc, nil)

	svc.On("AnalyzeAll", mock.Anything).Return(sampleBatch(), nil)

	w := doRequest(h, http.MethodGet,
		"/api/v1/billing/analysis/export?format=csv", h.ExportAnalysis)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	// Body starts with the UTF-8 BOM, then the header row.
	body := w.Body.Bytes()
	assert.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}))
	assert.True(t, strings.HasPrefix(string(body[3:]), "Customer ID,"))
	assert.Contains(t, string(body), "CUST-1001")
}

func TestExportAnalysis_DefaultsToCSV(t *testing.T) {
	svc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(svc, nil)

	svc.On("AnalyzeAll", mock.Anything).Return(sampleBatch(), nil)

	w := doRequest(h, http.MethodGet, "/api/v1/billing/analysis/export", h.ExportAnalysis)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
}

func TestExportAnalysis_XLSX(t *testing.T) {
	svc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(svc, nil)

	svc.On("AnalyzeAll", mock.Anything).Return(sampleBatch(), nil)

	w := doRequest(h, http.MethodGet,
		"/api/v1/billing/analysis/export?format=xlsx", h.ExportAnalysis)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	// XLSX files are ZIP archives.
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestExportAnalysis_UnsupportedFormat(t *testing.T) {
	svc := new(mocks.MockBillingService)
	h := handler.NewBillingHandler(svc, nil)

	w := doRequest(h, http.MethodGet,
		"/api/v1/billing/analysis/export?format=pdf", h.ExportAnalysis)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UNSUPPORTED_EXPORT_FORMAT", resp.Error.Code)
	svc.AssertNotCalled(t, "AnalyzeAll")
}
