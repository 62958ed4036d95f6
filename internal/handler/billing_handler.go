package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"billsense/internal/domain"
	"billsense/internal/export"
	"billsense/internal/service"
)

// BillingHandler handles billing analysis endpoints.
type BillingHandler struct {
	billingService service.BillingService
	log            *zap.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService service.BillingService, log *zap.Logger) *BillingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BillingHandler{billingService: billingService, log: log}
}

// GetAnalysis handles GET /api/v1/billing/analysis
// @Summary Run the billing risk analysis
// @Description Aggregates payment metrics and risk scores for all active customers, or for the single customer owning the invoice given by invoice_id.
// @Tags billing
// @Produce json
// @Param invoice_id query string false "Restrict analysis to the customer owning this invoice (UUID)"
// @Success 200 {object} APIResponse{data=domain.BatchResult} "Batch analysis result"
// @Failure 404 {object} APIResponse "Unknown invoice"
// @Router /billing/analysis [get]
func (h *BillingHandler) GetAnalysis(c *gin.Context) {
	result, ok := h.runAnalysis(c)
	if !ok {
		return
	}
	RespondOK(c, result)
}

// ExportAnalysis handles GET /api/v1/billing/analysis/export
// @Summary Download the billing risk analysis as a report
// @Tags billing
// @Produce application/octet-stream
// @Param format query string false "Report format: csv (default) or xlsx"
// @Param invoice_id query string false "Restrict analysis to the customer owning this invoice (UUID)"
// @Success 200 {file} binary "Report file"
// @Router /billing/analysis/export [get]
func (h *BillingHandler) ExportAnalysis(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		HandleError(c, h.log, domain.ErrExportFormat)
		return
	}

	result, ok := h.runAnalysis(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("billing-analysis-%s.%s", time.Now().UTC().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	switch format {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if _, err := c.Writer.Write(export.BOM); err != nil {
			return
		}
		w := export.NewCSVWriter(c.Writer)
		if err := w.WriteHeader(); err != nil {
			h.log.Error("csv export failed", zap.Error(err))
			return
		}
		if err := w.WriteResults(result.Results); err != nil {
			h.log.Error("csv export failed", zap.Error(err))
			return
		}
		if err := w.Flush(); err != nil {
			h.log.Error("csv export failed", zap.Error(err))
		}
	case "xlsx":
		f, err := export.BuildWorkbook(result)
		if err != nil {
			HandleError(c, h.log, err)
			return
		}
		defer func() { _ = f.Close() }()
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		if err := f.Write(c.Writer); err != nil {
			h.log.Error("xlsx export failed", zap.Error(err))
		}
	}
}

// runAnalysis dispatches to the single-customer path when an invoice_id
// query parameter is present, otherwise analyzes all active customers.
// It writes the error response itself and reports false on failure.
func (h *BillingHandler) runAnalysis(c *gin.Context) (*domain.BatchResult, bool) {
	idStr := c.Query("invoice_id")
	if idStr == "" {
		result, err := h.billingService.AnalyzeAll(c.Request.Context())
		if err != nil {
			HandleError(c, h.log, err)
			return nil, false
		}
		return result, true
	}

	invoiceID, err := uuid.Parse(idStr)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INVOICE_ID", "invoice_id must be a valid UUID")
		return nil, false
	}

	result, err := h.billingService.AnalyzeByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		HandleError(c, h.log, err)
		return nil, false
	}
	return result, true
}
