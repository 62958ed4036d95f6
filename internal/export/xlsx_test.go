package export_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billsense/internal/domain"
	"billsense/internal/export"
)

func TestBuildWorkbook_TwoSheets(t *testing.T) {
	row := sampleAnalysis()
	date := "2024-05-01"
	row.InvoiceDetails = []domain.InvoiceDetail{{
		InvoiceNumber:     "INV-1001-001",
		ClientName:        row.CustomerName,
		ProjectName:       "Cloud Migration",
		Milestone:         "Milestone 1",
		InvoiceDate:       &date,
		DueDate:           &date,
		DaysPastDue:       12,
		InvoiceAmount:     5000,
		OutstandingAmount: 5000,
		PaymentStatus:     domain.PaymentStatusUnpaid,
		Currency:          "INR",
	}}

	f, err := export.BuildWorkbook(&domain.BatchResult{Results: []domain.CustomerAnalysis{row}})
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.ElementsMatch(t, []string{"Customer Scores", "Invoice Details"}, f.GetSheetList())

	got, err := f.GetCellValue("Customer Scores", "A2")
	require.NoError(t, err)
	assert.Equal(t, "CUST-1001", got)

	got, err = f.GetCellValue("Customer Scores", "S2")
	require.NoError(t, err)
	assert.Equal(t, "Medium", got)

	got, err = f.GetCellValue("Invoice Details", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Invoice Number", got)

	got, err = f.GetCellValue("Invoice Details", "A2")
	require.NoError(t, err)
	assert.Equal(t, "INV-1001-001", got)

	got, err = f.GetCellValue("Invoice Details", "E2")
	require.NoError(t, err)
	assert.Equal(t, date, got)

	// No payment received yet renders as an empty cell.
	got, err = f.GetCellValue("Invoice Details", "K2")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuildWorkbook_SkipsErrorRows(t *testing.T) {
	failed := domain.CustomerAnalysis{
		CustomerMetrics: domain.CustomerMetrics{CustomerID: "CUST-9999"},
		AnalysisError:   "analysis failed: boom",
	}

	f, err := export.BuildWorkbook(&domain.BatchResult{Results: []domain.CustomerAnalysis{failed}})
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetCellValue("Customer Scores", "A2")
	require.NoError(t, err)
	assert.Empty(t, got)
}
