package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"billsense/internal/domain"
)

const (
	scoresSheet  = "Customer Scores"
	detailsSheet = "Invoice Details"
)

var detailColumns = []interface{}{
	"Invoice Number",
	"Client Name",
	"Project",
	"Milestone",
	"Invoice Date",
	"Due Date",
	"Days Past Due",
	"Invoice Amount",
	"Outstanding Amount",
	"Payment Status",
	"Payment Received Date",
	"Currency",
}

// BuildWorkbook renders a batch result as a two-sheet XLSX workbook: one
// summary row per customer and one row per invoice. The caller owns closing
// the returned file.
func BuildWorkbook(result *domain.BatchResult) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", scoresSheet); err != nil {
		return nil, fmt.Errorf("renaming scores sheet: %w", err)
	}
	if _, err := f.NewSheet(detailsSheet); err != nil {
		return nil, fmt.Errorf("creating details sheet: %w", err)
	}

	header := make([]interface{}, len(csvColumns))
	for i, c := range csvColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(scoresSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing scores header: %w", err)
	}
	if err := f.SetSheetRow(detailsSheet, "A1", &detailColumns); err != nil {
		return nil, fmt.Errorf("writing details header: %w", err)
	}

	scoreRow := 2
	detailRow := 2
	for _, row := range result.Results {
		if row.AnalysisError != "" {
			continue
		}

		cell, err := excelize.CoordinatesToCellName(1, scoreRow)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			row.CustomerID,
			row.CustomerName,
			row.TotalInvoices,
			row.TotalInvoiceAmount,
			row.TotalReceived,
			row.TotalReceivable,
			row.TotalOverdueAmount,
			row.OverdueInvoiceCount,
			row.OnTimePaymentRatio,
			row.LatePaymentRatio,
			row.AvgOverdueDays,
			row.MaxOverdueDays,
			row.OverdueBuckets[domain.Bucket0To30].Amount,
			row.OverdueBuckets[domain.Bucket31To60].Amount,
			row.OverdueBuckets[domain.Bucket61To90].Amount,
			row.OverdueBuckets[domain.Bucket90Plus].Amount,
			row.ClientScore,
			row.SentimentScore,
			string(row.RiskLevel),
			strings.Join(row.KeyFactors, "; "),
		}
		if err := f.SetSheetRow(scoresSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("writing scores row %d: %w", scoreRow, err)
		}
		scoreRow++

		for _, detail := range row.InvoiceDetails {
			cell, err := excelize.CoordinatesToCellName(1, detailRow)
			if err != nil {
				return nil, err
			}
			values := []interface{}{
				detail.InvoiceNumber,
				detail.ClientName,
				detail.ProjectName,
				detail.Milestone,
				derefOrEmpty(detail.InvoiceDate),
				derefOrEmpty(detail.DueDate),
				detail.DaysPastDue,
				detail.InvoiceAmount,
				detail.OutstandingAmount,
				string(detail.PaymentStatus),
				derefOrEmpty(detail.PaymentReceivedDate),
				detail.Currency,
			}
			if err := f.SetSheetRow(detailsSheet, cell, &values); err != nil {
				return nil, fmt.Errorf("writing details row %d: %w", detailRow, err)
			}
			detailRow++
		}
	}

	return f, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
