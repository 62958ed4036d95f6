// Package export renders batch analysis results as downloadable reports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"billsense/internal/domain"
)

// BOM holds the UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// csvColumns defines the CSV header row (20 columns).
var csvColumns = []string{
	"Customer ID",
	"Customer Name",
	"Total Invoices",
	"Total Invoice Amount",
	"Total Received",
	"Total Receivable",
	"Total Overdue Amount",
	"Overdue Invoices",
	"On-Time Ratio",
	"Late Ratio",
	"Avg Overdue Days",
	"Max Overdue Days",
	"Overdue 0-30 Days",
	"Overdue 31-60 Days",
	"Overdue 61-90 Days",
	"Overdue 90+ Days",
	"Client Score",
	"Sentiment Score",
	"Risk Level",
	"Key Factors",
}

// CSVWriter wraps csv.Writer for exporting analysis results as CSV.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(csvColumns)
}

// WriteResults converts a batch of customer analyses to CSV rows and writes
// them. Rows that carry an analysis error are skipped.
func (w *CSVWriter) WriteResults(results []domain.CustomerAnalysis) error {
	for _, row := range results {
		if row.AnalysisError != "" {
			continue
		}
		record := []string{
			row.CustomerID,
			row.CustomerName,
			fmt.Sprintf("%d", row.TotalInvoices),
			formatAmount(row.TotalInvoiceAmount),
			formatAmount(row.TotalReceived),
			formatAmount(row.TotalReceivable),
			formatAmount(row.TotalOverdueAmount),
			fmt.Sprintf("%d", row.OverdueInvoiceCount),
			fmt.Sprintf("%.4f", row.OnTimePaymentRatio),
			fmt.Sprintf("%.4f", row.LatePaymentRatio),
			fmt.Sprintf("%.2f", row.AvgOverdueDays),
			fmt.Sprintf("%d", row.MaxOverdueDays),
			formatAmount(row.OverdueBuckets[domain.Bucket0To30].Amount),
			formatAmount(row.OverdueBuckets[domain.Bucket31To60].Amount),
			formatAmount(row.OverdueBuckets[domain.Bucket61To90].Amount),
			formatAmount(row.OverdueBuckets[domain.Bucket90Plus].Amount),
			fmt.Sprintf("%.4f", row.ClientScore),
			fmt.Sprintf("%.4f", row.SentimentScore),
			string(row.RiskLevel),
			strings.Join(row.KeyFactors, "; "),
		}
		if err := w.csv.Write(record); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", row.CustomerID, err)
		}
	}
	return nil
}

// Flush flushes buffered rows and reports any write error.
func (w *CSVWriter) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
