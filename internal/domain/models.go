package domain

import (
	"time"

	"github.com/google/uuid"

	"billsense/internal/dates"
)

// Customer represents a billed customer account.
type Customer struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CustomerID   string    `db:"customer_id" json:"customer_id"`
	CustomerName string    `db:"customer_name" json:"customer_name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	IsDeleted    bool      `db:"is_deleted" json:"is_deleted"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Invoice is the upstream invoice record. The core reads it, never mutates
// it. Date fields are nullable: absence means "unknown", not "today".
type Invoice struct {
	ID                  uuid.UUID      `db:"id" json:"db_invoice_id"`
	CustomerID          uuid.UUID      `db:"customer_id" json:"-"`
	InvoiceNumber       string         `db:"invoice_number" json:"invoice_number"`
	ProjectName         string         `db:"project_name" json:"project_name"`
	MilestoneName       string         `db:"milestone_name" json:"milestone_name"`
	CurrencyType        string         `db:"currency_type" json:"currency_type"`
	InvoiceDate         dates.FlexDate `db:"invoice_date" json:"invoice_date"`
	DueDate             dates.FlexDate `db:"due_date" json:"due_date"`
	InvoiceAmount       float64        `db:"invoice_amount" json:"invoice_amount"`
	AmountOverdue       float64        `db:"amount_overdue" json:"amount_overdue"`
	TotalReceivable     float64        `db:"total_receivable" json:"total_recivable"`
	IsOverdue           bool           `db:"is_overdue" json:"is_overdue"`
	IsDisputed          bool           `db:"is_disputed" json:"is_disputed"`
	IsDeleted           bool           `db:"is_deleted" json:"-"`
	UpcomingPaymentDate dates.FlexDate `db:"upcoming_payment_date" json:"upcoming_payment_date"`
	LastPaidAmount      float64        `db:"last_paid_amount" json:"last_paid_amount"`
	LastPaidDate        dates.FlexDate `db:"last_paid_date" json:"last_paid_date"`
}

// InvoiceDetail is the per-invoice reporting row derived during aggregation.
type InvoiceDetail struct {
	InvoiceNumber       string        `json:"invoice_number"`
	InvoiceDate         *string       `json:"invoice_generated_date"`
	DueDate             *string       `json:"invoice_due_date"`
	DaysPastDue         int           `json:"days_past_due"`
	ClientName          string        `json:"client_name"`
	ProjectName         string        `json:"project_name"`
	Milestone           string        `json:"milestone"`
	InvoiceAmount       float64       `json:"invoice_amount"`
	PaymentStatus       PaymentStatus `json:"payment_status"`
	PaymentReceivedDate *string       `json:"payment_received_date"`
	OutstandingAmount   float64       `json:"outstanding_amount"`
	Currency            string        `json:"currency"`
}

// BucketStat holds the count and receivable amount accumulated in one aging
// bucket.
type BucketStat struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// CustomerMetrics is the aggregated view of a customer's invoice history.
// It is recomputed on every call and never persisted.
type CustomerMetrics struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`

	TotalInvoices          int     `json:"total_invoices"`
	TotalInvoiceAmount     float64 `json:"total_invoice_amount"`
	TotalReceived          float64 `json:"total_received"`
	TotalReceivable        float64 `json:"total_receivable"`
	TotalOverdueAmount     float64 `json:"total_overdue_amount"`
	OverdueInvoiceCount    int     `json:"overdue_invoice_count"`
	PaidOnTimeCount        int     `json:"paid_on_time_count"`
	PaidLateCount          int     `json:"paid_late_count"`
	UpcomingInvoiceCount   int     `json:"upcoming_invoice_count"`
	UpcomingInvoiceAmount  float64 `json:"upcoming_invoice_amount"`
	PartialPaidOnTimeCount int     `json:"partial_paid_on_time_count"`
	PartialPaidLateCount   int     `json:"partial_paid_late_count"`
	DisputedInvoiceCount   int     `json:"disputed_invoice_count"`

	InvoiceDetails []InvoiceDetail `json:"invoices_details"`

	OverduePercentage       float64               `json:"overdue_percentage"`
	OverduePercentageAmount float64               `json:"overdue_percentage_amount"`
	OverduePercentageCount  float64               `json:"overdue_percentage_count"`
	MaxOverdueDays          int                   `json:"max_overdue_days"`
	OverdueAmountP25        float64               `json:"overdue_amount_percentile_25"`
	OverdueAmountMedian     float64               `json:"overdue_amount_median"`
	OverdueAmountP75        float64               `json:"overdue_amount_percentile_75"`
	AvgOverdueDays          float64               `json:"avg_overdue_days"`
	OverdueBuckets          map[string]BucketStat `json:"overdue_buckets"`

	TotalPastInvoices   int     `json:"total_past_invoices"`
	OnTimePaymentRatio  float64 `json:"on_time_payment_ratio"`
	LatePaymentRatio    float64 `json:"late_payment_ratio"`
	RecurringDelayRatio float64 `json:"recurring_delay_ratio"`

	NextUpcomingPaymentDate *string `json:"next_upcoming_payment_date"`
	LastInvoiceDate         *string `json:"last_invoice_date"`
	LastPaymentDate         *string `json:"last_payment_date"`

	// SentimentScoreFromComm is attached by the orchestrator before scoring.
	// Defaults to the neutral 0.5 when the collaborator is unavailable.
	SentimentScoreFromComm float64 `json:"sentiment_score_from_comm"`
}

// ScoreResult is the output of the scoring engine for one customer.
type ScoreResult struct {
	ClientScore     float64   `json:"client_score"`
	SentimentScore  float64   `json:"sentiment_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
	KeyFactors      []string  `json:"key_factors"`
	Recommendations []string  `json:"recommendations"`
	AnalysisSummary string    `json:"analysis_summary"`
}

// CustomerAnalysis merges a customer's metrics with its score into one
// response row.
type CustomerAnalysis struct {
	CustomerMetrics
	ScoreResult

	// AnalysisError marks a row whose processing failed; the rest of the
	// batch is unaffected.
	AnalysisError string `json:"analysis_error,omitempty"`
}

// BatchResult is the aggregate response over all analyzed customers.
type BatchResult struct {
	Results []CustomerAnalysis `json:"results"`
}

// FollowUp is a recorded communication attached to an invoice.
type FollowUp struct {
	ID         uuid.UUID `db:"id" json:"id"`
	InvoiceID  uuid.UUID `db:"invoice_id" json:"invoice_id"`
	CustomerID uuid.UUID `db:"customer_id" json:"customer_id"`
	Comments   string    `db:"comments" json:"comments"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SentimentSummary is the persisted rolling sentiment state per customer.
type SentimentSummary struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CustomerID  uuid.UUID `db:"customer_id" json:"customer_id"`
	PastSummary string    `db:"past_summary" json:"past_summary"`
	PastStatus  string    `db:"past_status" json:"past_status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SentimentAnalysis is the strict-JSON payload the language model returns.
type SentimentAnalysis struct {
	PastStatus           string   `json:"past_status"`
	CurrentStatus        string   `json:"current_status"`
	RelationshipTrend    string   `json:"relationship_trend"`
	SentimentScore       float64  `json:"sentiment_score"`
	Sentiment            string   `json:"sentiment"`
	CommunicationClarity string   `json:"communication_clarity"`
	ResponsePattern      string   `json:"response_pattern"`
	KeyNotes             []string `json:"key_notes"`
}

// FollowupFlowEntry is one dated sentiment reading in a customer's followup
// history.
type FollowupFlowEntry struct {
	Date           string  `json:"date"`
	SentimentScore float64 `json:"sentiment_score"`
}

// FollowupSummaryData carries the analysis body of a followup summary.
type FollowupSummaryData struct {
	ID              int                 `json:"id"`
	Analysis        SentimentAnalysis   `json:"analysis"`
	FollowupsFlow   []FollowupFlowEntry `json:"followups_flow"`
	CombinedSummary string              `json:"combined_summary"`
	TotalFollowups  int                 `json:"total_followups"`
}

// FollowupSummary is the sentiment collaborator's per-customer summary
// object. The orchestrator only reads Data.Analysis.SentimentScore.
type FollowupSummary struct {
	Status        string              `json:"status"`
	Message       string              `json:"message"`
	CustomerID    string              `json:"customer_id"`
	CustomerName  string              `json:"customer_name"`
	TotalInvoices int                 `json:"total_invoices"`
	Data          FollowupSummaryData `json:"data"`
}
