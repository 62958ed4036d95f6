package domain

// PaymentStatus describes how much of an invoice has been settled.
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "Unpaid"
	PaymentStatusPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentStatusPaid          PaymentStatus = "Paid"
)

// RiskLevel classifies a customer's billing risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Aging bucket labels. Every metrics result carries all five buckets, even
// when empty.
const (
	BucketUpcoming = "Upcoming"
	Bucket0To30    = "0-30 days"
	Bucket31To60   = "31-60 days"
	Bucket61To90   = "61-90 days"
	Bucket90Plus   = "90+ days"
)

// BucketOrder lists the aging buckets in reporting order.
var BucketOrder = []string{BucketUpcoming, Bucket0To30, Bucket31To60, Bucket61To90, Bucket90Plus}
