package analysis

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"billsense/internal/dates"
	"billsense/internal/domain"
)

// Composite score weights. They sum to 1.0 before adjustments.
const (
	weightOverdueScore    = 0.40
	weightOnTimeRatio     = 0.25
	weightAgingScore      = 0.20
	weightBehavioralScore = 0.15
)

const (
	disputePenaltyPerCase    = 0.05
	recurringDelayPenaltyCap = 0.10
	projectValueBonusDivisor = 500000.0
	projectValueBonusCap     = 0.05
	sentimentBlendBilling    = 0.7
	sentimentBlendComm       = 0.3
)

const (
	maxKeyFactors      = 5
	maxRecommendations = 4
)

// CalculateScore converts aggregated metrics and the raw invoice list into a
// weighted composite risk score with a risk level, explanatory factors, and
// recommendations. The externally supplied sentiment score is read from
// metrics.SentimentScoreFromComm and blended into the reported sentiment
// score without feeding back into the client score.
func (a *Analyzer) CalculateScore(m *domain.CustomerMetrics, invoices []domain.Invoice, today time.Time) *domain.ScoreResult {
	if today.IsZero() {
		today = dates.Today()
	}

	totalInvoiceAmount := m.TotalInvoiceAmount
	if totalInvoiceAmount == 0 {
		totalInvoiceAmount = 1.0
	}
	totalInvoices := m.TotalInvoices
	if totalInvoices == 0 {
		totalInvoices = 1
	}

	// A single historical invoice is not enough signal to score on.
	totalPastInvoices := totalInvoices - m.UpcomingInvoiceCount
	if totalPastInvoices <= 1 {
		a.log.Debug("insufficient history, returning neutral score",
			zap.String("customer_id", m.CustomerID),
			zap.Int("total_past_invoices", totalPastInvoices),
		)
		return &domain.ScoreResult{
			ClientScore:    0.5,
			SentimentScore: 0.5,
			RiskLevel:      domain.RiskMedium,
			KeyFactors:     []string{"Limited or no payment history available"},
			Recommendations: []string{
				"Monitor initial payments closely",
				"Request upfront deposit for trust",
			},
			AnalysisSummary: "Client has limited invoice data, resulting in a neutral score of 0.5.",
		}
	}

	overdueAmount := m.TotalOverdueAmount
	overdueScore := 1 - min1(overdueAmount/totalInvoiceAmount)

	severeOverdueAmount := m.OverdueBuckets[domain.Bucket61To90].Amount +
		m.OverdueBuckets[domain.Bucket90Plus].Amount
	agingScore := 1 - min1(severeOverdueAmount/totalInvoiceAmount)

	behavioralPenalty := 0.0
	if m.DisputedInvoiceCount > 0 {
		behavioralPenalty += disputePenaltyPerCase * float64(m.DisputedInvoiceCount)
	}
	behavioralPenalty += minF(m.RecurringDelayRatio*recurringDelayPenaltyCap, recurringDelayPenaltyCap)
	behavioralScore := 1 - min1(behavioralPenalty)

	projectValueBonus := minF(totalInvoiceAmount/projectValueBonusDivisor, projectValueBonusCap)
	trendAdjustment := TrendAdjustment(invoices, today)

	score := overdueScore*weightOverdueScore +
		m.OnTimePaymentRatio*weightOnTimeRatio +
		agingScore*weightAgingScore +
		behavioralScore*weightBehavioralScore

	// Sentiment is reported alongside the client score, not folded into it.
	finalSentimentScore := score*sentimentBlendBilling + m.SentimentScoreFromComm*sentimentBlendComm

	score += trendAdjustment
	score += projectValueBonus
	score = clamp01(score)

	var riskLevel domain.RiskLevel
	switch {
	case score < 0.5:
		riskLevel = domain.RiskHigh
	case score < 0.7:
		riskLevel = domain.RiskMedium
	default:
		riskLevel = domain.RiskLow
	}

	var keyFactors []string
	if overdueAmount/totalInvoiceAmount > 0.3 {
		keyFactors = append(keyFactors, fmt.Sprintf("High overdue amount ratio: %.2f%%", overdueAmount/totalInvoiceAmount*100))
	}
	if m.OnTimePaymentRatio < 0.6 {
		keyFactors = append(keyFactors, fmt.Sprintf("Low on-time payment ratio: %.2f%%", m.OnTimePaymentRatio*100))
	}
	if trendAdjustment < 0 {
		keyFactors = append(keyFactors, "Worsening payment trend")
	} else if trendAdjustment > 0 {
		keyFactors = append(keyFactors, "Improving payment trend")
	}
	if severeOverdueAmount > 0 {
		keyFactors = append(keyFactors, "Has invoices overdue by more than 60 days.")
	}
	if m.DisputedInvoiceCount > 0 {
		keyFactors = append(keyFactors, fmt.Sprintf("High number of invoice disputes: %d", m.DisputedInvoiceCount))
	}
	if m.RecurringDelayRatio > 0.2 {
		keyFactors = append(keyFactors, "Recurring payment delays detected.")
	}
	if len(keyFactors) == 0 {
		keyFactors = append(keyFactors, "Excellent payment behavior")
	}

	var recommendations []string
	switch riskLevel {
	case domain.RiskHigh:
		recommendations = append(recommendations,
			"Implement stricter payment terms and late payment penalties",
			"Require upfront deposits for new projects")
	case domain.RiskMedium:
		recommendations = append(recommendations,
			"Offer incentives for early payments",
			"Monitor upcoming invoices closely")
	default:
		recommendations = append(recommendations,
			"Offer extended credit terms for retention",
			"Maintain current terms")
	}
	if overdueAmount > 0 {
		recommendations = append(recommendations, "Propose structured payment plan for overdue amounts")
	}

	// The summary names every triggered factor, even past the reported cap.
	summary := fmt.Sprintf("Client score is %.2f (%s risk), driven by: %s.",
		score, riskLevel, strings.Join(keyFactors, ", "))

	if len(keyFactors) > maxKeyFactors {
		keyFactors = keyFactors[:maxKeyFactors]
	}
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}

	return &domain.ScoreResult{
		ClientScore:     roundTo(score, 4),
		SentimentScore:  roundTo(finalSentimentScore, 4),
		RiskLevel:       riskLevel,
		KeyFactors:      keyFactors,
		Recommendations: recommendations,
		AnalysisSummary: summary,
	}
}

func min1(v float64) float64 {
	return minF(v, 1)
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
