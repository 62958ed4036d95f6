package analysis

import (
	"sort"
	"time"

	"billsense/internal/dates"
	"billsense/internal/domain"
)

// Trend adjustments applied to the base score.
const (
	trendWorseningAdjustment = -0.1
	trendImprovingAdjustment = 0.1
)

type overduePoint struct {
	invoiceDate time.Time
	daysOverdue int
}

// TrendAdjustment compares the older and more recent halves of a customer's
// overdue history and returns a score adjustment: negative when payment
// behavior is worsening, positive when improving, zero otherwise. Fewer than
// two overdue data points always yields zero; direction is never assumed
// from partial data.
func TrendAdjustment(invoices []domain.Invoice, today time.Time) float64 {
	today = dates.Normalize(today)

	var points []overduePoint
	for _, inv := range invoices {
		dueDate, dueOK := inv.DueDate.Time()
		invoiceDate, invOK := inv.InvoiceDate.Time()
		if dueOK && invOK && dueDate.Before(today) && inv.AmountOverdue > 0 {
			points = append(points, overduePoint{
				invoiceDate: invoiceDate,
				daysOverdue: dates.DaysBetween(dueDate, today),
			})
		}
	}
	if len(points) < 2 {
		return 0
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].invoiceDate.Before(points[j].invoiceDate)
	})

	// The recent half starts at the floor midpoint, inclusive.
	midpoint := len(points) / 2
	avgOlder := meanOverdueDays(points[:midpoint])
	avgRecent := meanOverdueDays(points[midpoint:])

	switch {
	case avgRecent > avgOlder*1.1 && avgOlder > 0:
		return trendWorseningAdjustment
	case avgRecent < avgOlder*0.9:
		return trendImprovingAdjustment
	default:
		return 0
	}
}

func meanOverdueDays(points []overduePoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum int
	for _, p := range points {
		sum += p.daysOverdue
	}
	return float64(sum) / float64(len(points))
}
