package analysis

import (
	"math"
	"time"

	"go.uber.org/zap"

	"billsense/internal/dates"
	"billsense/internal/domain"
)

// CalculateMetrics aggregates a customer's invoice history into
// CustomerMetrics as of the given reference date. A zero today defaults to
// the current UTC date; tests inject a fixed date for determinism.
//
// The pass never fails on a bad invoice: malformed amounts and unknown dates
// degrade to zero/unknown and are excluded from the affected sub-calculation
// only.
func (a *Analyzer) CalculateMetrics(customer domain.Customer, invoices []domain.Invoice, today time.Time) *domain.CustomerMetrics {
	if today.IsZero() {
		today = dates.Today()
	} else {
		today = dates.Normalize(today)
	}

	m := &domain.CustomerMetrics{
		CustomerID:     customer.CustomerID,
		CustomerName:   customer.CustomerName,
		TotalInvoices:  len(invoices),
		InvoiceDetails: make([]domain.InvoiceDetail, 0, len(invoices)),
		OverdueBuckets: make(map[string]domain.BucketStat, len(domain.BucketOrder)),
	}
	for _, label := range domain.BucketOrder {
		m.OverdueBuckets[label] = domain.BucketStat{}
	}

	var (
		overdueDays        []int
		overdueInvoiceIDs  []string
		overdueAmounts     []float64
		lastInvoiceDate    time.Time
		hasLastInvoiceDate bool
		lastPaymentDate    time.Time
		hasLastPayment     bool
		nextUpcoming       time.Time
		hasNextUpcoming    bool
	)

	for _, inv := range invoices {
		amount := inv.InvoiceAmount
		received := inv.LastPaidAmount
		dueDate, dueOK := inv.DueDate.Time()
		lastPaidDate, paidOK := inv.LastPaidDate.Time()
		upcomingDate, upcomingOK := inv.UpcomingPaymentDate.Time()
		invoiceDate, invoiceOK := inv.InvoiceDate.Time()

		receivable := math.Max(amount-received, 0)

		paymentStatus := domain.PaymentStatusUnpaid
		if received > 0 {
			if receivable <= 0 {
				paymentStatus = domain.PaymentStatusPaid
			} else {
				paymentStatus = domain.PaymentStatusPartiallyPaid
			}
		}

		daysPastDue := 0
		if dueOK && dueDate.Before(today) {
			daysPastDue = dates.DaysBetween(dueDate, today)
		}

		m.TotalInvoiceAmount += amount
		m.TotalReceived += received
		m.TotalReceivable += receivable

		if inv.IsDisputed {
			m.DisputedInvoiceCount++
		}

		if invoiceOK && (!hasLastInvoiceDate || invoiceDate.After(lastInvoiceDate)) {
			lastInvoiceDate = invoiceDate
			hasLastInvoiceDate = true
		}

		if dueOK && dueDate.Before(today) && receivable > 0 {
			daysOverdue := dates.DaysBetween(dueDate, today)
			overdueDays = append(overdueDays, daysOverdue)
			overdueInvoiceIDs = append(overdueInvoiceIDs, inv.ID.String())
			overdueAmounts = append(overdueAmounts, receivable)
			m.TotalOverdueAmount += receivable
			m.OverdueInvoiceCount++

			bucket := OverdueBucket(daysOverdue)
			stat := m.OverdueBuckets[bucket]
			stat.Count++
			stat.Amount += receivable
			m.OverdueBuckets[bucket] = stat
		}

		// Timing classification requires both the due date and the payment
		// date; invoices missing either are excluded, not miscounted.
		switch {
		case received >= amount && dueOK && paidOK:
			if !hasLastPayment || lastPaidDate.After(lastPaymentDate) {
				lastPaymentDate = lastPaidDate
				hasLastPayment = true
			}
			if !lastPaidDate.After(dueDate) {
				m.PaidOnTimeCount++
			} else {
				m.PaidLateCount++
			}
		case received > 0 && received < amount && dueOK && paidOK:
			if !lastPaidDate.After(dueDate) {
				m.PartialPaidOnTimeCount++
			} else {
				m.PartialPaidLateCount++
			}
		}

		if upcomingOK && upcomingDate.After(today) {
			m.UpcomingInvoiceCount++
			m.UpcomingInvoiceAmount += receivable
			if !hasNextUpcoming || upcomingDate.Before(nextUpcoming) {
				nextUpcoming = upcomingDate
				hasNextUpcoming = true
			}
		}

		m.InvoiceDetails = append(m.InvoiceDetails, domain.InvoiceDetail{
			InvoiceNumber:       inv.InvoiceNumber,
			InvoiceDate:         dateStringPtr(invoiceDate, invoiceOK),
			DueDate:             dateStringPtr(dueDate, dueOK),
			DaysPastDue:         daysPastDue,
			ClientName:          customer.CustomerName,
			ProjectName:         inv.ProjectName,
			Milestone:           inv.MilestoneName,
			InvoiceAmount:       amount,
			PaymentStatus:       paymentStatus,
			PaymentReceivedDate: dateStringPtr(lastPaidDate, paidOK),
			OutstandingAmount:   receivable,
			Currency:            inv.CurrencyType,
		})
	}

	// Weighted average overdue days. Weights come from the upstream
	// amount_overdue field joined back by invoice identity, not from the
	// freshly computed receivables; a missing match contributes weight 0.
	var weightedOverdueDays float64
	for i, days := range overdueDays {
		weightedOverdueDays += float64(days) * amountOverdueByID(invoices, overdueInvoiceIDs[i])
	}
	var totalWeight float64
	for _, amt := range overdueAmounts {
		totalWeight += amt
	}
	if totalWeight > 0 {
		m.AvgOverdueDays = roundTo(weightedOverdueDays/totalWeight, 2)
	}

	overduePctCount := 0.0
	if m.TotalInvoices > 0 {
		overduePctCount = float64(m.OverdueInvoiceCount) / float64(m.TotalInvoices) * 100
	}
	// The blended percentage weights the count-based figure against itself.
	// Preserved as-is for behavioral parity; see DESIGN.md.
	m.OverduePercentage = roundTo(0.7*overduePctCount+0.3*overduePctCount, 2)
	m.OverduePercentageCount = roundTo(overduePctCount, 2)
	if m.TotalInvoiceAmount > 0 {
		m.OverduePercentageAmount = roundTo(m.TotalOverdueAmount/m.TotalInvoiceAmount*100, 2)
	}

	m.OverdueAmountP25 = roundTo(Percentile(overdueAmounts, 25), 2)
	m.OverdueAmountMedian = roundTo(Percentile(overdueAmounts, 50), 2)
	m.OverdueAmountP75 = roundTo(Percentile(overdueAmounts, 75), 2)

	for _, d := range overdueDays {
		if d > m.MaxOverdueDays {
			m.MaxOverdueDays = d
		}
	}

	m.TotalPastInvoices = m.TotalInvoices - m.UpcomingInvoiceCount
	if m.TotalPastInvoices > 0 {
		m.OnTimePaymentRatio = roundTo(float64(m.PaidOnTimeCount+m.PartialPaidOnTimeCount)/float64(m.TotalPastInvoices), 4)
		m.LatePaymentRatio = roundTo(float64(m.PaidLateCount+m.PartialPaidLateCount)/float64(m.TotalPastInvoices), 4)
	}

	// Recurring delay is a binary flag, not a true ratio: three or more late
	// payments across at least five historical invoices.
	totalLate := m.PaidLateCount + m.PartialPaidLateCount
	if totalLate >= 3 && m.TotalPastInvoices >= 5 {
		m.RecurringDelayRatio = 1.0
	}

	if hasNextUpcoming {
		m.NextUpcomingPaymentDate = dateStringPtr(nextUpcoming, true)
	}
	if hasLastInvoiceDate {
		m.LastInvoiceDate = dateStringPtr(lastInvoiceDate, true)
	}
	if hasLastPayment {
		m.LastPaymentDate = dateStringPtr(lastPaymentDate, true)
	}

	a.log.Debug("aggregated customer metrics",
		zap.String("customer_id", customer.CustomerID),
		zap.Int("total_invoices", m.TotalInvoices),
		zap.Int("overdue_invoices", m.OverdueInvoiceCount),
	)

	return m
}

// amountOverdueByID resolves the upstream amount_overdue for an invoice
// identity, or 0 when no invoice matches.
func amountOverdueByID(invoices []domain.Invoice, id string) float64 {
	for _, inv := range invoices {
		if inv.ID.String() == id {
			return inv.AmountOverdue
		}
	}
	return 0
}

func dateStringPtr(t time.Time, ok bool) *string {
	if !ok {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
