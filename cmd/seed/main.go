// Command seed generates a SQL seed file with mock customers, invoices and
// followups spanning the five payment profiles (excellent through critical),
// so a local database exercises every branch of the risk analysis.
// Usage: go run ./cmd/seed [num_customers]
// Output: db/seeds/mock_data.sql
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultCustomers = 50

var companyPrefixes = []string{
	"Tech", "Global", "Advanced", "Digital", "Smart",
	"Innovative", "Prime", "Elite", "Dynamic", "Strategic",
}

var companySuffixes = []string{
	"Solutions", "Systems", "Corp", "Inc", "Technologies",
	"Enterprises", "Group", "Partners", "Industries", "Ventures",
}

var projects = []string{
	"Cloud Migration", "Website Redesign", "Mobile App", "Data Analytics",
	"Security Audit", "Infrastructure Upgrade", "CRM Implementation",
	"API Development", "Consulting Services", "Training Program",
}

// profile controls how a mock customer pays its invoices.
type profile struct {
	name          string
	minInvoices   int
	maxInvoices   int
	minAmount     float64
	maxAmount     float64
	lateChance    float64 // chance a paid invoice was paid after its due date
	overdueChance float64 // chance an unpaid invoice is past due
	disputeChance float64
	maxLateDays   int
	comments      []string
}

var profiles = []profile{
	{
		name: "excellent", minInvoices: 10, maxInvoices: 30,
		minAmount: 20000, maxAmount: 80000,
		lateChance: 0.02, overdueChance: 0.0, disputeChance: 0.0, maxLateDays: 5,
		comments: []string{
			"Payment confirmed, thanks for the quick turnaround.",
			"Invoice received, processing today.",
		},
	},
	{
		name: "good", minInvoices: 8, maxInvoices: 25,
		minAmount: 10000, maxAmount: 40000,
		lateChance: 0.10, overdueChance: 0.05, disputeChance: 0.02, maxLateDays: 15,
		comments: []string{
			"Approved for payment, should clear this week.",
			"Slight delay from our finance team, payment on the way.",
		},
	},
	{
		name: "medium", minInvoices: 5, maxInvoices: 20,
		minAmount: 5000, maxAmount: 30000,
		lateChance: 0.30, overdueChance: 0.20, disputeChance: 0.05, maxLateDays: 45,
		comments: []string{
			"We are reviewing the invoice and will revert.",
			"Partial payment made, balance next month.",
		},
	},
	{
		name: "poor", minInvoices: 5, maxInvoices: 15,
		minAmount: 3000, maxAmount: 20000,
		lateChance: 0.55, overdueChance: 0.40, disputeChance: 0.10, maxLateDays: 80,
		comments: []string{
			"Cash flow is tight this quarter, requesting an extension.",
			"Please resend the invoice, we cannot locate it.",
		},
	},
	{
		name: "critical", minInvoices: 3, maxInvoices: 12,
		minAmount: 2000, maxAmount: 15000,
		lateChance: 0.80, overdueChance: 0.70, disputeChance: 0.20, maxLateDays: 150,
		comments: []string{
			"We dispute the scope billed on this invoice.",
			"No response received from accounts payable.",
		},
	},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	numCustomers := defaultCustomers
	if len(os.Args) > 1 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid customer count %q", os.Args[1])
		}
		numCustomers = n
	}

	outPath := "db/seeds/mock_data.sql"
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	rng := rand.New(rand.NewSource(42))
	today := time.Now().UTC().Truncate(24 * time.Hour)

	fmt.Fprintf(out, "-- Mock billing seed data: %d customers across payment profiles.\n", numCustomers)
	fmt.Fprintln(out, "-- Run: make seed")
	fmt.Fprintln(out, "BEGIN;")
	fmt.Fprintln(out)

	totalInvoices := 0
	totalFollowups := 0
	for i := 0; i < numCustomers; i++ {
		p := profiles[i%len(profiles)]
		customerUUID := uuid.New()
		customerID := fmt.Sprintf("CUST-%04d", 1000+i)
		name := fmt.Sprintf("%s %s %d",
			companyPrefixes[rng.Intn(len(companyPrefixes))],
			companySuffixes[rng.Intn(len(companySuffixes))],
			i+1,
		)

		fmt.Fprintf(out,
			"INSERT INTO customers (id, customer_id, customer_name, is_active, is_deleted) VALUES ('%s', '%s', '%s', TRUE, FALSE);\n",
			customerUUID, customerID, sqlEscape(name),
		)

		nInv := p.minInvoices + rng.Intn(p.maxInvoices-p.minInvoices+1)
		totalInvoices += nInv
		invoiceIDs := make([]uuid.UUID, 0, nInv)
		for j := 0; j < nInv; j++ {
			invoiceIDs = append(invoiceIDs, writeInvoice(out, rng, today, customerUUID, p, i, j))
		}

		nFollow := rng.Intn(3)
		totalFollowups += nFollow
		for j := 0; j < nFollow; j++ {
			invoiceID := invoiceIDs[rng.Intn(len(invoiceIDs))]
			writeFollowup(out, rng, today, invoiceID, p)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "COMMIT;")
	log.Printf("Generated %d customers, %d invoices, %d followups in %s",
		numCustomers, totalInvoices, totalFollowups, outPath)
	return nil
}

func writeInvoice(out *os.File, rng *rand.Rand, today time.Time, customerUUID uuid.UUID, p profile, ci, ij int) uuid.UUID {
	amount := p.minAmount + rng.Float64()*(p.maxAmount-p.minAmount)
	invoiceDate := today.AddDate(0, 0, -rng.Intn(360)-10)
	dueDate := invoiceDate.AddDate(0, 0, 30)
	project := projects[rng.Intn(len(projects))]
	number := fmt.Sprintf("INV-%04d-%03d", 1000+ci, ij+1)

	var (
		amountOverdue, receivable, lastPaidAmount float64
		lastPaid, upcoming                        string
		isOverdue, isDisputed                     bool
	)

	switch {
	case dueDate.After(today):
		// Not yet due.
		receivable = amount
		upcoming = sqlDate(dueDate)
	case rng.Float64() < p.overdueChance:
		// Past due and unpaid, possibly partially paid.
		isOverdue = true
		if rng.Float64() < 0.3 {
			lastPaidAmount = amount * (0.2 + rng.Float64()*0.5)
			lastPaid = sqlDate(dueDate.AddDate(0, 0, rng.Intn(p.maxLateDays+1)))
		}
		receivable = amount - lastPaidAmount
		amountOverdue = receivable
		isDisputed = rng.Float64() < p.disputeChance
	default:
		// Fully paid, on time or late by profile.
		lastPaidAmount = amount
		paidDate := dueDate.AddDate(0, 0, -rng.Intn(5))
		if rng.Float64() < p.lateChance {
			paidDate = dueDate.AddDate(0, 0, 1+rng.Intn(p.maxLateDays))
		}
		lastPaid = sqlDate(paidDate)
	}

	invoiceID := uuid.New()
	fmt.Fprintf(out,
		"INSERT INTO invoices (id, customer_id, invoice_number, project_name, milestone_name, currency_type, invoice_date, due_date, upcoming_payment_date, last_paid_date, invoice_amount, amount_overdue, total_receivable, is_overdue, is_disputed, is_deleted, last_paid_amount) "+
			"VALUES ('%s', '%s', '%s', '%s', 'Milestone %d', 'INR', %s, %s, %s, %s, %.2f, %.2f, %.2f, %t, %t, FALSE, %.2f);\n",
		invoiceID, customerUUID, number, sqlEscape(project), ij+1,
		sqlDate(invoiceDate), sqlDate(dueDate), orNull(upcoming), orNull(lastPaid),
		amount, amountOverdue, receivable, isOverdue, isDisputed, lastPaidAmount,
	)
	return invoiceID
}

func writeFollowup(out *os.File, rng *rand.Rand, today time.Time, invoiceID uuid.UUID, p profile) {
	comment := p.comments[rng.Intn(len(p.comments))]
	createdAt := today.AddDate(0, 0, -rng.Intn(90))
	fmt.Fprintf(out,
		"INSERT INTO followups (id, invoice_id, comments, created_at) VALUES ('%s', '%s', '%s', %s);\n",
		uuid.New(), invoiceID, sqlEscape(comment), sqlDate(createdAt),
	)
}

func sqlDate(t time.Time) string {
	return fmt.Sprintf("'%s'", t.Format("2006-01-02"))
}

func orNull(quoted string) string {
	if quoted == "" {
		return "NULL"
	}
	return quoted
}

func sqlEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
