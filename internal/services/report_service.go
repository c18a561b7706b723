package services

import (
	"sort"
	"strings"
	"time"

	"github.com/loanbook/loanbook-api/internal/models"
)

// incentiveRate is the share of monthly collections paid to the employee
// who collected them.
const incentiveRate = 0.02

// ReportService rolls loans up by borrower, month and employee, and powers
// the dashboard financial overview.
type ReportService struct {
	emi      *EMIService
	schedule *ScheduleService
	ledger   *LedgerService
}

// NewReportService creates a new report service
func NewReportService(emi *EMIService, schedule *ScheduleService, ledger *LedgerService) *ReportService {
	return &ReportService{emi: emi, schedule: schedule, ledger: ledger}
}

// BorrowerSummaries groups loans by trimmed borrower name. The name is the
// only borrower key the records have ever had; two people sharing a name
// collide, a known limitation carried from the stored schema. Output is
// sorted by most recent issue date, descending.
func (s *ReportService) BorrowerSummaries(loans []models.Loan, today time.Time) []models.BorrowerSummary {
	byName := make(map[string]*models.BorrowerSummary)
	var order []string

	for i := range loans {
		loan := &loans[i]
		name := strings.TrimSpace(loan.BorrowerName)
		if name == "" {
			continue
		}

		summary, ok := byName[name]
		if !ok {
			summary = &models.BorrowerSummary{Name: name}
			byName[name] = summary
			order = append(order, name)
		}

		summary.LoanCount++
		summary.TotalPrincipal += loan.Principal()
		if loan.LoanRef != "" {
			summary.LoanRefs = append(summary.LoanRefs, loan.LoanRef)
		}
		if summary.MobileNumber == "" && loan.MobileNumber != "" {
			summary.MobileNumber = loan.MobileNumber
		}
		if issue := loan.IssueDate.Time(); issue.After(summary.LastIssueDate) {
			summary.LastIssueDate = issue
		}
		if s.schedule.ClassifyLoan(loan, today) != models.StateClosed {
			summary.HasActive = true
		}
	}

	out := make([]models.BorrowerSummary, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastIssueDate.After(out[j].LastIssueDate)
	})
	return out
}

// MonthlyBuckets groups disbursed and collected cash by the YYYY-MM of each
// event's effective date, sorted chronologically.
func (s *ReportService) MonthlyBuckets(loans []models.Loan) []models.MonthlyBucket {
	buckets := make(map[string]*models.MonthlyBucket)

	for _, txn := range s.ledger.BuildWalletLedger(loans, nil, nil) {
		if models.IsEpoch(txn.Date) {
			continue
		}
		key := models.MonthKey(txn.Date)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &models.MonthlyBucket{Month: key}
			buckets[key] = bucket
		}
		switch txn.Type {
		case models.TxnTypeDisbursement:
			bucket.Disbursed += txn.Amount
		case models.TxnTypeEMIPayment, models.TxnTypePartialPayment:
			bucket.Collected += txn.Amount
		}
	}

	out := make([]models.MonthlyBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// LastSixMonths returns exactly six buckets ending at today's month, zero
// filled, for the dashboard chart.
func (s *ReportService) LastSixMonths(loans []models.Loan, today time.Time) []models.MonthlyBucket {
	byMonth := make(map[string]models.MonthlyBucket)
	for _, b := range s.MonthlyBuckets(loans) {
		byMonth[b.Month] = b
	}

	// Step from the first of the month so AddDate never normalizes a
	// month-end date into the wrong bucket (Mar 31 minus one month is not
	// "Feb 31").
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	out := make([]models.MonthlyBucket, 0, 6)
	for i := 5; i >= 0; i-- {
		key := models.MonthKey(first.AddDate(0, -i, 0))
		bucket, ok := byMonth[key]
		if !ok {
			bucket = models.MonthlyBucket{Month: key}
		}
		out = append(out, bucket)
	}
	return out
}

// Overview computes the financial panel. Global view reports the
// outstanding book (disbursed + interest - repaid); a month-filtered view
// reports net cash flow (repaid - disbursed) instead. The two formulas are
// different on purpose and carry different labels.
func (s *ReportService) Overview(loans []models.Loan, month string, currencySymbol string) models.FinancialOverview {
	overview := models.FinancialOverview{
		Month:          month,
		CurrencySymbol: currencySymbol,
	}

	var totalInterest float64
	for i := range loans {
		loan := &loans[i]
		if loan.IsPending() || loan.IsRejected() {
			continue
		}

		issueMonth := models.MonthKey(loan.IssueDate.Time())
		if month == "" || issueMonth == month {
			overview.TotalDisbursed += loan.Principal()
			totalInterest += s.emi.TotalRepayable(loan) - loan.Principal()
		}

		for _, inst := range s.schedule.DeriveSchedule(loan).Installments {
			if inst.Status == models.InstallmentUnpaid {
				continue
			}
			if month != "" && models.MonthKey(inst.PaymentDate) != month {
				continue
			}
			if inst.IsPaid() {
				overview.TotalRepaid += inst.Amount
			} else {
				overview.TotalRepaid += inst.PartialAmount
			}
		}
	}

	if month == "" {
		overview.Balance = overview.TotalDisbursed + totalInterest - overview.TotalRepaid
		overview.BalanceLabel = "Outstanding Balance"
	} else {
		overview.Balance = overview.TotalRepaid - overview.TotalDisbursed
		overview.BalanceLabel = "Net Cash Flow"
	}
	overview.BalancePositive = overview.Balance >= 0
	return overview
}

// DashboardStats counts loans per derived state and totals the cash book.
func (s *ReportService) DashboardStats(loans []models.Loan, today time.Time) models.DashboardStats {
	var stats models.DashboardStats
	stats.TotalLoans = len(loans)

	for i := range loans {
		loan := &loans[i]
		switch s.schedule.ClassifyLoan(loan, today) {
		case models.StatePending:
			stats.PendingLoans++
			continue
		case models.StateRejected:
			stats.RejectedLoans++
			continue
		case models.StateActive:
			stats.ActiveLoans++
		case models.StateOverdue:
			stats.OverdueLoans++
		case models.StateClosed:
			stats.ClosedLoans++
		}

		stats.TotalDisbursed += loan.Principal()
		stats.TotalCollected += s.schedule.DeriveSchedule(loan).TotalPaid()
	}
	return stats
}

// EmployeeIncentives groups collections by the employee who collected them
// and the calendar month, paying 2% of the month's collections. Collections
// without a recorded collector are excluded.
func (s *ReportService) EmployeeIncentives(loans []models.Loan) []models.IncentiveRow {
	type key struct{ employee, month string }
	collected := make(map[key]float64)

	for _, txn := range s.ledger.BuildWalletLedger(loans, nil, nil) {
		if !txn.IsCredit || txn.CollectedBy == "" || models.IsEpoch(txn.Date) {
			continue
		}
		collected[key{txn.CollectedBy, models.MonthKey(txn.Date)}] += txn.Amount
	}

	out := make([]models.IncentiveRow, 0, len(collected))
	for k, amount := range collected {
		out = append(out, models.IncentiveRow{
			Employee:  k.employee,
			Month:     k.month,
			Collected: amount,
			Incentive: amount * incentiveRate,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Employee < out[j].Employee
	})
	return out
}

// WalletSummary builds the company wallet view: the merged cash ledger
// newest first, with balance and in/out totals.
func (s *ReportService) WalletSummary(loans []models.Loan, manual []models.WalletTransaction, expenses []models.Expense, currencySymbol string) models.WalletSummary {
	ledger := s.ledger.BuildWalletLedger(loans, manual, expenses)

	summary := models.WalletSummary{CurrencySymbol: currencySymbol}
	for _, txn := range ledger {
		if txn.IsCredit {
			summary.TotalIn += txn.Amount
		} else {
			summary.TotalOut += txn.Amount
		}
	}
	summary.Balance = summary.TotalIn - summary.TotalOut
	summary.Transactions = Descending(ledger)
	return summary
}
