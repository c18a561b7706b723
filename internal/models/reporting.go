package models

import (
	"time"
)

// LoanView is the derived, render-ready projection of one loan. Everything
// beyond the raw terms is recomputed on demand, never trusted from storage.
type LoanView struct {
	ID           string  `json:"id"`
	LoanRef      string  `json:"loan_ref"`
	BorrowerName string  `json:"borrower_name"`
	MobileNumber string  `json:"mobile_number,omitempty"`
	Amount       float64 `json:"amount"`
	Interest     float64 `json:"interest"`
	Tenure       int     `json:"tenure"`
	Status       string  `json:"status,omitempty"`

	EMI             float64    `json:"emi"`
	TotalRepayable  float64    `json:"total_repayable"`
	TotalPaid       float64    `json:"total_paid"`
	TotalPenalties  float64    `json:"total_penalties"`
	Outstanding     float64    `json:"outstanding"`
	ProgressPercent float64    `json:"progress_percent"`
	State           string     `json:"state"`
	IssueDate       time.Time  `json:"issue_date"`
	IssueDateLabel  string     `json:"issue_date_label"`
	NextDueDate     *time.Time `json:"next_due_date"`
	NextDueLabel    string     `json:"next_due_label"`

	Schedule []Installment `json:"schedule,omitempty"`
	Timeline []Transaction `json:"timeline,omitempty"`
}

// BorrowerSummary aggregates all loans sharing a trimmed borrower name.
type BorrowerSummary struct {
	Name           string    `json:"name"`
	MobileNumber   string    `json:"mobile_number,omitempty"`
	LoanCount      int       `json:"loan_count"`
	TotalPrincipal float64   `json:"total_principal"`
	HasActive      bool      `json:"has_active"`
	LastIssueDate  time.Time `json:"last_issue_date"`
	LoanRefs       []string  `json:"loan_refs"`
}

// MonthlyBucket is one YYYY-MM bucket of disbursed vs collected cash.
type MonthlyBucket struct {
	Month     string  `json:"month"`
	Disbursed float64 `json:"disbursed"`
	Collected float64 `json:"collected"`
}

// FinancialOverview is the dashboard money panel. BalanceLabel switches
// between "Outstanding Balance" (global) and "Net Cash Flow" (month view)
// because the two views compute different things.
type FinancialOverview struct {
	Month           string  `json:"month,omitempty"`
	TotalDisbursed  float64 `json:"total_disbursed"`
	TotalRepaid     float64 `json:"total_repaid"`
	Balance         float64 `json:"balance"`
	BalanceLabel    string  `json:"balance_label"`
	BalancePositive bool    `json:"balance_positive"`
	CurrencySymbol  string  `json:"currency_symbol"`
}

// DashboardStats are the headline counters.
type DashboardStats struct {
	TotalLoans     int     `json:"total_loans"`
	ActiveLoans    int     `json:"active_loans"`
	OverdueLoans   int     `json:"overdue_loans"`
	ClosedLoans    int     `json:"closed_loans"`
	PendingLoans   int     `json:"pending_loans"`
	RejectedLoans  int     `json:"rejected_loans"`
	TotalDisbursed float64 `json:"total_disbursed"`
	TotalCollected float64 `json:"total_collected"`
}

// IncentiveRow is one employee-month incentive line: 2% of what the
// employee collected that calendar month.
type IncentiveRow struct {
	Employee  string  `json:"employee"`
	Month     string  `json:"month"`
	Collected float64 `json:"collected"`
	Incentive float64 `json:"incentive"`
}

// WalletSummary is the company wallet view model.
type WalletSummary struct {
	Balance        float64       `json:"balance"`
	TotalIn        float64       `json:"total_in"`
	TotalOut       float64       `json:"total_out"`
	CurrencySymbol string        `json:"currency_symbol"`
	Transactions   []Transaction `json:"transactions"`
}
