package models

import (
	"time"
)

// Transaction type constants
const (
	TxnTypeDisbursement   = "Disbursement"
	TxnTypeEMIPayment     = "EMI Payment"
	TxnTypePartialPayment = "Partial Payment"
	TxnTypePenalty        = "Penalty"
	TxnTypeDeposit        = "Deposit"
	TxnTypeWithdrawal     = "Withdrawal"
	TxnTypeExpense        = "Expense"
)

// Transaction is one derived event on a financial timeline. Never stored;
// rebuilt from the loan collection on every derivation.
type Transaction struct {
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	IsCredit    bool      `json:"is_credit"`
	Description string    `json:"description"`
	Borrower    string    `json:"borrower,omitempty"`
	LoanRef     string    `json:"loan_ref,omitempty"`
	CollectedBy string    `json:"collected_by,omitempty"`
	// Balance is the running total after this event; only populated for
	// per-loan timelines. DisplayBalance never goes below zero.
	Balance        float64 `json:"balance,omitempty"`
	DisplayBalance float64 `json:"display_balance,omitempty"`
}

// WalletTransaction is a manual Deposit or Withdrawal on the company wallet.
type WalletTransaction struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Type        string    `gorm:"size:16;not null;index" json:"type"`
	Amount      Numeric   `gorm:"type:decimal" json:"amount"`
	Description string    `json:"description"`
	Date        FlexDate  `gorm:"type:timestamptz;index" json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for WalletTransaction
func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

// IsCredit reports whether the manual transaction adds cash.
func (t *WalletTransaction) IsCredit() bool {
	return t.Type == TxnTypeDeposit
}

// Expense is a flat company expense record.
type Expense struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Category    string    `gorm:"size:64;index" json:"category"`
	Amount      Numeric   `gorm:"type:decimal" json:"amount"`
	Description string    `json:"description"`
	Date        FlexDate  `gorm:"type:timestamptz;index" json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Expense
func (Expense) TableName() string {
	return "expenses"
}

// Employee is a flat staff record; payments reference employees by name in
// the collected_by field of schedule entries.
type Employee struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	Mobile    string    `json:"mobile"`
	Role      string    `gorm:"size:32" json:"role"`
	JoinedAt  FlexDate  `gorm:"type:timestamptz" json:"joinedAt"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Employee
func (Employee) TableName() string {
	return "employees"
}
