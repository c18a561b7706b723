package services

import (
	"fmt"
	"sort"

	"github.com/loanbook/loanbook-api/internal/models"
	"github.com/loanbook/loanbook-api/pkg/logger"
)

// LedgerMode selects how a disbursement is valued. The two ledgers are
// deliberately different and must stay distinct: the per-loan history
// tracks total obligation, the wallet tracks cash actually moved.
type LedgerMode int

const (
	// LedgerModeLoan values a disbursement at the total repayable
	// (EMI * tenure) so the running balance represents the borrower's
	// remaining obligation.
	LedgerModeLoan LedgerMode = iota
	// LedgerModeWallet values a disbursement at the principal, the cash
	// that actually left the company.
	LedgerModeWallet
)

// LedgerService flattens loans, manual transactions and expenses into
// chronologically ordered timelines.
type LedgerService struct {
	emi      *EMIService
	schedule *ScheduleService
}

// NewLedgerService creates a new ledger service
func NewLedgerService(emi *EMIService, schedule *ScheduleService) *LedgerService {
	return &LedgerService{emi: emi, schedule: schedule}
}

// BuildLoanTimeline builds the per-loan transaction history with a running
// balance: disbursement and penalties increase it, payments decrease it.
// The displayed balance is floored at 0 even when an overpayment drives the
// underlying total negative. Pending and Rejected loans have no timeline.
func (s *LedgerService) BuildLoanTimeline(loan *models.Loan) []models.Transaction {
	if loan.IsPending() || loan.IsRejected() {
		return nil
	}

	txns := s.loanEvents(loan, LedgerModeLoan)
	sortTimeline(txns)

	var balance float64
	for i := range txns {
		if txns[i].IsCredit {
			balance -= txns[i].Amount
		} else {
			balance += txns[i].Amount
		}
		txns[i].Balance = balance
		if balance > 0 {
			txns[i].DisplayBalance = balance
		}
	}
	return txns
}

// BuildWalletLedger merges every loan's cash flows with manual wallet
// transactions and expenses into the company-wide ledger, ascending by
// date. Penalties are obligations rather than cash events and stay out.
func (s *LedgerService) BuildWalletLedger(loans []models.Loan, manual []models.WalletTransaction, expenses []models.Expense) []models.Transaction {
	var txns []models.Transaction

	for i := range loans {
		loan := &loans[i]
		if loan.IsPending() || loan.IsRejected() {
			continue
		}
		txns = append(txns, s.safeLoanEvents(loan, LedgerModeWallet)...)
	}

	for i := range manual {
		m := &manual[i]
		txns = append(txns, models.Transaction{
			Date:        m.Date.Time(),
			Type:        m.Type,
			Amount:      m.Amount.Float(),
			IsCredit:    m.IsCredit(),
			Description: m.Description,
		})
	}

	for i := range expenses {
		e := &expenses[i]
		desc := e.Description
		if desc == "" {
			desc = e.Category
		}
		txns = append(txns, models.Transaction{
			Date:        e.Date.Time(),
			Type:        models.TxnTypeExpense,
			Amount:      e.Amount.Float(),
			IsCredit:    false,
			Description: desc,
		})
	}

	sortTimeline(txns)
	return txns
}

// loanEvents emits the raw events for one loan in the given mode, unsorted.
func (s *LedgerService) loanEvents(loan *models.Loan, mode LedgerMode) []models.Transaction {
	schedule := s.schedule.DeriveSchedule(loan)
	emi := s.emi.LoanEMI(loan)

	disbursed := loan.Principal()
	if mode == LedgerModeLoan {
		disbursed = s.emi.TotalRepayable(loan)
	}

	txns := []models.Transaction{{
		Date:        loan.IssueDate.Time(),
		Type:        models.TxnTypeDisbursement,
		Amount:      disbursed,
		IsCredit:    false,
		Description: fmt.Sprintf("Loan disbursed to %s", loan.BorrowerName),
		Borrower:    loan.BorrowerName,
		LoanRef:     loan.LoanRef,
	}}

	for _, inst := range schedule.Installments {
		switch inst.Status {
		case models.InstallmentPaid:
			txns = append(txns, models.Transaction{
				Date:        inst.PaymentDate,
				Type:        models.TxnTypeEMIPayment,
				Amount:      emi,
				IsCredit:    true,
				Description: fmt.Sprintf("EMI %d of %d", inst.Number, len(schedule.Installments)),
				Borrower:    loan.BorrowerName,
				LoanRef:     loan.LoanRef,
				CollectedBy: inst.CollectedBy,
			})
		case models.InstallmentPartiallyPaid:
			txns = append(txns, models.Transaction{
				Date:        inst.PaymentDate,
				Type:        models.TxnTypePartialPayment,
				Amount:      inst.PartialAmount,
				IsCredit:    true,
				Description: fmt.Sprintf("Partial payment towards EMI %d", inst.Number),
				Borrower:    loan.BorrowerName,
				LoanRef:     loan.LoanRef,
				CollectedBy: inst.CollectedBy,
			})
		}
	}

	if mode == LedgerModeLoan {
		for _, p := range loan.Penalties {
			txns = append(txns, models.Transaction{
				Date:        p.Date.Time(),
				Type:        models.TxnTypePenalty,
				Amount:      p.Amount.Float(),
				IsCredit:    false,
				Description: p.Description,
				Borrower:    loan.BorrowerName,
				LoanRef:     loan.LoanRef,
			})
		}
	}

	return txns
}

// safeLoanEvents isolates one malformed record so it cannot break the
// company-wide ledger for everyone else.
func (s *LedgerService) safeLoanEvents(loan *models.Loan, mode LedgerMode) (txns []models.Transaction) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("skipping loan in ledger build", "loan_ref", loan.LoanRef, "panic", r)
			txns = nil
		}
	}()
	return s.loanEvents(loan, mode)
}

// sortTimeline orders transactions ascending by date. The sort is stable so
// same-day events keep emission order (disbursement before payments).
func sortTimeline(txns []models.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})
}

// Descending returns a copy ordered newest first for display lists.
func Descending(txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txns))
	for i, t := range txns {
		out[len(txns)-1-i] = t
	}
	return out
}
