package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/loanbook/loanbook-api/internal/models"
)

// LoanFSM wraps a loan's explicit workflow status with its state machine.
// Only the stored Pending/Rejected/Active status runs through here; the
// computed Active/Overdue/Closed classification is a pure derivation and
// never transitions anything.
type LoanFSM struct {
	loan *models.Loan
	fsm  *fsm.FSM
}

// NewLoanFSM creates a new loan workflow state machine
func NewLoanFSM(loan *models.Loan) *LoanFSM {
	initial := loan.Status
	if initial == "" {
		// Legacy records carry no workflow status and behave as Active.
		initial = models.LoanStatusActive
	}

	lfsm := &LoanFSM{
		loan: loan,
	}

	lfsm.fsm = fsm.NewFSM(
		initial,
		fsm.Events{
			// pending/rejected → active
			{Name: "approve", Src: []string{models.LoanStatusPending, models.LoanStatusRejected}, Dst: models.LoanStatusActive},

			// pending → rejected
			{Name: "reject", Src: []string{models.LoanStatusPending}, Dst: models.LoanStatusRejected},

			// rejected → pending
			{Name: "reopen", Src: []string{models.LoanStatusRejected}, Dst: models.LoanStatusPending},
		},
		fsm.Callbacks{},
	)

	return lfsm
}

// Approve transitions the loan to the Active workflow status
func (l *LoanFSM) Approve(ctx context.Context) error {
	if !l.loan.MayApprove() {
		return fmt.Errorf("loan cannot be approved in current status: %q", l.loan.Status)
	}

	if err := l.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve loan: %w", err)
	}

	l.loan.Status = l.fsm.Current()
	return nil
}

// Reject transitions the loan to the Rejected workflow status
func (l *LoanFSM) Reject(ctx context.Context) error {
	if !l.loan.MayReject() {
		return fmt.Errorf("loan cannot be rejected in current status: %q", l.loan.Status)
	}

	if err := l.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject loan: %w", err)
	}

	l.loan.Status = l.fsm.Current()
	return nil
}

// Reopen sends a rejected loan back to the Pending queue
func (l *LoanFSM) Reopen(ctx context.Context) error {
	if !l.loan.MayReopen() {
		return fmt.Errorf("loan cannot be reopened in current status: %q", l.loan.Status)
	}

	if err := l.fsm.Event(ctx, "reopen"); err != nil {
		return fmt.Errorf("failed to reopen loan: %w", err)
	}

	l.loan.Status = l.fsm.Current()
	return nil
}

// Current returns the current workflow status
func (l *LoanFSM) Current() string {
	return l.fsm.Current()
}

// Can checks if a transition is possible
func (l *LoanFSM) Can(event string) bool {
	return l.fsm.Can(event)
}
