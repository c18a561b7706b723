package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/loanbook/loanbook-api/internal/jobs"
	"github.com/loanbook/loanbook-api/internal/models"
	"github.com/loanbook/loanbook-api/internal/store"
)

// Mock LoanRepository
type mockLoanRepository struct {
	mu         sync.Mutex
	saved      []*models.Loan
	deleted    []string
	mockSave   func(ctx context.Context, loan *models.Loan) error
	mockDelete func(ctx context.Context, id string) error
}

func (m *mockLoanRepository) Save(ctx context.Context, loan *models.Loan) error {
	m.mu.Lock()
	m.saved = append(m.saved, loan)
	m.mu.Unlock()
	if m.mockSave != nil {
		return m.mockSave(ctx, loan)
	}
	return nil
}

func (m *mockLoanRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, id)
	m.mu.Unlock()
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id string) (*models.Loan, error) {
	return nil, nil
}

func (m *mockLoanRepository) LoadAll(ctx context.Context) ([]models.Loan, error) {
	return nil, nil
}

func newTestLoanService(t *testing.T) (*LoanService, *store.Store, *mockLoanRepository) {
	t.Helper()
	st := store.New()
	repo := &mockLoanRepository{}
	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	emi := NewEMIService()
	schedule := NewScheduleService(emi)
	ledger := NewLedgerService(emi, schedule)
	svc := NewLoanService(st, repo, worker, emi, schedule, ledger, 5*time.Second)
	return svc, st, repo
}

func seedLoan(st *store.Store) *models.Loan {
	loan := &models.Loan{
		ID:           "loan-1",
		LoanRef:      "LN250115-0001",
		BorrowerName: "Asha",
		Amount:       10000,
		Interest:     5,
		Tenure:       4,
		IssueDate:    models.NewFlexDate(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)),
	}
	st.Upsert(*loan)
	return loan
}

func TestCreateLoanDefaults(t *testing.T) {
	svc, st, _ := newTestLoanService(t)

	created, err := svc.Create(context.Background(), &models.Loan{
		BorrowerName: "Ravi",
		Amount:       5000,
		Interest:     10,
		Tenure:       5,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, strings.HasPrefix(created.LoanRef, "LN"))
	assert.Equal(t, models.LoanStatusPending, created.Status)
	assert.False(t, created.IssueDate.IsZero())

	stored, ok := st.Get(created.ID)
	assert.True(t, ok)
	assert.Equal(t, "Ravi", stored.BorrowerName)
}

func TestCreateLoanRequiresBorrower(t *testing.T) {
	svc, st, _ := newTestLoanService(t)

	_, err := svc.Create(context.Background(), &models.Loan{Amount: 5000})
	assert.Error(t, err)
	assert.Equal(t, 0, st.Len())
}

func TestMarkInstallmentPaid(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	loan := seedLoan(st)
	// Existing partial on installment 1 must be cleared by the full payment.
	loan.PartialPayments = models.AmountMap{}
	loan.PartialPayments.Set(1, 500)
	st.Upsert(*loan)

	updated, err := svc.MarkInstallmentPaid(context.Background(), loan.ID, 1, "2025-02-20", "Kumar")
	assert.NoError(t, err)

	entry, ok := updated.EMISchedule.Entry(1)
	assert.True(t, ok)
	assert.Equal(t, models.EMIEntryStatusPaid, entry.Status)
	assert.Equal(t, "Kumar", entry.CollectedBy)
	assert.InDelta(t, 3000.0, entry.AmountPaid.Float(), 0.001)

	// Legacy schema stays consistent.
	assert.True(t, updated.PaidInstallments.Contains(1))
	assert.Equal(t, "2025-02-20", models.DayKey(updated.PaidDates.Date(1)))
	assert.Equal(t, 0.0, updated.PartialPayments.Amount(1))
}

func TestMarkInstallmentPaidIdempotent(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	loan := seedLoan(st)

	first, err := svc.MarkInstallmentPaid(context.Background(), loan.ID, 1, "2025-02-20", "Kumar")
	assert.NoError(t, err)

	// Second mark with a different date is a no-op. No duplicate, no change.
	second, err := svc.MarkInstallmentPaid(context.Background(), loan.ID, 1, "2025-03-01", "Other")
	assert.NoError(t, err)

	entry, _ := second.EMISchedule.Entry(1)
	assert.Equal(t, "Kumar", entry.CollectedBy)
	assert.Equal(t, models.DayKey(firstEntryDate(first)), models.DayKey(entry.Date.Time()))

	stored, _ := st.Get(loan.ID)
	assert.Len(t, stored.PaidInstallments, 1)
}

func firstEntryDate(loan *models.Loan) time.Time {
	entry, _ := loan.EMISchedule.Entry(1)
	return entry.Date.Time()
}

func TestMarkInstallmentPaidValidation(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	loan := seedLoan(st)

	_, err := svc.MarkInstallmentPaid(context.Background(), loan.ID, 0, "", "")
	assert.ErrorIs(t, err, ErrBadInstallment)

	_, err = svc.MarkInstallmentPaid(context.Background(), loan.ID, 5, "", "")
	assert.ErrorIs(t, err, ErrBadInstallment)

	_, err = svc.MarkInstallmentPaid(context.Background(), "missing", 1, "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordPartialPaymentAccumulates(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	loan := seedLoan(st)

	_, err := svc.RecordPartialPayment(context.Background(), loan.ID, 2, 400, "2025-03-01", "Kumar")
	assert.NoError(t, err)

	updated, err := svc.RecordPartialPayment(context.Background(), loan.ID, 2, 600, "2025-03-10", "Kumar")
	assert.NoError(t, err)

	entry, ok := updated.EMISchedule.Entry(2)
	assert.True(t, ok)
	assert.InDelta(t, 1000.0, entry.AmountPaid.Float(), 0.001)
	assert.InDelta(t, 1000.0, updated.PartialPayments.Amount(2), 0.001)
}

func TestRecordPartialPaymentValidation(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	loan := seedLoan(st)

	_, err := svc.RecordPartialPayment(context.Background(), loan.ID, 2, 0, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.RecordPartialPayment(context.Background(), loan.ID, 2, -50, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// Nothing was written.
	stored, _ := st.Get(loan.ID)
	assert.Equal(t, 0.0, stored.PartialPayments.Amount(2))
}

func TestRecordPartialPaymentOnPaidInstallment(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	loan := seedLoan(st)

	_, err := svc.MarkInstallmentPaid(context.Background(), loan.ID, 1, "2025-02-20", "")
	assert.NoError(t, err)

	_, err = svc.RecordPartialPayment(context.Background(), loan.ID, 1, 100, "", "")
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestAddPenalty(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	loan := seedLoan(st)

	updated, err := svc.AddPenalty(context.Background(), loan.ID, 250, "Late fee", "2025-04-01")
	assert.NoError(t, err)
	assert.Len(t, updated.Penalties, 1)
	assert.Equal(t, 250.0, updated.TotalPenalties())

	_, err = svc.AddPenalty(context.Background(), loan.ID, -5, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSettleMarksEverythingPaid(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	loan := seedLoan(st)
	// One installment already paid, one partial.
	loan.PaidInstallments = models.InstallmentSet{1}
	loan.PartialPayments = models.AmountMap{}
	loan.PartialPayments.Set(2, 500)
	st.Upsert(*loan)

	updated, err := svc.Settle(context.Background(), loan.ID, "Kumar")
	assert.NoError(t, err)

	for i := 1; i <= 4; i++ {
		assert.True(t, updated.PaidInstallments.Contains(i), "installment %d", i)
	}
	assert.Equal(t, 0.0, updated.PartialPayments.Amount(2))

	emi := NewEMIService()
	schedule := NewScheduleService(emi)
	assert.Equal(t, 4, func() int {
		s := schedule.DeriveSchedule(updated)
		return s.PaidCount()
	}())
}

func TestEditTransactionDate(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	loan := seedLoan(st)

	_, err := svc.MarkInstallmentPaid(context.Background(), loan.ID, 1, "2025-02-20", "")
	assert.NoError(t, err)

	updated, err := svc.EditTransactionDate(context.Background(), loan.ID, 1, false, "2025-02-25")
	assert.NoError(t, err)
	assert.Equal(t, "2025-02-25", models.DayKey(updated.PaidDates.Date(1)))

	entry, _ := updated.EMISchedule.Entry(1)
	assert.Equal(t, "2025-02-25", models.DayKey(entry.Date.Time()))
}

func TestEditTransactionDateRejectsGarbage(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	loan := seedLoan(st)

	_, err := svc.MarkInstallmentPaid(context.Background(), loan.ID, 1, "2025-02-20", "")
	assert.NoError(t, err)

	_, err = svc.EditTransactionDate(context.Background(), loan.ID, 1, false, "not a date")
	assert.ErrorIs(t, err, ErrInvalidDate)

	// Unchanged.
	stored, _ := st.Get(loan.ID)
	assert.Equal(t, "2025-02-20", models.DayKey(stored.PaidDates.Date(1)))
}

func TestWorkflowTransitions(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	loan := seedLoan(st)
	loan.Status = models.LoanStatusPending
	st.Upsert(*loan)

	rejected, err := svc.Reject(context.Background(), loan.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.LoanStatusRejected, rejected.Status)

	reopened, err := svc.Reopen(context.Background(), loan.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.LoanStatusPending, reopened.Status)

	approved, err := svc.Approve(context.Background(), loan.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.LoanStatusActive, approved.Status)

	// Active loans cannot transition.
	_, err = svc.Approve(context.Background(), loan.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = svc.Reject(context.Background(), loan.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDeleteLoan(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	loan := seedLoan(st)

	assert.NoError(t, svc.Delete(context.Background(), loan.ID))
	assert.Equal(t, 0, st.Len())

	assert.ErrorIs(t, svc.Delete(context.Background(), loan.ID), ErrNotFound)
}

func TestListFiltersByState(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	seedLoan(st)

	pending := &models.Loan{
		ID:           "loan-2",
		BorrowerName: "Ravi",
		Amount:       1000,
		Tenure:       2,
		Status:       models.LoanStatusPending,
		IssueDate:    models.NewFlexDate(time.Now()),
	}
	st.Upsert(*pending)

	all := svc.List("", time.Now())
	assert.Len(t, all, 2)

	onlyPending := svc.List("pending", time.Now())
	assert.Len(t, onlyPending, 1)
	assert.Equal(t, "loan-2", onlyPending[0].ID)
}

func TestGetViewDetail(t *testing.T) {
	svc, st, _ := newTestLoanService(t)
	loan := seedLoan(st)

	view, err := svc.GetView(loan.ID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Len(t, view.Schedule, 4)
	assert.NotEmpty(t, view.Timeline)
	assert.InDelta(t, 3000.0, view.EMI, 0.001)
	assert.InDelta(t, 12000.0, view.TotalRepayable, 0.001)
	assert.Equal(t, models.StateOverdue, view.State)

	_, err = svc.GetView("missing", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}
