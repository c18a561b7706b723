package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/loanbook/loanbook-api/internal/models"
)

func newScheduleService() *ScheduleService {
	return NewScheduleService(NewEMIService())
}

func testLoan() *models.Loan {
	return &models.Loan{
		ID:        "loan-1",
		Amount:    10000,
		Interest:  5,
		Tenure:    3,
		IssueDate: models.NewFlexDate(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)),
	}
}

func TestDeriveScheduleDueDates(t *testing.T) {
	svc := newScheduleService()
	schedule := svc.DeriveSchedule(testLoan())

	assert.Len(t, schedule.Installments, 3)
	assert.Equal(t, "2025-02-15", models.DayKey(schedule.Installments[0].DueDate))
	assert.Equal(t, "2025-03-15", models.DayKey(schedule.Installments[1].DueDate))
	assert.Equal(t, "2025-04-15", models.DayKey(schedule.Installments[2].DueDate))

	// 10000/3 + 10000*0.05 per installment.
	assert.InDelta(t, 3833.33, schedule.Installments[0].Amount, 0.01)

	// Nothing paid: next due is installment 1.
	assert.NotNil(t, schedule.NextDueDate)
	assert.Equal(t, "2025-02-15", models.DayKey(*schedule.NextDueDate))
}

func TestDeriveScheduleGapDoesNotAdvanceNextDue(t *testing.T) {
	svc := newScheduleService()
	loan := testLoan()
	// Installments 1 and 3 paid, 2 skipped.
	loan.PaidInstallments = models.InstallmentSet{1, 3}

	schedule := svc.DeriveSchedule(loan)

	assert.Equal(t, models.InstallmentPaid, schedule.Installments[0].Status)
	assert.Equal(t, models.InstallmentUnpaid, schedule.Installments[1].Status)
	assert.Equal(t, models.InstallmentPaid, schedule.Installments[2].Status)

	assert.NotNil(t, schedule.NextDueDate)
	assert.Equal(t, "2025-03-15", models.DayKey(*schedule.NextDueDate))
}

func TestDeriveScheduleEMIScheduleAuthoritative(t *testing.T) {
	svc := newScheduleService()
	loan := testLoan()
	// Legacy says installment 1 is paid; newer schema says it is partial.
	// The newer schema wins for that installment.
	loan.PaidInstallments = models.InstallmentSet{1}
	loan.EMISchedule = models.EMISchedule{}
	loan.EMISchedule.Set(1, models.EMIEntry{
		Status:     "Partial",
		AmountPaid: 500,
		Date:       models.NewFlexDate(time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)),
	})

	schedule := svc.DeriveSchedule(loan)

	assert.Equal(t, models.InstallmentPartiallyPaid, schedule.Installments[0].Status)
	assert.Equal(t, 500.0, schedule.Installments[0].PartialAmount)
	assert.Equal(t, "2025-02-20", models.DayKey(schedule.Installments[0].PaymentDate))
}

func TestDeriveSchedulePaymentDateFallsBackToDueDate(t *testing.T) {
	svc := newScheduleService()
	loan := testLoan()
	// Paid but no recorded date.
	loan.PaidInstallments = models.InstallmentSet{1}

	schedule := svc.DeriveSchedule(loan)
	assert.Equal(t, "2025-02-15", models.DayKey(schedule.Installments[0].PaymentDate))
}

func TestDeriveScheduleAllPaidHasNoNextDue(t *testing.T) {
	svc := newScheduleService()
	loan := testLoan()
	loan.PaidInstallments = models.InstallmentSet{1, 2, 3}

	schedule := svc.DeriveSchedule(loan)
	assert.Nil(t, schedule.NextDueDate)
}

func TestDeriveScheduleIsPure(t *testing.T) {
	svc := newScheduleService()
	loan := testLoan()
	loan.PaidInstallments = models.InstallmentSet{2}

	first := svc.DeriveSchedule(loan)
	second := svc.DeriveSchedule(loan)
	assert.Equal(t, first, second)
}

func TestClassify(t *testing.T) {
	svc := newScheduleService()

	t.Run("workflow status wins", func(t *testing.T) {
		pending := testLoan()
		pending.Status = models.LoanStatusPending
		assert.Equal(t, models.StatePending, svc.ClassifyLoan(pending, time.Now()))

		rejected := testLoan()
		rejected.Status = models.LoanStatusRejected
		assert.Equal(t, models.StateRejected, svc.ClassifyLoan(rejected, time.Now()))
	})

	t.Run("all paid is closed", func(t *testing.T) {
		loan := testLoan()
		loan.PaidInstallments = models.InstallmentSet{1, 2, 3}
		assert.Equal(t, models.StateClosed, svc.ClassifyLoan(loan, time.Now()))
	})

	t.Run("due today is active, not overdue", func(t *testing.T) {
		loan := testLoan()
		today := time.Date(2025, 2, 15, 23, 0, 0, 0, time.UTC)
		assert.Equal(t, models.StateActive, svc.ClassifyLoan(loan, today))
	})

	t.Run("due yesterday is overdue", func(t *testing.T) {
		loan := testLoan()
		today := time.Date(2025, 2, 16, 0, 30, 0, 0, time.UTC)
		assert.Equal(t, models.StateOverdue, svc.ClassifyLoan(loan, today))
	})

	t.Run("due in the future is active", func(t *testing.T) {
		loan := testLoan()
		today := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, models.StateActive, svc.ClassifyLoan(loan, today))
	})
}
