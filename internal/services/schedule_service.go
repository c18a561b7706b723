package services

import (
	"time"

	"github.com/loanbook/loanbook-api/internal/models"
)

// ScheduleService derives the installment schedule and computed state for a
// loan. It is the only place the two payment-record schemas are resolved;
// everything downstream sees one canonical []Installment.
type ScheduleService struct {
	emi *EMIService
}

// NewScheduleService creates a new schedule service
func NewScheduleService(emi *EMIService) *ScheduleService {
	return &ScheduleService{emi: emi}
}

// DeriveSchedule produces the ordered installments 1..tenure with due
// dates, paid status and the next unpaid due date. Pure function of the
// loan record: calling it twice yields identical output.
//
// Installment i is due at issue date + i months. The first installment
// that is not fully Paid, scanned in number order, determines NextDueDate;
// gaps are allowed: paying installment 5 before 3 does not advance the
// next due past 3. NextDueDate is nil only when every installment is Paid.
func (s *ScheduleService) DeriveSchedule(loan *models.Loan) models.Schedule {
	issue := loan.IssueDate.Time()
	tenure := loan.TenureCount()
	emi := s.emi.LoanEMI(loan)

	installments := make([]models.Installment, 0, tenure)
	var nextDue *time.Time

	for i := 1; i <= tenure; i++ {
		inst := models.Installment{
			Number:  i,
			DueDate: models.AddMonths(issue, i),
			Amount:  emi,
			Status:  models.InstallmentUnpaid,
		}

		if entry, ok := loan.EMISchedule.Entry(i); ok {
			// Newer schema is authoritative for this installment.
			if entry.Status == models.EMIEntryStatusPaid {
				inst.Status = models.InstallmentPaid
				inst.PaymentDate = entry.Date.Time()
			} else if entry.AmountPaid.Float() > 0 {
				inst.Status = models.InstallmentPartiallyPaid
				inst.PartialAmount = entry.AmountPaid.Float()
				inst.PaymentDate = entry.Date.Time()
			}
			inst.CollectedBy = entry.CollectedBy
		} else if loan.PaidInstallments.Contains(i) {
			inst.Status = models.InstallmentPaid
			inst.PaymentDate = loan.PaidDates.Date(i)
		} else if partial := loan.PartialPayments.Amount(i); partial > 0 {
			inst.Status = models.InstallmentPartiallyPaid
			inst.PartialAmount = partial
			inst.PaymentDate = loan.PartialPaymentDates.Date(i)
		}

		// Payments without a recorded date fall back to the scheduled date.
		if inst.Status != models.InstallmentUnpaid && models.IsEpoch(inst.PaymentDate) {
			inst.PaymentDate = inst.DueDate
		}

		if !inst.IsPaid() && nextDue == nil {
			due := inst.DueDate
			nextDue = &due
		}

		installments = append(installments, inst)
	}

	return models.Schedule{Installments: installments, NextDueDate: nextDue}
}

// Classify derives one of Pending, Rejected, Active, Overdue, Closed.
// The explicit Pending/Rejected workflow status wins outright. Otherwise
// the schedule decides: no next due date means Closed, a next due date
// before today (calendar day, not instant) means Overdue, anything else is
// Active. Equal-to-today is not overdue.
func (s *ScheduleService) Classify(loan *models.Loan, schedule models.Schedule, today time.Time) string {
	switch loan.Status {
	case models.LoanStatusPending:
		return models.StatePending
	case models.LoanStatusRejected:
		return models.StateRejected
	}

	if schedule.NextDueDate == nil {
		return models.StateClosed
	}
	if models.DayKey(*schedule.NextDueDate) < models.DayKey(today) {
		return models.StateOverdue
	}
	return models.StateActive
}

// ClassifyLoan derives the schedule and classifies in one step.
func (s *ScheduleService) ClassifyLoan(loan *models.Loan, today time.Time) string {
	return s.Classify(loan, s.DeriveSchedule(loan), today)
}
