package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoanUnmarshalLegacySchema(t *testing.T) {
	raw := `{
		"id": "abc",
		"name": "Asha",
		"amount": "10000",
		"interest": 5,
		"tenure": 10,
		"dueDate": "2025-01-15",
		"paidInstallments": [1, "2", 3],
		"paidDates": {"1": "2025-02-15T00:00:00Z"},
		"partialPayments": {"4": "250"},
		"partialPaymentDates": {"4": "2025-05-01"}
	}`

	var loan Loan
	assert.NoError(t, json.Unmarshal([]byte(raw), &loan))

	assert.Equal(t, 10000.0, loan.Principal())
	assert.Equal(t, 5.0, loan.RatePercent())
	assert.Equal(t, 10, loan.TenureCount())
	assert.Equal(t, "2025-01-15", DayKey(loan.IssueDate.Time()))

	// String installment numbers coerce to ints.
	assert.True(t, loan.PaidInstallments.Contains(1))
	assert.True(t, loan.PaidInstallments.Contains(2))
	assert.True(t, loan.PaidInstallments.Contains(3))
	assert.False(t, loan.PaidInstallments.Contains(4))

	assert.Equal(t, "2025-02-15", DayKey(loan.PaidDates.Date(1)))
	assert.Equal(t, 250.0, loan.PartialPayments.Amount(4))
}

func TestLoanUnmarshalEMISchedule(t *testing.T) {
	raw := `{
		"id": "def",
		"name": "Ravi",
		"amount": 5000,
		"interest": 10,
		"tenure": 5,
		"dueDate": {"seconds": 1735689600},
		"emi_schedule": {
			"1": {"status": "Paid", "amountPaid": 1500, "date": "2025-02-01", "collectedBy": "Kumar"},
			"2": {"status": "Partial", "amountPaid": "300", "date": "2025-03-05"}
		}
	}`

	var loan Loan
	assert.NoError(t, json.Unmarshal([]byte(raw), &loan))

	entry, ok := loan.EMISchedule.Entry(1)
	assert.True(t, ok)
	assert.Equal(t, EMIEntryStatusPaid, entry.Status)
	assert.Equal(t, 1500.0, entry.AmountPaid.Float())
	assert.Equal(t, "Kumar", entry.CollectedBy)

	entry2, ok := loan.EMISchedule.Entry(2)
	assert.True(t, ok)
	assert.Equal(t, 300.0, entry2.AmountPaid.Float())

	_, ok = loan.EMISchedule.Entry(3)
	assert.False(t, ok)
}

func TestLoanMalformedFieldsStillDerive(t *testing.T) {
	raw := `{
		"id": "ghi",
		"name": "Meena",
		"amount": "not a number",
		"interest": null,
		"tenure": 0,
		"dueDate": "garbage"
	}`

	var loan Loan
	assert.NoError(t, json.Unmarshal([]byte(raw), &loan))

	assert.Equal(t, 0.0, loan.Principal())
	assert.Equal(t, 0.0, loan.RatePercent())
	assert.Equal(t, 1, loan.TenureCount())
	assert.True(t, loan.IssueDate.IsZero())
}

func TestLoanClone(t *testing.T) {
	loan := &Loan{
		ID:               "x",
		PaidInstallments: InstallmentSet{1, 2},
		PaidDates:        DateMap{"1": "2025-02-15"},
		PartialPayments:  AmountMap{"3": 100},
		EMISchedule:      EMISchedule{"1": {Status: EMIEntryStatusPaid}},
		Penalties:        PenaltyList{{Amount: 50}},
	}

	c := loan.Clone()
	c.PaidInstallments = append(c.PaidInstallments, 3)
	c.PaidDates.Set(2, ParseSafeDate("2025-03-15"))
	c.PartialPayments.Set(3, 200)
	c.EMISchedule.Set(2, EMIEntry{Status: EMIEntryStatusPaid})
	c.Penalties = append(c.Penalties, Penalty{Amount: 75})

	// Original untouched.
	assert.Len(t, loan.PaidInstallments, 2)
	assert.Len(t, loan.PaidDates, 1)
	assert.Equal(t, 100.0, loan.PartialPayments.Amount(3))
	assert.Len(t, loan.EMISchedule, 1)
	assert.Len(t, loan.Penalties, 1)
}

func TestLoanWorkflowGuards(t *testing.T) {
	pending := &Loan{Status: LoanStatusPending}
	assert.True(t, pending.MayApprove())
	assert.True(t, pending.MayReject())

	rejected := &Loan{Status: LoanStatusRejected}
	assert.True(t, rejected.MayApprove())
	assert.False(t, rejected.MayReject())

	active := &Loan{Status: LoanStatusActive}
	assert.False(t, active.MayApprove())
	assert.False(t, active.MayReject())

	legacy := &Loan{}
	assert.False(t, legacy.MayApprove())
	assert.False(t, legacy.MayReject())
}

func TestScheduleTotals(t *testing.T) {
	s := &Schedule{Installments: []Installment{
		{Number: 1, Amount: 600, Status: InstallmentPaid},
		{Number: 2, Amount: 600, Status: InstallmentPartiallyPaid, PartialAmount: 150},
		{Number: 3, Amount: 600, Status: InstallmentUnpaid},
	}}

	assert.Equal(t, 750.0, s.TotalPaid())
	assert.Equal(t, 1, s.PaidCount())
}
