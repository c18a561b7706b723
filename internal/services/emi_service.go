package services

import (
	"math"

	"github.com/loanbook/loanbook-api/internal/models"
)

// EMIService computes installment amounts. The flat formula is what every
// stored loan uses; the reducing-balance formula exists only for the
// standalone calculator endpoint.
type EMIService struct{}

// NewEMIService creates a new EMI service
func NewEMIService() *EMIService {
	return &EMIService{}
}

// FlatEMI is the installment amount used everywhere in the book:
// principal/tenure + principal*(rate/100). Tenure is floored to 1 and
// non-numeric inputs have already been coerced to 0 upstream.
func (s *EMIService) FlatEMI(principal, ratePercent float64, tenureMonths int) float64 {
	if tenureMonths < 1 {
		tenureMonths = 1
	}
	if math.IsNaN(principal) || math.IsInf(principal, 0) {
		principal = 0
	}
	if math.IsNaN(ratePercent) || math.IsInf(ratePercent, 0) {
		ratePercent = 0
	}
	return principal/float64(tenureMonths) + principal*(ratePercent/100)
}

// LoanEMI computes the flat EMI for a loan record.
func (s *EMIService) LoanEMI(loan *models.Loan) float64 {
	return s.FlatEMI(loan.Principal(), loan.RatePercent(), loan.TenureCount())
}

// TotalRepayable is EMI * tenure.
func (s *EMIService) TotalRepayable(loan *models.Loan) float64 {
	return s.LoanEMI(loan) * float64(loan.TenureCount())
}

// ReducingBalanceEMI is the standard amortization formula
// P*r*(1+r)^n / ((1+r)^n - 1) with r the monthly rate. A zero rate falls
// back to P/n instead of dividing zero by zero.
func (s *EMIService) ReducingBalanceEMI(principal, monthlyRatePercent float64, tenureMonths int) float64 {
	if tenureMonths < 1 {
		tenureMonths = 1
	}
	r := monthlyRatePercent / 100
	if r == 0 {
		return principal / float64(tenureMonths)
	}
	factor := math.Pow(1+r, float64(tenureMonths))
	return principal * r * factor / (factor - 1)
}

// TotalInterest is emi*tenure - principal.
func (s *EMIService) TotalInterest(emi float64, tenureMonths int, principal float64) float64 {
	return emi*float64(tenureMonths) - principal
}
