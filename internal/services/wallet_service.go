package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loanbook/loanbook-api/internal/models"
	"github.com/loanbook/loanbook-api/internal/repository"
)

// WalletService manages the manual side of the company wallet: deposits,
// withdrawals, expenses and the employee roster. Unlike loans these are not
// snapshot-cached; the database is read directly since the collections are
// small and never feed a hot derivation path.
type WalletService struct {
	repo repository.WalletRepository
	emps repository.EmployeeRepository
}

// NewWalletService creates a new wallet service
func NewWalletService(repo repository.WalletRepository, emps repository.EmployeeRepository) *WalletService {
	return &WalletService{repo: repo, emps: emps}
}

// RecordTransaction stores a manual Deposit or Withdrawal.
func (s *WalletService) RecordTransaction(ctx context.Context, txnType string, amount float64, description string, date string) (*models.WalletTransaction, error) {
	if txnType != models.TxnTypeDeposit && txnType != models.TxnTypeWithdrawal {
		return nil, ErrInvalidState
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}

	when := models.ParseSafeDate(date)
	if models.IsEpoch(when) {
		when = time.Now()
	}

	txn := &models.WalletTransaction{
		ID:          uuid.NewString(),
		Type:        txnType,
		Amount:      models.Numeric(amount),
		Description: strings.TrimSpace(description),
		Date:        models.NewFlexDate(when),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.repo.SaveTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// DeleteTransaction removes a manual wallet transaction.
func (s *WalletService) DeleteTransaction(ctx context.Context, id string) error {
	return s.repo.DeleteTransaction(ctx, id)
}

// Transactions returns all manual wallet transactions.
func (s *WalletService) Transactions(ctx context.Context) ([]models.WalletTransaction, error) {
	return s.repo.LoadTransactions(ctx)
}

// RecordExpense stores a company expense.
func (s *WalletService) RecordExpense(ctx context.Context, category string, amount float64, description string, date string) (*models.Expense, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}

	when := models.ParseSafeDate(date)
	if models.IsEpoch(when) {
		when = time.Now()
	}

	exp := &models.Expense{
		ID:          uuid.NewString(),
		Category:    strings.TrimSpace(category),
		Amount:      models.Numeric(amount),
		Description: strings.TrimSpace(description),
		Date:        models.NewFlexDate(when),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.repo.SaveExpense(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// DeleteExpense removes an expense record.
func (s *WalletService) DeleteExpense(ctx context.Context, id string) error {
	return s.repo.DeleteExpense(ctx, id)
}

// Expenses returns all expense records.
func (s *WalletService) Expenses(ctx context.Context) ([]models.Expense, error) {
	return s.repo.LoadExpenses(ctx)
}

// SaveEmployee creates or updates a staff record. Payments reference
// employees by name, so the name is required.
func (s *WalletService) SaveEmployee(ctx context.Context, emp *models.Employee) (*models.Employee, error) {
	emp.Name = strings.TrimSpace(emp.Name)
	if emp.Name == "" {
		return nil, ErrInvalidState
	}
	if emp.ID == "" {
		emp.ID = uuid.NewString()
		emp.CreatedAt = time.Now()
	}
	emp.UpdatedAt = time.Now()
	if err := s.emps.Save(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// DeleteEmployee removes a staff record.
func (s *WalletService) DeleteEmployee(ctx context.Context, id string) error {
	return s.emps.Delete(ctx, id)
}

// Employees returns the staff roster.
func (s *WalletService) Employees(ctx context.Context) ([]models.Employee, error) {
	return s.emps.LoadAll(ctx)
}
