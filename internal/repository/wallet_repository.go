package repository

import (
	"context"

	"github.com/loanbook/loanbook-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletRepository persists manual wallet transactions and expenses.
type WalletRepository interface {
	SaveTransaction(ctx context.Context, txn *models.WalletTransaction) error
	DeleteTransaction(ctx context.Context, id string) error
	LoadTransactions(ctx context.Context) ([]models.WalletTransaction, error)
	SaveExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	LoadExpenses(ctx context.Context) ([]models.Expense, error)
}

type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) SaveTransaction(ctx context.Context, txn *models.WalletTransaction) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(txn).Error
}

func (r *walletRepository) DeleteTransaction(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.WalletTransaction{}, "id = ?", id).Error
}

func (r *walletRepository) LoadTransactions(ctx context.Context) ([]models.WalletTransaction, error) {
	var txns []models.WalletTransaction
	err := r.db.WithContext(ctx).
		Order("date ASC, created_at ASC").
		Find(&txns).Error
	return txns, err
}

func (r *walletRepository) SaveExpense(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(expense).Error
}

func (r *walletRepository) DeleteExpense(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Expense{}, "id = ?", id).Error
}

func (r *walletRepository) LoadExpenses(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).
		Order("date ASC, created_at ASC").
		Find(&expenses).Error
	return expenses, err
}
