package repository

import (
	"context"
	"errors"

	"github.com/loanbook/loanbook-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoanRepository mirrors the loan collection to the database. The in-memory
// snapshot remains the source of truth for display; these writes are
// eventual and a failure here is logged, never fatal.
type LoanRepository interface {
	Save(ctx context.Context, loan *models.Loan) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Loan, error)
	LoadAll(ctx context.Context) ([]models.Loan, error)
}

type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Save upserts the full loan record.
func (r *loanRepository) Save(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(loan).Error
}

// Delete removes a loan permanently. Nothing cascades.
func (r *loanRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Loan{}, "id = ?", id).Error
}

// FindByID retrieves one loan.
func (r *loanRepository) FindByID(ctx context.Context, id string) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).First(&loan, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// LoadAll retrieves the entire collection for a snapshot refresh.
func (r *loanRepository) LoadAll(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&loans).Error
	return loans, err
}
