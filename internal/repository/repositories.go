package repository

import (
	"github.com/loanbook/loanbook-api/internal/models"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Loan     LoanRepository
	Wallet   WalletRepository
	Employee EmployeeRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Loan:     NewLoanRepository(db),
		Wallet:   NewWalletRepository(db),
		Employee: NewEmployeeRepository(db),
	}
}

// Migrate creates or updates the mirror tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Loan{},
		&models.WalletTransaction{},
		&models.Expense{},
		&models.Employee{},
	)
}
