package repository

import (
	"context"

	"github.com/loanbook/loanbook-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeeRepository persists the staff list used by incentive reporting.
type EmployeeRepository interface {
	Save(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id string) error
	LoadAll(ctx context.Context) ([]models.Employee, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Save(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(employee).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Employee{}, "id = ?", id).Error
}

func (r *employeeRepository) LoadAll(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).Order("name ASC").Find(&employees).Error
	return employees, err
}
