package workshop

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tailor/backend/internal/domain/shared"
)

// LaborCostRate is the fraction of a worker's monthly salary billed as
// labor per order.
var LaborCostRate = decimal.NewFromFloat(0.01)

// Worker is a tailor on the shop floor
type Worker struct {
	shared.BaseAggregateRoot
	Name           string `gorm:"not null"`
	Role           string
	Phone          string
	Specialization string
	MonthlySalary  decimal.Decimal
	Active         bool
}

// TableName returns the database table name
func (Worker) TableName() string {
	return "workers"
}

// NewWorker registers a worker
func NewWorker(name, role, phone, specialization string, monthlySalary decimal.Decimal) (*Worker, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Worker name cannot be empty")
	}
	if monthlySalary.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SALARY", "Salary cannot be negative")
	}

	return &Worker{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Role:              role,
		Phone:             phone,
		Specialization:    strings.ToLower(strings.TrimSpace(specialization)),
		MonthlySalary:     monthlySalary,
		Active:            true,
	}, nil
}

// LaborCost returns the per-order labor charge derived from salary
func (w *Worker) LaborCost() decimal.Decimal {
	return w.MonthlySalary.Mul(LaborCostRate)
}

// SetSalary updates the monthly salary
func (w *Worker) SetSalary(salary decimal.Decimal) error {
	if salary.IsNegative() {
		return shared.NewDomainError("INVALID_SALARY", "Salary cannot be negative")
	}
	w.MonthlySalary = salary
	w.IncrementVersion()
	return nil
}

// Deactivate removes the worker from assignment rotation
func (w *Worker) Deactivate() {
	w.Active = false
	w.IncrementVersion()
}
