package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/payment"
	"github.com/tailor/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInstallmentRepository implements payment.InstallmentRepository
// using GORM.
type GormInstallmentRepository struct {
	db *gorm.DB
}

// NewGormInstallmentRepository creates a new GormInstallmentRepository
func NewGormInstallmentRepository(db *gorm.DB) *GormInstallmentRepository {
	return &GormInstallmentRepository{db: db}
}

// FindByID finds an installment by ID
func (r *GormInstallmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Installment, error) {
	var inst payment.Installment
	if err := r.db.WithContext(ctx).First(&inst, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inst, nil
}

// FindByIDForUpdate finds an installment with a FOR UPDATE row lock
func (r *GormInstallmentRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payment.Installment, error) {
	var inst payment.Installment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inst, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inst, nil
}

// FindByOrder lists an order's installments in schedule order
func (r *GormInstallmentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*payment.Installment, error) {
	var installments []*payment.Installment
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("installment_number ASC").
		Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

// FindDue lists pending installments due on or before the given day
func (r *GormInstallmentRepository) FindDue(ctx context.Context, asOf time.Time) ([]*payment.Installment, error) {
	endOfDay := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 23, 59, 59, 0, asOf.Location())

	var installments []*payment.Installment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due_date <= ?", payment.InstallmentPending, endOfDay).
		Order("due_date ASC").
		Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

// NextInstallmentNumber returns the next sequential number for an order
func (r *GormInstallmentRepository) NextInstallmentNumber(ctx context.Context, orderID uuid.UUID) (int, error) {
	var max int
	if err := r.db.WithContext(ctx).
		Model(&payment.Installment{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(MAX(installment_number), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Save creates or updates an installment
func (r *GormInstallmentRepository) Save(ctx context.Context, inst *payment.Installment) error {
	return r.db.WithContext(ctx).Save(inst).Error
}

// SaveWithLock saves with optimistic locking. The aggregate has already
// incremented its version; the update matches the previous one.
func (r *GormInstallmentRepository) SaveWithLock(ctx context.Context, inst *payment.Installment) error {
	result := r.db.WithContext(ctx).
		Model(inst).
		Where("id = ? AND version = ?", inst.ID, inst.Version-1).
		Updates(map[string]interface{}{
			"status":         inst.Status,
			"paid_date":      inst.PaidDate,
			"payment_method": inst.PaymentMethod,
			"version":        inst.Version,
			"updated_at":     inst.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
