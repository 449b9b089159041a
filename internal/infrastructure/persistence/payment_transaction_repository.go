package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/payment"
	"github.com/tailor/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPaymentTransactionRepository implements
// payment.TransactionRepository using GORM. Transactions are an
// append-only audit trail.
type GormPaymentTransactionRepository struct {
	db *gorm.DB
}

// NewGormPaymentTransactionRepository creates a new repository
func NewGormPaymentTransactionRepository(db *gorm.DB) *GormPaymentTransactionRepository {
	return &GormPaymentTransactionRepository{db: db}
}

// Append inserts a new transaction row
func (r *GormPaymentTransactionRepository) Append(ctx context.Context, txn *payment.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// FindByOrder lists an order's transactions, oldest first
func (r *GormPaymentTransactionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*payment.Transaction, error) {
	var txns []*payment.Transaction
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("paid_at ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindAll lists transactions matching the filter
func (r *GormPaymentTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[payment.Transaction], error) {
	query := r.db.WithContext(ctx).Model(&payment.Transaction{})
	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("paid_at DESC")
	}

	var txns []payment.Transaction
	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(txns, total, filter.Page, filter.PageSize)
	return &page, nil
}
