package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/order"
	"github.com/tailor/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var ord order.Order
	if err := r.db.WithContext(ctx).First(&ord, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ord, nil
}

// FindByIDForUpdate finds an order by ID with a FOR UPDATE row lock.
// Only meaningful inside a transaction.
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var ord order.Order
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ord, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ord, nil
}

// FindByOrderNumber finds an order by its order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var ord order.Order
	if err := r.db.WithContext(ctx).First(&ord, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ord, nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(r.db.WithContext(ctx).Model(&order.Order{}), filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByCustomer finds orders for a customer
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&order.Order{}).Where("customer_id = ?", customerID),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, ord *order.Order) error {
	return r.db.WithContext(ctx).Save(ord).Error
}

// SaveWithLock saves with optimistic locking. The aggregate increments
// its version before the save; the update matches the previous version
// and fails when another transaction got there first.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, ord *order.Order) error {
	ord.IncrementVersion()
	result := r.db.WithContext(ctx).
		Model(ord).
		Where("id = ? AND version = ?", ord.ID, ord.Version-1).
		Updates(map[string]interface{}{
			"status":             ord.Status,
			"total_amount":       ord.TotalAmount,
			"discount_amount":    ord.DiscountAmount,
			"advance_payment":    ord.AdvancePayment,
			"balance_payment":    ord.BalancePayment,
			"material_cost":      ord.MaterialCost,
			"labor_cost":         ord.LaborCost,
			"profit":             ord.Profit,
			"wastage_qty":        ord.WastageQty,
			"assigned_worker_id": ord.AssignedWorkerID,
			"priority":           ord.Priority,
			"delivery_date":      ord.DeliveryDate,
			"delivered_at":       ord.DeliveredAt,
			"cancelled_at":       ord.CancelledAt,
			"cancel_reason":      ord.CancelReason,
			"version":            ord.Version,
			"updated_at":         ord.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&order.Order{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts orders in the given status
func (r *GormOrderRepository) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountDeliveredByCustomer counts delivered orders for a customer
func (r *GormOrderRepository) CountDeliveredByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("customer_id = ? AND status = ?", customerID, order.StatusDelivered).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveByWorker counts open orders assigned to a worker
func (r *GormOrderRepository) CountActiveByWorker(ctx context.Context, workerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("assigned_worker_id = ? AND status NOT IN ?", workerID,
			[]order.Status{order.StatusDelivered, order.StatusCancelled}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateOrderNumber generates a unique order number in the form
// ORD-YYYY-NNNNN.
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("ORD-%d-", year)

	var last order.Order
	err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.OrderNumber != "" {
		parts := strings.Split(last.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies search and field filters only
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR cloth_type ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "cloth_type":
			query = query.Where("cloth_type = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "worker_id":
			query = query.Where("assigned_worker_id = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date <= ?", t)
			}
		}
	}

	return query
}
