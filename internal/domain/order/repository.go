package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/shared"
)

// Repository defines the interface for order persistence
type Repository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate finds an order by ID with a row-level lock,
	// for use inside a transaction scope
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll finds all orders with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByCustomer finds orders for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts orders in the given status
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// CountDeliveredByCustomer counts delivered orders for a customer,
	// used for first-order referral settlement
	CountDeliveredByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)

	// CountActiveByWorker counts open (not delivered/cancelled) orders
	// assigned to a worker
	CountActiveByWorker(ctx context.Context, workerID uuid.UUID) (int64, error)

	// GenerateOrderNumber generates a unique sequential order number
	GenerateOrderNumber(ctx context.Context) (string, error)
}
