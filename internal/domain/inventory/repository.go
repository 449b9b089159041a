package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/shared"
)

// MaterialRepository defines the interface for material stock persistence
type MaterialRepository interface {
	// FindByID finds a material by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Material, error)

	// FindByType finds a material by its type name
	FindByType(ctx context.Context, materialType string) (*Material, error)

	// FindByTypeForUpdate finds a material by type with a row-level lock,
	// for use inside a transaction scope when stock is about to be deducted
	FindByTypeForUpdate(ctx context.Context, materialType string) (*Material, error)

	// FindAll finds all materials with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Material, error)

	// FindBelowReorderLevel finds materials at or below their reorder level
	FindBelowReorderLevel(ctx context.Context) ([]Material, error)

	// Save creates or updates a material
	Save(ctx context.Context, material *Material) error

	// Count counts materials matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
