package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tailor/backend/internal/application/transaction"
	domain "github.com/tailor/backend/internal/domain/inventory"
	"github.com/tailor/backend/internal/domain/shared"
)

// CreateMaterialRequest is the input for registering a material
type CreateMaterialRequest struct {
	MaterialType string  `json:"material_type" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"gte=0"`
	UnitPrice    float64 `json:"unit_price" binding:"gte=0"`
	ReorderLevel float64 `json:"reorder_level" binding:"gte=0"`
}

// ReceiveStockRequest is the input for booking purchased stock
type ReceiveStockRequest struct {
	Quantity  float64  `json:"quantity" binding:"required,gt=0"`
	UnitPrice *float64 `json:"unit_price" binding:"omitempty,gte=0"`
}

// MaterialResponse is the API representation of a material
type MaterialResponse struct {
	ID              string          `json:"id"`
	MaterialType    string          `json:"material_type"`
	QuantityInStock decimal.Decimal `json:"quantity_in_stock"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
	BelowReorder    bool            `json:"below_reorder"`
}

// NewMaterialResponse maps a material aggregate
func NewMaterialResponse(m *domain.Material) *MaterialResponse {
	return &MaterialResponse{
		ID:              m.ID.String(),
		MaterialType:    m.MaterialType,
		QuantityInStock: m.QuantityInStock,
		UnitPrice:       m.UnitPrice,
		ReorderLevel:    m.ReorderLevel,
		BelowReorder:    m.IsBelowReorderLevel(),
	}
}

// Service implements material stock use cases
type Service struct {
	scope     transaction.Scope
	materials domain.MaterialRepository
	logger    *zap.Logger
}

// NewService creates an inventory service
func NewService(scope transaction.Scope, materials domain.MaterialRepository, logger *zap.Logger) *Service {
	return &Service{scope: scope, materials: materials, logger: logger}
}

// CreateMaterial registers a new material stock record
func (s *Service) CreateMaterial(ctx context.Context, req CreateMaterialRequest) (*MaterialResponse, error) {
	materialType := strings.ToLower(strings.TrimSpace(req.MaterialType))

	if existing, err := s.materials.FindByType(ctx, materialType); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	mat, err := domain.NewMaterial(materialType,
		decimal.NewFromFloat(req.Quantity),
		decimal.NewFromFloat(req.UnitPrice),
		decimal.NewFromFloat(req.ReorderLevel))
	if err != nil {
		return nil, err
	}
	if err := s.materials.Save(ctx, mat); err != nil {
		return nil, err
	}
	return NewMaterialResponse(mat), nil
}

// ReceiveStock books purchased stock onto a material, optionally
// updating the unit price used for costing.
func (s *Service) ReceiveStock(ctx context.Context, materialType string, req ReceiveStockRequest) (*MaterialResponse, error) {
	materialType = strings.ToLower(strings.TrimSpace(materialType))

	var mat *domain.Material
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		var err error
		mat, err = repos.Materials().FindByTypeForUpdate(ctx, materialType)
		if err != nil {
			return err
		}
		if err := mat.Receive(decimal.NewFromFloat(req.Quantity)); err != nil {
			return err
		}
		if req.UnitPrice != nil {
			if err := mat.SetUnitPrice(decimal.NewFromFloat(*req.UnitPrice)); err != nil {
				return err
			}
		}
		return repos.Materials().Save(ctx, mat)
	})
	if err != nil {
		return nil, err
	}

	return NewMaterialResponse(mat), nil
}

// GetMaterial fetches one material by ID
func (s *Service) GetMaterial(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	mat, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewMaterialResponse(mat), nil
}

// ListMaterials lists materials with pagination
func (s *Service) ListMaterials(ctx context.Context, filter shared.Filter) (*shared.Paginated[MaterialResponse], error) {
	materials, err := s.materials.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.materials.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]MaterialResponse, len(materials))
	for i := range materials {
		items[i] = *NewMaterialResponse(&materials[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// LowStock lists materials at or below their reorder level
func (s *Service) LowStock(ctx context.Context) ([]MaterialResponse, error) {
	materials, err := s.materials.FindBelowReorderLevel(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]MaterialResponse, len(materials))
	for i := range materials {
		items[i] = *NewMaterialResponse(&materials[i])
	}
	return items, nil
}
