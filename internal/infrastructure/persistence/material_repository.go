package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/inventory"
	"github.com/tailor/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMaterialRepository implements inventory.MaterialRepository using GORM
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewGormMaterialRepository creates a new GormMaterialRepository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

// FindByID finds a material by its ID
func (r *GormMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Material, error) {
	var mat inventory.Material
	if err := r.db.WithContext(ctx).First(&mat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mat, nil
}

// FindByType finds a material by its type name
func (r *GormMaterialRepository) FindByType(ctx context.Context, materialType string) (*inventory.Material, error) {
	var mat inventory.Material
	if err := r.db.WithContext(ctx).First(&mat, "material_type = ?", materialType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mat, nil
}

// FindByTypeForUpdate finds a material by type with a FOR UPDATE row
// lock, for stock deductions inside a transaction.
func (r *GormMaterialRepository) FindByTypeForUpdate(ctx context.Context, materialType string) (*inventory.Material, error) {
	var mat inventory.Material
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&mat, "material_type = ?", materialType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mat, nil
}

// FindAll finds all materials matching the filter
func (r *GormMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Material, error) {
	var materials []inventory.Material
	query := r.db.WithContext(ctx).Model(&inventory.Material{})

	if filter.Search != "" {
		query = query.Where("material_type ILIKE ?", "%"+filter.Search+"%")
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
		query = query.Order("material_type ASC")
	}

	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindBelowReorderLevel finds materials at or below their reorder level
func (r *GormMaterialRepository) FindBelowReorderLevel(ctx context.Context) ([]inventory.Material, error) {
	var materials []inventory.Material
	if err := r.db.WithContext(ctx).
		Where("reorder_level > 0 AND quantity_in_stock <= reorder_level").
		Order("material_type ASC").
		Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// Save creates or updates a material
func (r *GormMaterialRepository) Save(ctx context.Context, mat *inventory.Material) error {
	return r.db.WithContext(ctx).Save(mat).Error
}

// Count counts materials matching the filter
func (r *GormMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.Material{})
	if filter.Search != "" {
		query = query.Where("material_type ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
