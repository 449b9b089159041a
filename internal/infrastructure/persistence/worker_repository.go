package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/shared"
	"github.com/tailor/backend/internal/domain/workshop"
	"gorm.io/gorm"
)

// GormWorkerRepository implements workshop.WorkerRepository using GORM
type GormWorkerRepository struct {
	db *gorm.DB
}

// NewGormWorkerRepository creates a new GormWorkerRepository
func NewGormWorkerRepository(db *gorm.DB) *GormWorkerRepository {
	return &GormWorkerRepository{db: db}
}

// FindByID finds a worker by ID
func (r *GormWorkerRepository) FindByID(ctx context.Context, id uuid.UUID) (*workshop.Worker, error) {
	var worker workshop.Worker
	if err := r.db.WithContext(ctx).First(&worker, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &worker, nil
}

// FindAll finds workers matching the filter
func (r *GormWorkerRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[workshop.Worker], error) {
	query := r.db.WithContext(ctx).Model(&workshop.Worker{})
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR specialization ILIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "specialization":
			query = query.Where("specialization = ?", value)
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
		query = query.Order("name ASC")
	}

	var workers []workshop.Worker
	if err := query.Find(&workers).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(workers, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindActive lists all active workers
func (r *GormWorkerRepository) FindActive(ctx context.Context) ([]*workshop.Worker, error) {
	var workers []*workshop.Worker
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

// Save creates or updates a worker
func (r *GormWorkerRepository) Save(ctx context.Context, worker *workshop.Worker) error {
	return r.db.WithContext(ctx).Save(worker).Error
}

// SaveWithLock saves with optimistic locking. The aggregate has already
// incremented its version; the update matches the previous one.
func (r *GormWorkerRepository) SaveWithLock(ctx context.Context, worker *workshop.Worker) error {
	result := r.db.WithContext(ctx).
		Model(worker).
		Where("id = ? AND version = ?", worker.ID, worker.Version-1).
		Updates(map[string]interface{}{
			"name":           worker.Name,
			"role":           worker.Role,
			"phone":          worker.Phone,
			"specialization": worker.Specialization,
			"monthly_salary": worker.MonthlySalary,
			"active":         worker.Active,
			"version":        worker.Version,
			"updated_at":     worker.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
