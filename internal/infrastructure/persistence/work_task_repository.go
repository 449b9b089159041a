package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/shared"
	"github.com/tailor/backend/internal/domain/workshop"
	"gorm.io/gorm"
)

// GormWorkTaskRepository implements workshop.TaskRepository using GORM
type GormWorkTaskRepository struct {
	db *gorm.DB
}

// NewGormWorkTaskRepository creates a new GormWorkTaskRepository
func NewGormWorkTaskRepository(db *gorm.DB) *GormWorkTaskRepository {
	return &GormWorkTaskRepository{db: db}
}

// FindByID finds a work task by ID
func (r *GormWorkTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*workshop.WorkTask, error) {
	var task workshop.WorkTask
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindOpenByOrder finds the open (uncompleted) task for an order, if any
func (r *GormWorkTaskRepository) FindOpenByOrder(ctx context.Context, orderID uuid.UUID) (*workshop.WorkTask, error) {
	var task workshop.WorkTask
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND completed_date IS NULL", orderID).
		Order("assigned_date DESC").
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindByWorker lists a worker's tasks, newest first
func (r *GormWorkTaskRepository) FindByWorker(ctx context.Context, workerID uuid.UUID) ([]*workshop.WorkTask, error) {
	var tasks []*workshop.WorkTask
	if err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("assigned_date DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// StatsByClothType aggregates completed-task counts and average
// turnaround in days per worker for one cloth type.
func (r *GormWorkTaskRepository) StatsByClothType(ctx context.Context, clothType string) ([]workshop.TurnaroundStats, error) {
	var stats []workshop.TurnaroundStats
	err := r.db.WithContext(ctx).
		Model(&workshop.WorkTask{}).
		Select("worker_id, COUNT(*) AS completed_tasks, "+
			"AVG(EXTRACT(EPOCH FROM (completed_date - assigned_date)) / 86400) AS avg_turnaround").
		Where("cloth_type = ? AND completed_date IS NOT NULL", clothType).
		Group("worker_id").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Save creates or updates a work task
func (r *GormWorkTaskRepository) Save(ctx context.Context, task *workshop.WorkTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}
