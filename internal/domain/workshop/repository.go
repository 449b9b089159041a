package workshop

import (
	"context"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/shared"
)

// TurnaroundStats summarizes a worker's completed tasks for one cloth type
type TurnaroundStats struct {
	WorkerID       uuid.UUID
	CompletedTasks int
	AvgTurnaround  float64
}

// WorkerRepository defines data access for workers
type WorkerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Worker, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Worker], error)
	FindActive(ctx context.Context) ([]*Worker, error)
	Save(ctx context.Context, worker *Worker) error
	SaveWithLock(ctx context.Context, worker *Worker) error
}

// TaskRepository defines data access for work tasks
type TaskRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WorkTask, error)
	FindOpenByOrder(ctx context.Context, orderID uuid.UUID) (*WorkTask, error)
	FindByWorker(ctx context.Context, workerID uuid.UUID) ([]*WorkTask, error)
	// StatsByClothType aggregates completed-task counts and average
	// turnaround per worker for the given cloth type.
	StatsByClothType(ctx context.Context, clothType string) ([]TurnaroundStats, error)
	Save(ctx context.Context, task *WorkTask) error
}
