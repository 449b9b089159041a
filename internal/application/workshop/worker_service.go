package workshop

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tailor/backend/internal/domain/order"
	"github.com/tailor/backend/internal/domain/shared"
	domain "github.com/tailor/backend/internal/domain/workshop"
)

// specialistMaxTurnaround is the average-turnaround ceiling, in days,
// for a worker to count as a specialist in a cloth type.
const specialistMaxTurnaround = 3.0

// specialistMinTasks is the completed-task count a worker must exceed
// before their average is trusted.
const specialistMinTasks = 2

// CreateWorkerRequest is the input for registering a worker
type CreateWorkerRequest struct {
	Name           string  `json:"name" binding:"required"`
	Role           string  `json:"role"`
	Phone          string  `json:"phone"`
	Specialization string  `json:"specialization"`
	MonthlySalary  float64 `json:"monthly_salary" binding:"gte=0"`
}

// WorkerResponse is the API representation of a worker
type WorkerResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Role           string          `json:"role,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Specialization string          `json:"specialization,omitempty"`
	MonthlySalary  decimal.Decimal `json:"monthly_salary"`
	Active         bool            `json:"active"`
}

// NewWorkerResponse maps a worker aggregate
func NewWorkerResponse(w *domain.Worker) *WorkerResponse {
	return &WorkerResponse{
		ID:             w.ID.String(),
		Name:           w.Name,
		Role:           w.Role,
		Phone:          w.Phone,
		Specialization: w.Specialization,
		MonthlySalary:  w.MonthlySalary,
		Active:         w.Active,
	}
}

// Recommendation is the outcome of the worker recommendation heuristic
type Recommendation struct {
	Worker       *WorkerResponse `json:"worker"`
	Specialist   bool            `json:"specialist"`
	ActiveOrders int64           `json:"active_orders"`
}

// Service implements worker and task use cases
type Service struct {
	workers domain.WorkerRepository
	tasks   domain.TaskRepository
	orders  order.Repository
	logger  *zap.Logger
}

// NewService creates a workshop service
func NewService(workers domain.WorkerRepository, tasks domain.TaskRepository, orders order.Repository, logger *zap.Logger) *Service {
	return &Service{workers: workers, tasks: tasks, orders: orders, logger: logger}
}

// CreateWorker registers a worker
func (s *Service) CreateWorker(ctx context.Context, req CreateWorkerRequest) (*WorkerResponse, error) {
	worker, err := domain.NewWorker(req.Name, req.Role, req.Phone, req.Specialization, decimal.NewFromFloat(req.MonthlySalary))
	if err != nil {
		return nil, err
	}
	if err := s.workers.Save(ctx, worker); err != nil {
		return nil, err
	}
	return NewWorkerResponse(worker), nil
}

// GetWorker fetches one worker by ID
func (s *Service) GetWorker(ctx context.Context, id uuid.UUID) (*WorkerResponse, error) {
	worker, err := s.workers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewWorkerResponse(worker), nil
}

// ListWorkers lists workers with pagination
func (s *Service) ListWorkers(ctx context.Context, filter shared.Filter) (*shared.Paginated[WorkerResponse], error) {
	page, err := s.workers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]WorkerResponse, len(page.Items))
	for i := range page.Items {
		items[i] = *NewWorkerResponse(&page.Items[i])
	}
	out := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &out, nil
}

// RecommendWorker picks the worker best suited for a cloth type.
// Specialists for the cloth type (average turnaround of three days or
// less over more than two completed tasks) are preferred, ranked by
// fewest active orders; without a specialist the least loaded active
// worker wins.
func (s *Service) RecommendWorker(ctx context.Context, clothType string) (*Recommendation, error) {
	clothType = strings.ToLower(strings.TrimSpace(clothType))
	if clothType == "" {
		return nil, shared.NewDomainError("INVALID_CLOTH_TYPE", "Cloth type is required")
	}

	active, err := s.workers.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, shared.NewDomainError("NO_WORKERS", "No active workers available")
	}

	workersByID := make(map[uuid.UUID]*domain.Worker, len(active))
	loads := make(map[uuid.UUID]int64, len(active))
	for _, w := range active {
		workersByID[w.ID] = w
		count, err := s.orders.CountActiveByWorker(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		loads[w.ID] = count
	}

	stats, err := s.tasks.StatsByClothType(ctx, clothType)
	if err != nil {
		return nil, err
	}

	var best *domain.Worker
	var bestLoad int64
	specialist := false
	for _, st := range stats {
		w, ok := workersByID[st.WorkerID]
		if !ok {
			continue
		}
		if st.CompletedTasks <= specialistMinTasks || st.AvgTurnaround > specialistMaxTurnaround {
			continue
		}
		load := loads[w.ID]
		if best == nil || load < bestLoad {
			best = w
			bestLoad = load
			specialist = true
		}
	}

	if best == nil {
		for _, w := range active {
			load := loads[w.ID]
			if best == nil || load < bestLoad {
				best = w
				bestLoad = load
			}
		}
	}

	return &Recommendation{
		Worker:       NewWorkerResponse(best),
		Specialist:   specialist,
		ActiveOrders: bestLoad,
	}, nil
}

// DeactivateWorker removes a worker from the assignment rotation
func (s *Service) DeactivateWorker(ctx context.Context, id uuid.UUID) error {
	worker, err := s.workers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	worker.Deactivate()
	return s.workers.SaveWithLock(ctx, worker)
}
