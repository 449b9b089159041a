package workshop

import (
	"time"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/shared"
)

// WorkTask tracks one worker's assignment on an order, used for
// turnaround statistics.
type WorkTask struct {
	shared.BaseEntity
	WorkerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ClothType     string    `gorm:"not null;index"`
	AssignedDate  time.Time
	CompletedDate *time.Time
}

// TableName returns the database table name
func (WorkTask) TableName() string {
	return "work_tasks"
}

// NewWorkTask records an assignment
func NewWorkTask(workerID, orderID uuid.UUID, clothType string, assignedAt time.Time) (*WorkTask, error) {
	if workerID == uuid.Nil || orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TASK", "Worker and order are required")
	}

	return &WorkTask{
		BaseEntity:   shared.NewBaseEntity(),
		WorkerID:     workerID,
		OrderID:      orderID,
		ClothType:    clothType,
		AssignedDate: assignedAt,
	}, nil
}

// Complete stamps the completion date. Completing twice is rejected.
func (t *WorkTask) Complete(completedAt time.Time) error {
	if t.CompletedDate != nil {
		return shared.ErrInvalidState
	}
	t.CompletedDate = &completedAt
	return nil
}

// TurnaroundDays is the whole days between assignment and completion,
// or -1 while the task is still open.
func (t *WorkTask) TurnaroundDays() int {
	if t.CompletedDate == nil {
		return -1
	}
	days := int(t.CompletedDate.Sub(t.AssignedDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
