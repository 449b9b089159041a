package event

import (
	"context"

	"github.com/tailor/backend/internal/domain/order"
	"github.com/tailor/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler writes every order lifecycle event to the
// structured log, giving an append-only audit trail without a
// dedicated audit table.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger}
}

func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

func (h *AuditLogHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderCreated,
		order.EventTypeOrderCuttingStarted,
		order.EventTypeOrderReady,
		order.EventTypeOrderDelivered,
	}
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
