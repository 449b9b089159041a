package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/payment"
	"gorm.io/gorm"
)

// GormReminderRepository implements payment.ReminderRepository using
// GORM. The unique index on (installment_id, sent_on) backs the
// same-day dedupe.
type GormReminderRepository struct {
	db *gorm.DB
}

// NewGormReminderRepository creates a new GormReminderRepository
func NewGormReminderRepository(db *gorm.DB) *GormReminderRepository {
	return &GormReminderRepository{db: db}
}

// WasSentOn reports whether a reminder for the installment already went
// out on the given calendar day.
func (r *GormReminderRepository) WasSentOn(ctx context.Context, installmentID uuid.UUID, day time.Time) (bool, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&payment.Reminder{}).
		Where("installment_id = ? AND sent_on >= ? AND sent_on < ?",
			installmentID, dayStart, dayStart.Add(24*time.Hour)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Append inserts a reminder log row
func (r *GormReminderRepository) Append(ctx context.Context, reminder *payment.Reminder) error {
	return r.db.WithContext(ctx).Create(reminder).Error
}

// FindByOrder lists the reminders sent for an order
func (r *GormReminderRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*payment.Reminder, error) {
	var reminders []*payment.Reminder
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("sent_on DESC").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}
