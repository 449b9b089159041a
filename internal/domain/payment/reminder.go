package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/shared"
)

// Reminder logs a payment reminder sent for a due installment. One row
// per installment per calendar day keeps the sweep idempotent.
type Reminder struct {
	shared.BaseEntity
	InstallmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reminder_day,priority:1"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID    uuid.UUID `gorm:"type:uuid;not null"`
	SentOn        time.Time `gorm:"type:date;not null;uniqueIndex:idx_reminder_day,priority:2"`
	Channel       string
}

// TableName returns the database table name
func (Reminder) TableName() string {
	return "payment_reminders"
}

// NewReminder records a reminder sent today for the given installment
func NewReminder(installmentID, orderID, customerID uuid.UUID, sentOn time.Time, channel string) *Reminder {
	return &Reminder{
		BaseEntity:    shared.NewBaseEntity(),
		InstallmentID: installmentID,
		OrderID:       orderID,
		CustomerID:    customerID,
		SentOn:        truncateToDay(sentOn),
		Channel:       channel,
	}
}
