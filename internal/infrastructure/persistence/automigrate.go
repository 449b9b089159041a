package persistence

import (
	"github.com/tailor/backend/internal/domain/billing"
	"github.com/tailor/backend/internal/domain/customer"
	"github.com/tailor/backend/internal/domain/inventory"
	"github.com/tailor/backend/internal/domain/order"
	"github.com/tailor/backend/internal/domain/payment"
	"github.com/tailor/backend/internal/domain/workshop"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all aggregates. Meant
// for development bootstrap; production schemas are managed by the
// migration files.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&customer.Customer{},
		&customer.LoyaltyPointsEntry{},
		&customer.Referral{},
		&order.Order{},
		&inventory.Material{},
		&payment.Installment{},
		&payment.Transaction{},
		&payment.Reminder{},
		&billing.Coupon{},
		&workshop.Worker{},
		&workshop.WorkTask{},
	)
}
