package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/shared"
)

// ReferralStatus represents the lifecycle of a referral
type ReferralStatus string

const (
	ReferralPending   ReferralStatus = "pending"
	ReferralCompleted ReferralStatus = "completed"
)

// DefaultReferralRewardPoints is the points credit paid to a referrer
// when their referred customer's first order is delivered.
const DefaultReferralRewardPoints int64 = 100

// Referral tracks a referrer/referred pair and its one-time reward
type Referral struct {
	shared.BaseAggregateRoot
	ReferrerCustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	ReferredCustomerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Status             ReferralStatus
	RewardPoints       int64
	OrderCompleted     bool
	CompletedDate      *time.Time
}

// TableName returns the database table name
func (Referral) TableName() string {
	return "customer_referrals"
}

// NewReferral registers a pending referral with the reward fixed at
// registration time.
func NewReferral(referrerID, referredID uuid.UUID) (*Referral, error) {
	if referrerID == uuid.Nil || referredID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERRAL", "Referrer and referred customer IDs are required")
	}
	if referrerID == referredID {
		return nil, shared.NewDomainError("INVALID_REFERRAL", "A customer cannot refer themselves")
	}

	return &Referral{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		ReferrerCustomerID: referrerID,
		ReferredCustomerID: referredID,
		Status:             ReferralPending,
		RewardPoints:       DefaultReferralRewardPoints,
		OrderCompleted:     false,
	}, nil
}

// Settle marks the referral completed. A referral settles at most once;
// a second settlement attempt is rejected.
func (r *Referral) Settle(completedAt time.Time) error {
	if r.Status == ReferralCompleted {
		return shared.ErrAlreadySettled
	}

	r.Status = ReferralCompleted
	r.OrderCompleted = true
	r.CompletedDate = &completedAt
	r.IncrementVersion()

	return nil
}

// IsPending reports whether the referral is still awaiting settlement
func (r *Referral) IsPending() bool {
	return r.Status == ReferralPending
}
