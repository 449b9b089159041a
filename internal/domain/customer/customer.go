package customer

import (
	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/shared"
)

// Tier represents a customer's loyalty rank
type Tier string

const (
	TierNew     Tier = "new"
	TierRegular Tier = "regular"
	TierVIP     Tier = "vip"
)

// Tier thresholds, in points. Crossing a threshold upgrades the tier;
// tiers never downgrade.
const (
	RegularThreshold = 500
	VIPThreshold     = 2000
)

var tierRank = map[Tier]int{
	TierNew:     0,
	TierRegular: 1,
	TierVIP:     2,
}

// IsValid checks if the tier is a known value
func (t Tier) IsValid() bool {
	_, ok := tierRank[t]
	return ok
}

// outranks reports whether t is a strictly higher tier than other
func (t Tier) outranks(other Tier) bool {
	return tierRank[t] > tierRank[other]
}

// tierForPoints returns the tier the given balance qualifies for
func tierForPoints(points int64) Tier {
	switch {
	case points > VIPThreshold:
		return TierVIP
	case points > RegularThreshold:
		return TierRegular
	default:
		return TierNew
	}
}

// Customer is the aggregate root for a shop customer and their loyalty
// ledger state.
type Customer struct {
	shared.BaseAggregateRoot
	Name          string
	Phone         string
	Email         string
	Address       string
	TotalPoints   int64
	Tier          Tier
	ReferredBy    *uuid.UUID
	SMSOptIn      bool
	WhatsAppOptIn bool
}

// TableName returns the database table name
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer in the entry tier
func NewCustomer(name, phone string) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Customer phone cannot be empty")
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Phone:             phone,
		TotalPoints:       0,
		Tier:              TierNew,
	}, nil
}

// SetContact updates optional contact details
func (c *Customer) SetContact(email, address string) {
	c.Email = email
	c.Address = address
}

// SetNotificationPreferences sets the channels the customer opted into
func (c *Customer) SetNotificationPreferences(sms, whatsapp bool) {
	c.SMSOptIn = sms
	c.WhatsAppOptIn = whatsapp
}

// LinkReferrer records which customer referred this one. Allowed only
// once, before any points have been earned.
func (c *Customer) LinkReferrer(referrerID uuid.UUID) error {
	if referrerID == uuid.Nil || referrerID == c.ID {
		return shared.NewDomainError("INVALID_REFERRER", "Referrer must be a different existing customer")
	}
	if c.ReferredBy != nil {
		return shared.NewDomainError("ALREADY_EXISTS", "Customer already has a referrer")
	}
	c.ReferredBy = &referrerID
	return nil
}

// AwardPoints credits loyalty points and re-evaluates the tier. Points
// are a monotonic counter; negative or zero awards are rejected. Returns
// the new balance and, when the award crossed a threshold, the upgraded
// tier.
func (c *Customer) AwardPoints(points int64) (newBalance int64, upgradedTo *Tier, err error) {
	if points <= 0 {
		return c.TotalPoints, nil, shared.NewDomainError("INVALID_POINTS", "Points award must be positive")
	}

	c.TotalPoints += points
	c.IncrementVersion()

	// Tier is a one-way ratchet: only apply an upgrade, never a downgrade.
	if earned := tierForPoints(c.TotalPoints); earned.outranks(c.Tier) {
		c.Tier = earned
		upgraded := earned
		return c.TotalPoints, &upgraded, nil
	}

	return c.TotalPoints, nil, nil
}

// HasEmail reports whether an email address is on file
func (c *Customer) HasEmail() bool {
	return c.Email != ""
}
