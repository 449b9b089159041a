package customer

import (
	"time"

	domain "github.com/tailor/backend/internal/domain/customer"
)

// CreateCustomerRequest is the input for registering a customer
type CreateCustomerRequest struct {
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address"`
	ReferredBy    string `json:"referred_by" binding:"omitempty,uuid"`
	SMSOptIn      bool   `json:"sms_opt_in"`
	WhatsAppOptIn bool   `json:"whatsapp_opt_in"`
}

// CustomerResponse is the API representation of a customer
type CustomerResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
	TotalPoints   int64  `json:"total_points"`
	Tier          string `json:"tier"`
	ReferredBy    string `json:"referred_by,omitempty"`
	SMSOptIn      bool   `json:"sms_opt_in"`
	WhatsAppOptIn bool   `json:"whatsapp_opt_in"`
}

// NewCustomerResponse maps a customer aggregate
func NewCustomerResponse(c *domain.Customer) *CustomerResponse {
	resp := &CustomerResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		TotalPoints:   c.TotalPoints,
		Tier:          string(c.Tier),
		SMSOptIn:      c.SMSOptIn,
		WhatsAppOptIn: c.WhatsAppOptIn,
	}
	if c.ReferredBy != nil {
		resp.ReferredBy = c.ReferredBy.String()
	}
	return resp
}

// PointsEntryResponse is one row of a customer's points history
type PointsEntryResponse struct {
	ID              string    `json:"id"`
	PointsChange    int64     `json:"points_change"`
	NewBalance      int64     `json:"new_balance"`
	TransactionType string    `json:"transaction_type"`
	OrderID         string    `json:"order_id,omitempty"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewPointsEntryResponse maps a loyalty ledger entry
func NewPointsEntryResponse(e *domain.LoyaltyPointsEntry) *PointsEntryResponse {
	resp := &PointsEntryResponse{
		ID:              e.ID.String(),
		PointsChange:    e.PointsChange,
		NewBalance:      e.NewBalance,
		TransactionType: string(e.TransactionType),
		Description:     e.Description,
		CreatedAt:       e.CreatedAt,
	}
	if e.OrderID != nil {
		resp.OrderID = e.OrderID.String()
	}
	return resp
}

// ReferralResponse is the API representation of a referral
type ReferralResponse struct {
	ID                 string     `json:"id"`
	ReferrerCustomerID string     `json:"referrer_customer_id"`
	ReferredCustomerID string     `json:"referred_customer_id"`
	Status             string     `json:"status"`
	RewardPoints       int64      `json:"reward_points"`
	CompletedDate      *time.Time `json:"completed_date,omitempty"`
}

// NewReferralResponse maps a referral aggregate
func NewReferralResponse(r *domain.Referral) *ReferralResponse {
	return &ReferralResponse{
		ID:                 r.ID.String(),
		ReferrerCustomerID: r.ReferrerCustomerID.String(),
		ReferredCustomerID: r.ReferredCustomerID.String(),
		Status:             string(r.Status),
		RewardPoints:       r.RewardPoints,
		CompletedDate:      r.CompletedDate,
	}
}
