package customer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tailor/backend/internal/application/transaction"
	domain "github.com/tailor/backend/internal/domain/customer"
	"github.com/tailor/backend/internal/domain/shared"
)

// Service implements customer management use cases
type Service struct {
	scope     transaction.Scope
	customers domain.Repository
	entries   domain.LoyaltyEntryRepository
	referrals domain.ReferralRepository
	logger    *zap.Logger
}

// NewService creates a customer service
func NewService(
	scope transaction.Scope,
	customers domain.Repository,
	entries domain.LoyaltyEntryRepository,
	referrals domain.ReferralRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		scope:     scope,
		customers: customers,
		entries:   entries,
		referrals: referrals,
		logger:    logger,
	}
}

// CreateCustomer registers a customer. When a referrer is given, a
// pending referral is registered in the same transaction; it settles on
// the new customer's first delivered order.
func (s *Service) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	cust, err := domain.NewCustomer(req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	cust.SetContact(req.Email, req.Address)
	cust.SetNotificationPreferences(req.SMSOptIn, req.WhatsAppOptIn)

	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if existing, err := repos.Customers().FindByPhone(ctx, req.Phone); err == nil && existing != nil {
			return shared.ErrAlreadyExists
		} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		if req.ReferredBy != "" {
			referrerID, err := uuid.Parse(req.ReferredBy)
			if err != nil {
				return shared.NewDomainError("INVALID_REFERRER", "Invalid referrer ID")
			}
			if _, err := repos.Customers().FindByID(ctx, referrerID); err != nil {
				return shared.NewDomainError("INVALID_REFERRER", "Referrer does not exist")
			}
			if err := cust.LinkReferrer(referrerID); err != nil {
				return err
			}
			referral, err := domain.NewReferral(referrerID, cust.ID)
			if err != nil {
				return err
			}
			if err := repos.Referrals().Save(ctx, referral); err != nil {
				return err
			}
		}

		return repos.Customers().Save(ctx, cust)
	})
	if err != nil {
		return nil, err
	}

	return NewCustomerResponse(cust), nil
}

// GetCustomer fetches one customer by ID
func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	cust, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewCustomerResponse(cust), nil
}

// ListCustomers lists customers with pagination
func (s *Service) ListCustomers(ctx context.Context, filter shared.Filter) (*shared.Paginated[CustomerResponse], error) {
	customers, err := s.customers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customers.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CustomerResponse, len(customers))
	for i := range customers {
		items[i] = *NewCustomerResponse(&customers[i])
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// PointsHistory lists a customer's loyalty ledger, newest first
func (s *Service) PointsHistory(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]PointsEntryResponse, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	entries, err := s.entries.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PointsEntryResponse, len(entries))
	for i := range entries {
		items[i] = *NewPointsEntryResponse(&entries[i])
	}
	return items, nil
}

// ListReferrals lists the referrals a customer has made
func (s *Service) ListReferrals(ctx context.Context, referrerID uuid.UUID, filter shared.Filter) ([]ReferralResponse, error) {
	referrals, err := s.referrals.FindByReferrer(ctx, referrerID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ReferralResponse, len(referrals))
	for i := range referrals {
		items[i] = *NewReferralResponse(&referrals[i])
	}
	return items, nil
}
