package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tailor/backend/internal/application/transaction"
	"github.com/tailor/backend/internal/domain/customer"
	domain "github.com/tailor/backend/internal/domain/order"
	"github.com/tailor/backend/internal/domain/shared"
)

// pointsDivisor converts net order value to loyalty points: one point
// per hundred rupees, floored.
var pointsDivisor = decimal.NewFromInt(100)

// settlementResult carries the loyalty side effects of a delivery
type settlementResult struct {
	PointsAwarded    int64
	NewBalance       int64
	TierUpgradedTo   *customer.Tier
	ReferrerRewarded bool
	ReferrerPoints   int64
}

// settleDelivery applies the loyalty settlement for a delivered order:
// purchase points on the net amount, tier re-evaluation, and the
// one-time referral reward when this is the customer's first delivered
// order. The order must already be saved in delivered status inside the
// same transaction.
func settleDelivery(ctx context.Context, repos transaction.Repositories, ord *domain.Order, deliveredAt time.Time) (*settlementResult, error) {
	cust, err := repos.Customers().FindByIDForUpdate(ctx, ord.CustomerID)
	if err != nil {
		return nil, err
	}

	result := &settlementResult{NewBalance: cust.TotalPoints}

	points := ord.NetAmount().Div(pointsDivisor).IntPart()
	if points > 0 {
		newBalance, upgradedTo, err := cust.AwardPoints(points)
		if err != nil {
			return nil, err
		}

		orderID := ord.ID
		entry, err := customer.NewLoyaltyPointsEntry(cust.ID, points, newBalance,
			customer.LoyaltyTxnPurchase, &orderID,
			fmt.Sprintf("Points for order %s", ord.OrderNumber))
		if err != nil {
			return nil, err
		}
		if err := repos.LoyaltyEntries().Append(ctx, entry); err != nil {
			return nil, err
		}
		if err := repos.Customers().Save(ctx, cust); err != nil {
			return nil, err
		}

		result.PointsAwarded = points
		result.NewBalance = newBalance
		result.TierUpgradedTo = upgradedTo
	}

	if err := settleReferral(ctx, repos, ord, cust, deliveredAt, result); err != nil {
		return nil, err
	}

	return result, nil
}

// settleReferral credits the referrer when the referred customer's first
// order is delivered. The delivered count includes the order being
// settled, so exactly one means this is the first.
func settleReferral(ctx context.Context, repos transaction.Repositories, ord *domain.Order, cust *customer.Customer, deliveredAt time.Time, result *settlementResult) error {
	if cust.ReferredBy == nil {
		return nil
	}

	delivered, err := repos.Orders().CountDeliveredByCustomer(ctx, cust.ID)
	if err != nil {
		return err
	}
	if delivered != 1 {
		return nil
	}

	ref, err := repos.Referrals().FindPendingByReferred(ctx, cust.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := ref.Settle(deliveredAt); err != nil {
		if errors.Is(err, shared.ErrAlreadySettled) {
			return nil
		}
		return err
	}

	referrer, err := repos.Customers().FindByIDForUpdate(ctx, ref.ReferrerCustomerID)
	if err != nil {
		return err
	}

	newBalance, _, err := referrer.AwardPoints(ref.RewardPoints)
	if err != nil {
		return err
	}

	orderID := ord.ID
	entry, err := customer.NewLoyaltyPointsEntry(referrer.ID, ref.RewardPoints, newBalance,
		customer.LoyaltyTxnReferral, &orderID,
		fmt.Sprintf("Referral reward for %s", cust.Name))
	if err != nil {
		return err
	}
	if err := repos.LoyaltyEntries().Append(ctx, entry); err != nil {
		return err
	}
	if err := repos.Customers().Save(ctx, referrer); err != nil {
		return err
	}
	if err := repos.Referrals().Save(ctx, ref); err != nil {
		return err
	}

	result.ReferrerRewarded = true
	result.ReferrerPoints = ref.RewardPoints

	return nil
}
