package order

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tailor/backend/internal/application/document"
	"github.com/tailor/backend/internal/application/notification"
	"github.com/tailor/backend/internal/application/transaction"
	"github.com/tailor/backend/internal/domain/customer"
	"github.com/tailor/backend/internal/domain/inventory"
	domain "github.com/tailor/backend/internal/domain/order"
	"github.com/tailor/backend/internal/domain/payment"
	"github.com/tailor/backend/internal/domain/shared"
	"github.com/tailor/backend/internal/domain/shared/valueobject"
	"github.com/tailor/backend/internal/domain/workshop"
)

// SummaryCache caches the order status summary read model
type SummaryCache interface {
	Get(ctx context.Context) (map[string]int64, bool)
	Set(ctx context.Context, summary map[string]int64)
	Invalidate(ctx context.Context)
}

// Service implements the order lifecycle use cases
type Service struct {
	scope     transaction.Scope
	orders    domain.Repository
	customers customer.Repository
	notifier  notification.Gateway
	renderer  document.InvoiceRenderer
	cache     SummaryCache
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates an order service
func NewService(
	scope transaction.Scope,
	orders domain.Repository,
	customers customer.Repository,
	notifier notification.Gateway,
	renderer document.InvoiceRenderer,
	cache SummaryCache,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		scope:     scope,
		orders:    orders,
		customers: customers,
		notifier:  notifier,
		renderer:  renderer,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// PlaceOrder creates a pending order. Coupon validation and redemption
// happen in the same transaction as the order insert, so the usage limit
// holds under concurrent placements.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*OrderResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Invalid customer ID")
	}

	clothType := strings.ToLower(strings.TrimSpace(req.ClothType))
	if _, err := inventory.Requirements(clothType, req.Quantity); err != nil {
		return nil, err
	}

	total := decimal.NewFromFloat(req.TotalAmount)
	advance := decimal.NewFromFloat(req.AdvancePayment)

	var ord *domain.Order
	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if _, err := repos.Customers().FindByID(ctx, customerID); err != nil {
			return err
		}

		discount := decimal.Zero
		code := strings.ToUpper(strings.TrimSpace(req.CouponCode))
		if code != "" {
			coupon, err := repos.Coupons().FindByCode(ctx, code)
			if err != nil {
				return shared.ErrInvalidCoupon
			}
			if err := coupon.Validate(total, time.Now()); err != nil {
				return err
			}
			discount = coupon.DiscountFor(total)
			if _, err := repos.Coupons().RedeemAtomic(ctx, code); err != nil {
				return err
			}
		}

		orderNumber, err := repos.Orders().GenerateOrderNumber(ctx)
		if err != nil {
			return err
		}

		ord, err = domain.NewOrder(orderNumber, customerID, clothType, req.Quantity, total, discount, advance)
		if err != nil {
			return err
		}
		if code != "" {
			ord.SetCoupon(code)
		}
		if req.Priority != "" {
			if err := ord.SetPriority(domain.Priority(req.Priority)); err != nil {
				return err
			}
		}
		if req.DeliveryDate != nil {
			ord.SetDeliveryDate(*req.DeliveryDate)
		}
		if req.WorkerID != "" {
			workerID, err := uuid.Parse(req.WorkerID)
			if err != nil {
				return shared.NewDomainError("INVALID_WORKER", "Invalid worker ID")
			}
			if err := s.assignWorkerInTxn(ctx, repos, ord, workerID); err != nil {
				return err
			}
		}

		if err := repos.Orders().Save(ctx, ord); err != nil {
			return err
		}

		if advance.IsPositive() {
			method := payment.PaymentMethod(req.PaymentMethod)
			if method == "" {
				method = payment.MethodCash
			}
			txn, err := payment.NewTransaction(ord.ID, payment.KindAdvance, advance, method, time.Now())
			if err != nil {
				return err
			}
			if err := repos.PaymentTransactions().Append(ctx, txn); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterChange(ctx, ord)

	return NewOrderResponse(ord), nil
}

// GetOrder fetches one order by ID
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	ord, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewOrderResponse(ord), nil
}

// GetByNumber fetches one order by order number
func (s *Service) GetByNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	ord, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return NewOrderResponse(ord), nil
}

// ListOrders lists orders with pagination and filtering
func (s *Service) ListOrders(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = *NewOrderResponse(&orders[i])
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListByCustomer lists a customer's orders
func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]OrderResponse, error) {
	orders, err := s.orders.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = *NewOrderResponse(&orders[i])
	}
	return items, nil
}

// StatusSummary returns order counts per status, served from cache when
// fresh.
func (s *Service) StatusSummary(ctx context.Context) (map[string]int64, error) {
	if summary, ok := s.cache.Get(ctx); ok {
		return summary, nil
	}

	summary := make(map[string]int64)
	for _, status := range []domain.Status{
		domain.StatusPending, domain.StatusCutting, domain.StatusStitching,
		domain.StatusFinishing, domain.StatusReady, domain.StatusDelivered,
		domain.StatusCancelled,
	} {
		count, err := s.orders.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		summary[status.String()] = count
	}

	s.cache.Set(ctx, summary)
	return summary, nil
}

// AdvanceStatus moves an order one step forward. The cutting transition
// consumes the bill of materials and records costing; the delivered
// transition runs the loyalty settlement.
func (s *Service) AdvanceStatus(ctx context.Context, orderID uuid.UUID, target domain.Status) (*AdvanceResult, error) {
	if !target.IsValid() || target == domain.StatusCancelled || target == domain.StatusPending {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid target status")
	}

	var (
		ord      *domain.Order
		warnings []string
	)
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		var err error
		ord, err = repos.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		switch target {
		case domain.StatusCutting:
			warnings, err = s.beginCutting(ctx, repos, ord)
			if err != nil {
				return err
			}
			return repos.Orders().SaveWithLock(ctx, ord)
		case domain.StatusDelivered:
			_, err = s.deliverInTxn(ctx, repos, ord, time.Now())
			return err
		default:
			if err := ord.AdvanceTo(target); err != nil {
				return err
			}
			return repos.Orders().SaveWithLock(ctx, ord)
		}
	})
	if err != nil {
		return nil, err
	}

	s.afterChange(ctx, ord)

	if ord.Status == domain.StatusReady {
		s.notifyReady(ctx, ord)
	}

	return &AdvanceResult{Order: NewOrderResponse(ord), ReorderWarnings: warnings}, nil
}

// CompleteOrder runs the full completion flow: collect the final
// payment, deliver, settle loyalty, render the invoice and notify the
// customer. Notification and rendering failures are logged, never
// returned.
func (s *Service) CompleteOrder(ctx context.Context, orderID uuid.UUID, req CompleteOrderRequest) (*CompletionSummary, error) {
	method := payment.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	var (
		ord        *domain.Order
		settlement *settlementResult
		collected  decimal.Decimal
	)
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		var err error
		ord, err = repos.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		// The amount due is the outstanding balance floored at zero;
		// an explicit payment amount overrides it.
		collected = ord.BalancePayment
		if collected.IsNegative() {
			collected = decimal.Zero
		}
		if req.PaymentAmount > 0 {
			collected = decimal.NewFromFloat(req.PaymentAmount)
		}

		if collected.IsPositive() {
			if err := ord.ApplyPayment(collected); err != nil {
				return err
			}
			txn, err := payment.NewTransaction(ord.ID, payment.KindFinal, collected, method, time.Now())
			if err != nil {
				return err
			}
			if err := repos.PaymentTransactions().Append(ctx, txn); err != nil {
				return err
			}
		}

		settlement, err = s.deliverInTxn(ctx, repos, ord, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterChange(ctx, ord)

	summary := &CompletionSummary{
		Order:            NewOrderResponse(ord),
		AmountCollected:  collected,
		PointsAwarded:    settlement.PointsAwarded,
		NewPointsBalance: settlement.NewBalance,
		ReferrerRewarded: settlement.ReferrerRewarded,
		ReferrerPoints:   settlement.ReferrerPoints,
	}
	if settlement.TierUpgradedTo != nil {
		summary.TierUpgradedTo = string(*settlement.TierUpgradedTo)
	}

	s.finishCompletion(ctx, ord, method, collected, req.Channels, summary)

	return summary, nil
}

// CancelOrder cancels a pending order
func (s *Service) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	var ord *domain.Order
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		var err error
		ord, err = repos.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := ord.Cancel(reason); err != nil {
			return err
		}
		return repos.Orders().SaveWithLock(ctx, ord)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)

	return NewOrderResponse(ord), nil
}

// AssignWorker assigns a worker to an order and opens a work task
func (s *Service) AssignWorker(ctx context.Context, orderID, workerID uuid.UUID) (*OrderResponse, error) {
	var ord *domain.Order
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		var err error
		ord, err = repos.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := s.assignWorkerInTxn(ctx, repos, ord, workerID); err != nil {
			return err
		}
		return repos.Orders().SaveWithLock(ctx, ord)
	})
	if err != nil {
		return nil, err
	}
	return NewOrderResponse(ord), nil
}

func (s *Service) assignWorkerInTxn(ctx context.Context, repos transaction.Repositories, ord *domain.Order, workerID uuid.UUID) error {
	worker, err := repos.Workers().FindByID(ctx, workerID)
	if err != nil {
		return err
	}
	if !worker.Active {
		return shared.NewDomainError("INVALID_WORKER", "Worker is not active")
	}
	if err := ord.AssignWorker(worker.ID); err != nil {
		return err
	}

	task, err := workshop.NewWorkTask(worker.ID, ord.ID, ord.ClothType, time.Now())
	if err != nil {
		return err
	}
	return repos.Tasks().Save(ctx, task)
}

// beginCutting consumes the bill of materials under row locks and
// records the costing on the order. The check runs over the whole BOM
// before any deduction, so a shortfall leaves every material untouched.
func (s *Service) beginCutting(ctx context.Context, repos transaction.Repositories, ord *domain.Order) ([]string, error) {
	requirements, err := inventory.Requirements(ord.ClothType, ord.Quantity)
	if err != nil {
		return nil, err
	}

	// Lock materials in a stable order to keep concurrent cuttings from
	// deadlocking each other.
	sort.Slice(requirements, func(i, j int) bool {
		return requirements[i].MaterialType < requirements[j].MaterialType
	})

	materials := make([]*inventory.Material, len(requirements))
	var shortages []string
	for i, req := range requirements {
		mat, err := repos.Materials().FindByTypeForUpdate(ctx, req.MaterialType)
		if err != nil {
			return nil, err
		}
		materials[i] = mat
		if !mat.CanConsume(req.Qty) {
			shortages = append(shortages,
				fmt.Sprintf("%s (need %s, have %s)", mat.MaterialType, req.Qty.String(), mat.QuantityInStock.String()))
		}
	}
	if len(shortages) > 0 {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
			"Insufficient stock: "+strings.Join(shortages, ", "))
	}

	materialCost := decimal.Zero
	wastage := decimal.Zero
	var warnings []string
	for i, req := range requirements {
		mat := materials[i]
		if err := mat.Consume(req.Qty); err != nil {
			return nil, err
		}
		materialCost = materialCost.Add(mat.CostOf(req.Qty))
		wastage = wastage.Add(inventory.Wastage(req.Qty))
		if err := repos.Materials().Save(ctx, mat); err != nil {
			return nil, err
		}
		if mat.IsBelowReorderLevel() {
			warning := fmt.Sprintf("%s stock is at %s, reorder level %s",
				mat.MaterialType, mat.QuantityInStock.String(), mat.ReorderLevel.String())
			warnings = append(warnings, warning)
			s.logger.Warn("material below reorder level",
				zap.String("material_type", mat.MaterialType),
				zap.String("quantity", mat.QuantityInStock.String()),
				zap.String("reorder_level", mat.ReorderLevel.String()))
		}
	}

	laborCost := decimal.Zero
	if ord.AssignedWorkerID != nil {
		worker, err := repos.Workers().FindByID(ctx, *ord.AssignedWorkerID)
		if err != nil {
			return nil, err
		}
		laborCost = worker.LaborCost()
	}

	return warnings, ord.BeginCutting(materialCost, laborCost, wastage)
}

// deliverInTxn marks the order delivered, closes its open work task and
// runs the loyalty settlement, all inside the caller's transaction.
func (s *Service) deliverInTxn(ctx context.Context, repos transaction.Repositories, ord *domain.Order, deliveredAt time.Time) (*settlementResult, error) {
	if err := ord.Deliver(deliveredAt); err != nil {
		return nil, err
	}
	if err := repos.Orders().SaveWithLock(ctx, ord); err != nil {
		return nil, err
	}

	task, err := repos.Tasks().FindOpenByOrder(ctx, ord.ID)
	if err == nil && task != nil {
		if err := task.Complete(deliveredAt); err == nil {
			if err := repos.Tasks().Save(ctx, task); err != nil {
				return nil, err
			}
		}
	}

	return settleDelivery(ctx, repos, ord, deliveredAt)
}

// afterChange publishes queued domain events and drops the summary
// cache. Both are best-effort.
func (s *Service) afterChange(ctx context.Context, ord *domain.Order) {
	s.cache.Invalidate(ctx)

	events := ord.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events",
			zap.String("order_number", ord.OrderNumber), zap.Error(err))
	}
	ord.ClearDomainEvents()
}

// notifyReady sends the pickup notification on the customer's opted-in
// channels. Failures are logged only.
func (s *Service) notifyReady(ctx context.Context, ord *domain.Order) {
	cust, err := s.customers.FindByID(ctx, ord.CustomerID)
	if err != nil {
		s.logger.Warn("pickup notification skipped",
			zap.String("order_number", ord.OrderNumber), zap.Error(err))
		return
	}

	body := fmt.Sprintf("Hi %s, your order %s is ready for pickup.", cust.Name, ord.OrderNumber)
	if cust.SMSOptIn {
		if err := s.notifier.SendSMS(ctx, cust.Phone, body); err != nil {
			s.logger.Warn("pickup SMS failed", zap.String("order_number", ord.OrderNumber), zap.Error(err))
		}
	}
	if cust.WhatsAppOptIn {
		if err := s.notifier.SendWhatsApp(ctx, cust.Phone, body); err != nil {
			s.logger.Warn("pickup WhatsApp failed", zap.String("order_number", ord.OrderNumber), zap.Error(err))
		}
	}
}

// finishCompletion renders the invoice and sends the delivery
// notifications after the completion transaction committed.
func (s *Service) finishCompletion(ctx context.Context, ord *domain.Order, method payment.PaymentMethod, collected decimal.Decimal, channels []string, summary *CompletionSummary) {
	cust, err := s.customers.FindByID(ctx, ord.CustomerID)
	if err != nil {
		s.logger.Warn("completion notifications skipped",
			zap.String("order_number", ord.OrderNumber), zap.Error(err))
		return
	}

	var invoicePDF []byte
	if s.renderer != nil {
		inv := buildInvoice(ord, cust, method, collected)
		invoicePDF, err = s.renderer.RenderPDF(ctx, inv)
		if err != nil {
			s.logger.Warn("invoice rendering failed",
				zap.String("order_number", ord.OrderNumber), zap.Error(err))
			invoicePDF = nil
		} else {
			summary.InvoiceGenerated = true
		}
	} else {
		s.logger.Warn("invoice rendering disabled",
			zap.String("order_number", ord.OrderNumber))
	}

	requested := make(map[string]bool, len(channels))
	for _, ch := range channels {
		requested[ch] = true
	}
	body := fmt.Sprintf("Thank you %s! Order %s has been delivered. Amount paid: %s.",
		cust.Name, ord.OrderNumber, collected.StringFixed(2))

	if cust.SMSOptIn || requested[string(notification.ChannelSMS)] {
		if err := s.notifier.SendSMS(ctx, cust.Phone, body); err != nil {
			s.logger.Warn("delivery SMS failed", zap.String("order_number", ord.OrderNumber), zap.Error(err))
		} else {
			summary.ChannelsSent = append(summary.ChannelsSent, string(notification.ChannelSMS))
		}
	}
	if cust.WhatsAppOptIn || requested[string(notification.ChannelWhatsApp)] {
		if err := s.notifier.SendWhatsApp(ctx, cust.Phone, body); err != nil {
			s.logger.Warn("delivery WhatsApp failed", zap.String("order_number", ord.OrderNumber), zap.Error(err))
		} else {
			summary.ChannelsSent = append(summary.ChannelsSent, string(notification.ChannelWhatsApp))
		}
	}
	if cust.HasEmail() {
		var attachments []notification.EmailAttachment
		if invoicePDF != nil {
			attachments = append(attachments, notification.EmailAttachment{
				Filename:    fmt.Sprintf("invoice-%s.pdf", ord.OrderNumber),
				ContentType: "application/pdf",
				Data:        invoicePDF,
			})
		}
		subject := fmt.Sprintf("Invoice for order %s", ord.OrderNumber)
		if err := s.notifier.SendEmail(ctx, cust.Email, subject, body, attachments...); err != nil {
			s.logger.Warn("invoice email failed", zap.String("order_number", ord.OrderNumber), zap.Error(err))
		} else {
			summary.ChannelsSent = append(summary.ChannelsSent, string(notification.ChannelEmail))
		}
	}
}

func buildInvoice(ord *domain.Order, cust *customer.Customer, method payment.PaymentMethod, collected decimal.Decimal) document.Invoice {
	unitPrice := ord.TotalAmount
	if ord.Quantity > 0 {
		unitPrice = ord.TotalAmount.Div(decimal.NewFromInt(int64(ord.Quantity)))
	}

	return document.Invoice{
		InvoiceNumber: "INV-" + ord.OrderNumber,
		OrderNumber:   ord.OrderNumber,
		IssuedAt:      time.Now(),
		CustomerName:  cust.Name,
		CustomerPhone: cust.Phone,
		Lines: []document.InvoiceLine{{
			Description: fmt.Sprintf("Tailoring: %s", ord.ClothType),
			Quantity:    ord.Quantity,
			UnitPrice:   valueobject.NewMoneyINR(unitPrice),
			Amount:      valueobject.NewMoneyINR(ord.TotalAmount),
		}},
		Subtotal:      valueobject.NewMoneyINR(ord.TotalAmount),
		Discount:      valueobject.NewMoneyINR(ord.DiscountAmount),
		AdvancePaid:   valueobject.NewMoneyINR(ord.AdvancePayment),
		AmountDue:     valueobject.NewMoneyINR(collected),
		PaymentMethod: string(method),
	}
}
