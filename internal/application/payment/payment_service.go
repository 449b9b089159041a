package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tailor/backend/internal/application/notification"
	"github.com/tailor/backend/internal/application/transaction"
	"github.com/tailor/backend/internal/domain/customer"
	"github.com/tailor/backend/internal/domain/order"
	domain "github.com/tailor/backend/internal/domain/payment"
	"github.com/tailor/backend/internal/domain/shared"
)

// Service implements the installment sub-ledger use cases
type Service struct {
	scope        transaction.Scope
	installments domain.InstallmentRepository
	transactions domain.TransactionRepository
	reminders    domain.ReminderRepository
	orders       order.Repository
	customers    customer.Repository
	notifier     notification.Gateway
	logger       *zap.Logger
}

// NewService creates a payment service
func NewService(
	scope transaction.Scope,
	installments domain.InstallmentRepository,
	transactions domain.TransactionRepository,
	reminders domain.ReminderRepository,
	orders order.Repository,
	customers customer.Repository,
	notifier notification.Gateway,
	logger *zap.Logger,
) *Service {
	return &Service{
		scope:        scope,
		installments: installments,
		transactions: transactions,
		reminders:    reminders,
		orders:       orders,
		customers:    customers,
		notifier:     notifier,
		logger:       logger,
	}
}

// ScheduleInstallment creates the next installment for an order. Numbers
// are sequential per order.
func (s *Service) ScheduleInstallment(ctx context.Context, req ScheduleInstallmentRequest) (*InstallmentResponse, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Invalid order ID")
	}

	var inst *domain.Installment
	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		ord, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if ord.IsTerminal() {
			return shared.NewDomainError("INVALID_STATE", "Cannot schedule installments on a closed order")
		}

		number, err := repos.Installments().NextInstallmentNumber(ctx, orderID)
		if err != nil {
			return err
		}

		inst, err = domain.NewInstallment(orderID, number, decimal.NewFromFloat(req.Amount), req.DueDate)
		if err != nil {
			return err
		}
		return repos.Installments().Save(ctx, inst)
	})
	if err != nil {
		return nil, err
	}

	return NewInstallmentResponse(inst, time.Now()), nil
}

// RecordPayment marks an installment paid, decrements the order balance
// and records the transaction. An order whose balance reaches zero moves
// to finishing unless it is already in finishing, ready or delivered.
func (s *Service) RecordPayment(ctx context.Context, installmentID uuid.UUID, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	method := domain.PaymentMethod(req.Method)

	var (
		inst     *domain.Installment
		ord      *order.Order
		advanced bool
	)
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		var err error
		inst, err = repos.Installments().FindByIDForUpdate(ctx, installmentID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := inst.MarkPaid(method, now); err != nil {
			return err
		}
		if err := repos.Installments().SaveWithLock(ctx, inst); err != nil {
			return err
		}

		ord, err = repos.Orders().FindByIDForUpdate(ctx, inst.OrderID)
		if err != nil {
			return err
		}
		if err := ord.ApplyPayment(inst.Amount); err != nil {
			return err
		}
		if ord.IsFullyPaid() {
			advanced, err = ord.ForceFinishing()
			if err != nil {
				return err
			}
		}
		if err := repos.Orders().SaveWithLock(ctx, ord); err != nil {
			return err
		}

		txn, err := domain.NewTransaction(ord.ID, domain.KindInstallment, inst.Amount, method, now)
		if err != nil {
			return err
		}
		txn.LinkInstallment(inst.ID)
		return repos.PaymentTransactions().Append(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	if advanced {
		s.logger.Info("order auto-advanced to finishing on full payment",
			zap.String("order_number", ord.OrderNumber))
	}

	return &RecordPaymentResult{
		Installment:  NewInstallmentResponse(inst, time.Now()),
		OrderBalance: ord.BalancePayment,
		OrderStatus:  ord.Status.String(),
		AutoAdvanced: advanced,
	}, nil
}

// ListForOrder lists an order's installments with derived statuses
func (s *Service) ListForOrder(ctx context.Context, orderID uuid.UUID) ([]InstallmentResponse, error) {
	installments, err := s.installments.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]InstallmentResponse, len(installments))
	for i, inst := range installments {
		items[i] = *NewInstallmentResponse(inst, now)
	}
	return items, nil
}

// ListTransactionsForOrder lists the payment transactions of an order
func (s *Service) ListTransactionsForOrder(ctx context.Context, orderID uuid.UUID) ([]TransactionResponse, error) {
	txns, err := s.transactions.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		items[i] = *NewTransactionResponse(txn)
	}
	return items, nil
}

// SendDueReminders sweeps due installments and sends one reminder per
// installment per calendar day. Already-reminded installments are
// skipped; send failures are counted and logged but do not stop the
// sweep.
func (s *Service) SendDueReminders(ctx context.Context, asOf time.Time) (*ReminderSweepResult, error) {
	due, err := s.installments.FindDue(ctx, asOf)
	if err != nil {
		return nil, err
	}

	result := &ReminderSweepResult{Due: len(due)}
	for _, inst := range due {
		sent, err := s.reminders.WasSentOn(ctx, inst.ID, asOf)
		if err != nil {
			return nil, err
		}
		if sent {
			result.Skipped++
			continue
		}

		if err := s.remind(ctx, inst, asOf); err != nil {
			result.Failed++
			s.logger.Warn("payment reminder failed",
				zap.String("installment_id", inst.ID.String()), zap.Error(err))
			continue
		}
		result.Sent++
	}

	return result, nil
}

func (s *Service) remind(ctx context.Context, inst *domain.Installment, asOf time.Time) error {
	ord, err := s.orders.FindByID(ctx, inst.OrderID)
	if err != nil {
		return err
	}
	cust, err := s.customers.FindByID(ctx, ord.CustomerID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Hi %s, installment %d of %s for order %s is due on %s.",
		cust.Name, inst.InstallmentNumber, inst.Amount.StringFixed(2),
		ord.OrderNumber, inst.DueDate.Format("02 Jan 2006"))

	channel := notification.ChannelSMS
	switch {
	case cust.WhatsAppOptIn:
		channel = notification.ChannelWhatsApp
		err = s.notifier.SendWhatsApp(ctx, cust.Phone, body)
	default:
		err = s.notifier.SendSMS(ctx, cust.Phone, body)
	}
	if err != nil {
		return err
	}

	reminder := domain.NewReminder(inst.ID, ord.ID, cust.ID, asOf, string(channel))
	return s.reminders.Append(ctx, reminder)
}
