package payment

import (
	"time"

	"github.com/shopspring/decimal"
	domain "github.com/tailor/backend/internal/domain/payment"
)

// ScheduleInstallmentRequest is the input for scheduling an installment
type ScheduleInstallmentRequest struct {
	OrderID string    `json:"order_id" binding:"required,uuid"`
	Amount  float64   `json:"amount" binding:"required,gt=0"`
	DueDate time.Time `json:"due_date" binding:"required"`
}

// RecordPaymentRequest is the input for paying an installment
type RecordPaymentRequest struct {
	Method string `json:"method" binding:"required,oneof=cash card upi online"`
}

// InstallmentResponse is the API representation of an installment. The
// status field carries the derived status, so pending installments past
// their due date show as overdue.
type InstallmentResponse struct {
	ID                string          `json:"id"`
	OrderID           string          `json:"order_id"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	DueDate           time.Time       `json:"due_date"`
	Status            string          `json:"status"`
	PaidDate          *time.Time      `json:"paid_date,omitempty"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
}

// NewInstallmentResponse maps an installment with its status derived as
// of the given time.
func NewInstallmentResponse(inst *domain.Installment, asOf time.Time) *InstallmentResponse {
	return &InstallmentResponse{
		ID:                inst.ID.String(),
		OrderID:           inst.OrderID.String(),
		InstallmentNumber: inst.InstallmentNumber,
		Amount:            inst.Amount,
		DueDate:           inst.DueDate,
		Status:            string(inst.DerivedStatus(asOf)),
		PaidDate:          inst.PaidDate,
		PaymentMethod:     string(inst.PaymentMethod),
	}
}

// RecordPaymentResult is the outcome of paying an installment
type RecordPaymentResult struct {
	Installment  *InstallmentResponse `json:"installment"`
	OrderBalance decimal.Decimal      `json:"order_balance"`
	OrderStatus  string               `json:"order_status"`
	AutoAdvanced bool                 `json:"auto_advanced"`
}

// TransactionResponse is the API representation of a payment transaction
type TransactionResponse struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	InstallmentID string          `json:"installment_id,omitempty"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	PaidAt        time.Time       `json:"paid_at"`
}

// NewTransactionResponse maps a payment transaction
func NewTransactionResponse(txn *domain.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:      txn.ID.String(),
		OrderID: txn.OrderID.String(),
		Kind:    string(txn.Kind),
		Amount:  txn.Amount,
		Method:  string(txn.Method),
		PaidAt:  txn.PaidAt,
	}
	if txn.InstallmentID != nil {
		resp.InstallmentID = txn.InstallmentID.String()
	}
	return resp
}

// ReminderSweepResult summarizes one due-reminder sweep
type ReminderSweepResult struct {
	Due     int `json:"due"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
