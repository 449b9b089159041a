package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/tailor/backend/internal/application/payment"
	"github.com/tailor/backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles installment and payment API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.Service
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.Service) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Schedule creates a new installment on an order
func (h *PaymentHandler) Schedule(c *gin.Context) {
	var req paymentapp.ScheduleInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.paymentService.ScheduleInstallment(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Pay records payment of an installment. The order balance is reduced
// and the order auto-advances to finishing once fully paid.
func (h *PaymentHandler) Pay(c *gin.Context) {
	installmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid installment ID format")
		return
	}

	var req paymentapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.paymentService.RecordPayment(c.Request.Context(), installmentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListForOrder returns the installments of an order with derived
// overdue statuses.
func (h *PaymentHandler) ListForOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	installments, err := h.paymentService.ListForOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, installments)
}

// ListTransactions returns the payment transactions of an order
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	transactions, err := h.paymentService.ListTransactionsForOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transactions)
}

// SendReminders triggers a due-installment reminder sweep. The
// scheduler runs the same sweep periodically; this endpoint exists for
// manual runs.
func (h *PaymentHandler) SendReminders(c *gin.Context) {
	result, err := h.paymentService.SendDueReminders(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
