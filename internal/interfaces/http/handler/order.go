package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderapp "github.com/tailor/backend/internal/application/order"
	"github.com/tailor/backend/internal/domain/order"
	"github.com/tailor/backend/internal/domain/shared"
	"github.com/tailor/backend/internal/interfaces/http/dto"
	"github.com/tailor/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order lifecycle API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create places a new order
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.orderService.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves an order by its ID
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByOrderNumber retrieves an order by its order number
func (h *OrderHandler) GetByOrderNumber(c *gin.Context) {
	orderNumber := c.Param("order_number")
	if orderNumber == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	resp, err := h.orderService.GetByNumber(c.Request.Context(), orderNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// orderListQuery holds list filters beyond the common pagination set
type orderListQuery struct {
	dto.ListRequest
	Status    string `form:"status" binding:"omitempty,oneof=pending cutting stitching finishing ready delivered cancelled"`
	ClothType string `form:"cloth_type"`
	Priority  string `form:"priority" binding:"omitempty,oneof=normal high urgent"`
	WorkerID  string `form:"worker_id" binding:"omitempty,uuid"`
}

// List returns a paginated list of orders
func (h *OrderHandler) List(c *gin.Context) {
	query := orderListQuery{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	query.Normalize()

	filter := shared.DefaultFilter()
	filter.Page = query.Page
	filter.PageSize = query.PageSize
	filter.Search = query.Search
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.ClothType != "" {
		filter.Filters["cloth_type"] = query.ClothType
	}
	if query.Priority != "" {
		filter.Filters["priority"] = query.Priority
	}
	if query.WorkerID != "" {
		filter.Filters["worker_id"] = query.WorkerID
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListByCustomer returns the orders of one customer
func (h *OrderHandler) ListByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	query := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	query.Normalize()

	filter := shared.DefaultFilter()
	filter.Page = query.Page
	filter.PageSize = query.PageSize

	orders, err := h.orderService.ListByCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, orders)
}

// StatusSummary returns order counts grouped by status
func (h *OrderHandler) StatusSummary(c *gin.Context) {
	summary, err := h.orderService.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// AdvanceStatus moves an order to the next lifecycle stage
func (h *OrderHandler) AdvanceStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderapp.AdvanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.orderService.AdvanceStatus(c.Request.Context(), orderID, order.Status(req.Status))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Complete runs the completion flow: collect payment, deliver,
// settle loyalty, render the invoice and notify the customer.
func (h *OrderHandler) Complete(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderapp.CompleteOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	summary, err := h.orderService.CompleteOrder(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// Cancel cancels a pending order
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.orderService.CancelOrder(c.Request.Context(), orderID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// AssignWorker assigns a worker to an order
func (h *OrderHandler) AssignWorker(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderapp.AssignWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		h.BadRequest(c, "Invalid worker ID format")
		return
	}

	resp, err := h.orderService.AssignWorker(c.Request.Context(), orderID, workerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
