package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	customerapp "github.com/tailor/backend/internal/application/customer"
	"github.com/tailor/backend/internal/domain/shared"
	"github.com/tailor/backend/internal/interfaces/http/dto"
	"github.com/tailor/backend/internal/interfaces/http/middleware"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *customerapp.Service
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *customerapp.Service) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create registers a new customer, optionally linked to a referrer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves a customer
func (h *CustomerHandler) GetByID(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	resp, err := h.customerService.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// customerListQuery holds customer list filters
type customerListQuery struct {
	dto.ListRequest
	Tier string `form:"tier" binding:"omitempty,oneof=regular vip"`
}

// List returns a paginated list of customers
func (h *CustomerHandler) List(c *gin.Context) {
	query := customerListQuery{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	query.Normalize()

	filter := shared.DefaultFilter()
	filter.Page = query.Page
	filter.PageSize = query.PageSize
	filter.Search = query.Search
	if query.Tier != "" {
		filter.Filters["tier"] = query.Tier
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// PointsHistory returns the loyalty ledger of a customer
func (h *CustomerHandler) PointsHistory(c *gin.Context) {
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

	entries, err := h.customerService.PointsHistory(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}

// Referrals returns the referrals made by a customer
func (h *CustomerHandler) Referrals(c *gin.Context) {
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

	referrals, err := h.customerService.ListReferrals(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, referrals)
}
