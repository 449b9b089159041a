package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	billingapp "github.com/tailor/backend/internal/application/billing"
	"github.com/tailor/backend/internal/domain/shared"
	"github.com/tailor/backend/internal/interfaces/http/dto"
	"github.com/tailor/backend/internal/interfaces/http/middleware"
)

// CouponHandler handles discount coupon API endpoints
type CouponHandler struct {
	BaseHandler
	couponService *billingapp.Service
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(couponService *billingapp.Service) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// Create creates a new coupon
func (h *CouponHandler) Create(c *gin.Context) {
	var req billingapp.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.couponService.CreateCoupon(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// validateCouponQuery carries the order total a coupon is checked against
type validateCouponQuery struct {
	OrderTotal float64 `form:"order_total" binding:"required,gt=0"`
}

// Validate checks a coupon against an order total without redeeming it
func (h *CouponHandler) Validate(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Coupon code is required")
		return
	}

	var query validateCouponQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.couponService.ValidateCoupon(c.Request.Context(), code, decimal.NewFromFloat(query.OrderTotal))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Get retrieves a coupon by code
func (h *CouponHandler) Get(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Coupon code is required")
		return
	}

	resp, err := h.couponService.GetCoupon(c.Request.Context(), code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// couponListQuery holds coupon list filters
type couponListQuery struct {
	dto.ListRequest
	Active *bool `form:"active"`
}

// List returns a paginated list of coupons
func (h *CouponHandler) List(c *gin.Context) {
	query := couponListQuery{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	query.Normalize()

	filter := shared.DefaultFilter()
	filter.Page = query.Page
	filter.PageSize = query.PageSize
	filter.Search = query.Search
	if query.Active != nil {
		filter.Filters["active"] = *query.Active
	}

	result, err := h.couponService.ListCoupons(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Deactivate disables a coupon
func (h *CouponHandler) Deactivate(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Coupon code is required")
		return
	}

	if err := h.couponService.DeactivateCoupon(c.Request.Context(), code); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
