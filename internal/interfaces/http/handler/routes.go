package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the order endpoints
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/summary", h.StatusSummary)
		orders.GET("/number/:order_number", h.GetByOrderNumber)
		orders.GET("/:id", h.GetByID)
		orders.POST("/:id/advance", h.AdvanceStatus)
		orders.POST("/:id/complete", h.Complete)
		orders.POST("/:id/cancel", h.Cancel)
		orders.POST("/:id/assign-worker", h.AssignWorker)
	}
}

// RegisterRoutes mounts the installment and payment endpoints
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/installments", h.Schedule)
		payments.POST("/installments/:id/pay", h.Pay)
		payments.GET("/orders/:order_id/installments", h.ListForOrder)
		payments.GET("/orders/:order_id/transactions", h.ListTransactions)
		payments.POST("/reminders/sweep", h.SendReminders)
	}
}

// RegisterRoutes mounts the coupon endpoints
func (h *CouponHandler) RegisterRoutes(rg *gin.RouterGroup) {
	coupons := rg.Group("/coupons")
	{
		coupons.POST("", h.Create)
		coupons.GET("", h.List)
		coupons.GET("/:code", h.Get)
		coupons.GET("/:code/validate", h.Validate)
		coupons.DELETE("/:code", h.Deactivate)
	}
}

// RegisterRoutes mounts the customer endpoints
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:id", h.GetByID)
		customers.GET("/:id/points", h.PointsHistory)
		customers.GET("/:id/referrals", h.Referrals)
	}
}

// RegisterRoutes mounts the worker endpoints
func (h *WorkerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	workers := rg.Group("/workers")
	{
		workers.POST("", h.Create)
		workers.GET("", h.List)
		workers.GET("/recommend", h.Recommend)
		workers.GET("/:id", h.GetByID)
		workers.DELETE("/:id", h.Deactivate)
	}
}

// RegisterRoutes mounts the material endpoints
func (h *MaterialHandler) RegisterRoutes(rg *gin.RouterGroup) {
	materials := rg.Group("/materials")
	{
		materials.POST("", h.Create)
		materials.GET("", h.List)
		materials.GET("/low-stock", h.LowStock)
		materials.GET("/:id", h.GetByID)
		materials.POST("/:material_type/receive", h.ReceiveStock)
	}
}

// RegisterCustomerOrderRoutes mounts the per-customer order listing.
// It shares the /customers/:id prefix with the customer handler, so
// the param name must match.
func (h *OrderHandler) RegisterCustomerOrderRoutes(rg *gin.RouterGroup) {
	rg.GET("/customers/:id/orders", h.ListByCustomer)
}

// RegisterRoutes mounts the system endpoints
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/ping", h.Ping)
		system.GET("/info", h.GetSystemInfo)
	}
}
