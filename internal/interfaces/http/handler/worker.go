package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	workshopapp "github.com/tailor/backend/internal/application/workshop"
	"github.com/tailor/backend/internal/domain/shared"
	"github.com/tailor/backend/internal/interfaces/http/dto"
	"github.com/tailor/backend/internal/interfaces/http/middleware"
)

// WorkerHandler handles workshop worker API endpoints
type WorkerHandler struct {
	BaseHandler
	workerService *workshopapp.Service
}

// NewWorkerHandler creates a new WorkerHandler
func NewWorkerHandler(workerService *workshopapp.Service) *WorkerHandler {
	return &WorkerHandler{workerService: workerService}
}

// Create registers a new worker
func (h *WorkerHandler) Create(c *gin.Context) {
	var req workshopapp.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.workerService.CreateWorker(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves a worker
func (h *WorkerHandler) GetByID(c *gin.Context) {
	workerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid worker ID format")
		return
	}

	resp, err := h.workerService.GetWorker(c.Request.Context(), workerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// workerListQuery holds worker list filters
type workerListQuery struct {
	dto.ListRequest
	Active         *bool  `form:"active"`
	Specialization string `form:"specialization"`
}

// List returns a paginated list of workers
func (h *WorkerHandler) List(c *gin.Context) {
	query := workerListQuery{ListRequest: dto.DefaultListRequest()}
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
	if query.Specialization != "" {
		filter.Filters["specialization"] = query.Specialization
	}

	result, err := h.workerService.ListWorkers(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// recommendQuery carries the cloth type to recommend a worker for
type recommendQuery struct {
	ClothType string `form:"cloth_type" binding:"required"`
}

// Recommend suggests the best available worker for a cloth type
func (h *WorkerHandler) Recommend(c *gin.Context) {
	var query recommendQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	recommendation, err := h.workerService.RecommendWorker(c.Request.Context(), query.ClothType)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, recommendation)
}

// Deactivate retires a worker from new assignments
func (h *WorkerHandler) Deactivate(c *gin.Context) {
	workerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid worker ID format")
		return
	}

	if err := h.workerService.DeactivateWorker(c.Request.Context(), workerID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
