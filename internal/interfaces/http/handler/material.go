package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/tailor/backend/internal/application/inventory"
	"github.com/tailor/backend/internal/domain/shared"
	"github.com/tailor/backend/internal/interfaces/http/dto"
	"github.com/tailor/backend/internal/interfaces/http/middleware"
)

// MaterialHandler handles raw material inventory API endpoints
type MaterialHandler struct {
	BaseHandler
	materialService *inventoryapp.Service
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(materialService *inventoryapp.Service) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// Create registers a new material type
func (h *MaterialHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.materialService.CreateMaterial(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID retrieves a material
func (h *MaterialHandler) GetByID(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	resp, err := h.materialService.GetMaterial(c.Request.Context(), materialID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated list of materials
func (h *MaterialHandler) List(c *gin.Context) {
	query := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	query.Normalize()

	filter := shared.DefaultFilter()
	filter.Page = query.Page
	filter.PageSize = query.PageSize
	filter.Search = query.Search

	result, err := h.materialService.ListMaterials(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ReceiveStock books purchased stock onto a material
func (h *MaterialHandler) ReceiveStock(c *gin.Context) {
	materialType := c.Param("material_type")
	if materialType == "" {
		h.BadRequest(c, "Material type is required")
		return
	}

	var req inventoryapp.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.materialService.ReceiveStock(c.Request.Context(), materialType, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// LowStock lists materials at or below their reorder level
func (h *MaterialHandler) LowStock(c *gin.Context) {
	materials, err := h.materialService.LowStock(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, materials)
}
