package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/application/catalog"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ExpenseTypeCatalog manages the expense catalog
type ExpenseTypeCatalog interface {
	Create(ctx context.Context, caller identity.Caller, req catalog.CreateExpenseTypeRequest) (*catalog.ExpenseTypeResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*catalog.ExpenseTypeResponse, error)
	List(ctx context.Context, filter catalog.ExpenseTypeListFilter) (*shared.Paginated[catalog.ExpenseTypeResponse], error)
	Update(ctx context.Context, caller identity.Caller, id uuid.UUID, req catalog.UpdateExpenseTypeRequest) (*catalog.ExpenseTypeResponse, error)
}

// UnitRegistry manages the unit registry
type UnitRegistry interface {
	Create(ctx context.Context, caller identity.Caller, req catalog.CreateUnitRequest) (*catalog.UnitResponse, error)
	Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*catalog.UnitResponse, error)
	List(ctx context.Context, caller identity.Caller, filter catalog.UnitListFilter) (*shared.Paginated[catalog.UnitResponse], error)
	Update(ctx context.Context, caller identity.Caller, id uuid.UUID, req catalog.UpdateUnitRequest) (*catalog.UnitResponse, error)
}

// ExpenseTypeHandler serves /expense-types
type ExpenseTypeHandler struct {
	BaseHandler
	service ExpenseTypeCatalog
}

// NewExpenseTypeHandler creates an ExpenseTypeHandler
func NewExpenseTypeHandler(service ExpenseTypeCatalog, logger *zap.Logger) *ExpenseTypeHandler {
	return &ExpenseTypeHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Create handles POST /expense-types
func (h *ExpenseTypeHandler) Create(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	var req catalog.CreateExpenseTypeRequest
	if !h.bindJSON(c, &req, false) {
		return
	}

	et, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, et)
}

// Get handles GET /expense-types/:id
func (h *ExpenseTypeHandler) Get(c *gin.Context) {
	if _, ok := h.requireCaller(c); !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	et, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, et)
}

// List handles GET /expense-types
func (h *ExpenseTypeHandler) List(c *gin.Context) {
	if _, ok := h.requireCaller(c); !ok {
		return
	}
	var filter catalog.ExpenseTypeListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// Update handles PUT /expense-types/:id
func (h *ExpenseTypeHandler) Update(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req catalog.UpdateExpenseTypeRequest
	if !h.bindJSON(c, &req, false) {
		return
	}

	et, err := h.service.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, et)
}

// UnitHandler serves /units
type UnitHandler struct {
	BaseHandler
	service UnitRegistry
}

// NewUnitHandler creates a UnitHandler
func NewUnitHandler(service UnitRegistry, logger *zap.Logger) *UnitHandler {
	return &UnitHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Create handles POST /units
func (h *UnitHandler) Create(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	var req catalog.CreateUnitRequest
	if !h.bindJSON(c, &req, false) {
		return
	}

	unit, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, unit)
}

// Get handles GET /units/:id
func (h *UnitHandler) Get(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	unit, err := h.service.Get(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// List handles GET /units
func (h *UnitHandler) List(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	var filter catalog.UnitListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	ownerID, ok := h.queryUUID(c, "owner_id")
	if !ok {
		return
	}
	filter.OwnerID = ownerID

	page, err := h.service.List(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// Update handles PUT /units/:id
func (h *UnitHandler) Update(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req catalog.UpdateUnitRequest
	if !h.bindJSON(c, &req, false) {
		return
	}

	unit, err := h.service.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}
