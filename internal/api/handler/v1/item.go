package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/astralshopid/astral-api/internal/api/handler/v1/request"
	"github.com/astralshopid/astral-api/internal/api/handler/v1/response"
	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/service"
)

type InventoryService interface {
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	GetItem(ctx context.Context, id uint) (domain.Item, error)
	GetItems(ctx context.Context) ([]domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	DeleteItem(ctx context.Context, id uint) error
	SetStock(ctx context.Context, id uint, value int) error
}

type ItemHandler struct {
	svc  InventoryService
	uSvc UserGetter
}

func NewItemHandler(svc InventoryService, uSvc UserGetter) *ItemHandler {
	return &ItemHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetItems godoc
// @Summary      List shop items
// @Tags         items
// @Produce      json
// @Success      200  {array}   domain.Item
// @Failure      500  {object}  response.Err
// @Router       /items [get]
// @Security     BearerAuth
func (h *ItemHandler) HandleGetItems(ctx *gin.Context) {
	items, err := h.svc.GetItems(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetItems -> h.svc.GetItems -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleGetItem godoc
// @Summary      Get a shop item by ID
// @Tags         items
// @Produce      json
// @Param        itemID   path      int  true  "item ID"
// @Success      200      {object}  domain.Item
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /items/{itemID} [get]
// @Security     BearerAuth
func (h *ItemHandler) HandleGetItem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("itemID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid item ID")))
		return
	}

	item, err := h.svc.GetItem(ctx.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrItemNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleGetItem -> h.svc.GetItem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleCreateItem godoc
// @Summary      Create a shop item
// @Tags         items
// @Produce      json
// @Param        request  body      request.CreateItemRequest true "request body"
// @Success      201      {object}  domain.Item
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /items [post]
// @Security     BearerAuth
func (h *ItemHandler) HandleCreateItem(ctx *gin.Context) {
	if !h.requireAdmin(ctx) {
		return
	}

	var req request.CreateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	item, err := h.svc.CreateItem(ctx.Request.Context(), domain.Item{
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		if isItemValidationErr(err) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateItem -> h.svc.CreateItem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

// HandleUpdateItem godoc
// @Summary      Update a shop item
// @Tags         items
// @Produce      json
// @Param        itemID   path      int  true  "item ID"
// @Param        request  body      request.UpdateItemRequest true "request body"
// @Success      200      {object}  domain.Item
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /items/{itemID} [put]
// @Security     BearerAuth
func (h *ItemHandler) HandleUpdateItem(ctx *gin.Context) {
	if !h.requireAdmin(ctx) {
		return
	}

	id, err := strconv.ParseUint(ctx.Param("itemID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid item ID")))
		return
	}

	var req request.UpdateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	item, err := h.svc.UpdateItem(ctx.Request.Context(), domain.Item{
		ID:          uint(id),
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrItemNotFound))
			return
		}
		if isItemValidationErr(err) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateItem -> h.svc.UpdateItem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleDeleteItem godoc
// @Summary      Delete a shop item
// @Tags         items
// @Produce      json
// @Param        itemID   path      int  true  "item ID"
// @Success      204
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /items/{itemID} [delete]
// @Security     BearerAuth
func (h *ItemHandler) HandleDeleteItem(ctx *gin.Context) {
	if !h.requireAdmin(ctx) {
		return
	}

	id, err := strconv.ParseUint(ctx.Param("itemID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid item ID")))
		return
	}

	if err = h.svc.DeleteItem(ctx.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrItemNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteItem -> h.svc.DeleteItem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleSetStock godoc
// @Summary      Override an item's stock count
// @Tags         items
// @Produce      json
// @Param        itemID   path      int  true  "item ID"
// @Param        request  body      request.SetStockRequest true "request body"
// @Success      204
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /items/{itemID}/stock [put]
// @Security     BearerAuth
func (h *ItemHandler) HandleSetStock(ctx *gin.Context) {
	if !h.requireAdmin(ctx) {
		return
	}

	id, err := strconv.ParseUint(ctx.Param("itemID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid item ID")))
		return
	}

	var req request.SetStockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = h.svc.SetStock(ctx.Request.Context(), uint(id), req.Stock); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrItemNotFound))
			return
		}
		if errors.Is(err, service.ErrInvalidStock) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleSetStock -> h.svc.SetStock -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *ItemHandler) requireAdmin(ctx *gin.Context) bool {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return false
	}
	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied("admin access required"))
		return false
	}

	return true
}

func isItemValidationErr(err error) bool {
	return errors.Is(err, service.ErrEmptyName) ||
		errors.Is(err, service.ErrInvalidPrice) ||
		errors.Is(err, service.ErrInvalidStock)
}
