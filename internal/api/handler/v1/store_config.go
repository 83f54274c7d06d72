package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astralshopid/astral-api/internal/api/handler/v1/request"
	"github.com/astralshopid/astral-api/internal/api/handler/v1/response"
	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/service"
)

type StoreConfigService interface {
	GetConfig(ctx context.Context) (domain.StoreConfig, error)
	SaveConfig(ctx context.Context, conf domain.StoreConfig) (domain.StoreConfig, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	Stats(ctx context.Context) (domain.StoreStats, error)
}

type StoreConfigHandler struct {
	svc  StoreConfigService
	uSvc UserGetter
}

func NewStoreConfigHandler(svc StoreConfigService, uSvc UserGetter) *StoreConfigHandler {
	return &StoreConfigHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetConfig godoc
// @Summary      Get the store configuration
// @Tags         store
// @Produce      json
// @Success      200  {object}  domain.StoreConfig
// @Failure      500  {object}  response.Err
// @Router       /store/config [get]
// @Security     BearerAuth
func (h *StoreConfigHandler) HandleGetConfig(ctx *gin.Context) {
	conf, err := h.svc.GetConfig(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetConfig -> h.svc.GetConfig -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, conf)
}

// HandleUpdateConfig godoc
// @Summary      Update the store name and logo
// @Tags         store
// @Produce      json
// @Param        request  body      request.UpdateStoreConfigRequest true "request body"
// @Success      200      {object}  domain.StoreConfig
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /store/config [put]
// @Security     BearerAuth
func (h *StoreConfigHandler) HandleUpdateConfig(ctx *gin.Context) {
	if !h.requireAdmin(ctx) {
		return
	}

	var req request.UpdateStoreConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	conf, err := h.svc.SaveConfig(ctx.Request.Context(), domain.StoreConfig{
		Name: req.Name,
		Logo: req.Logo,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyName) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateConfig -> h.svc.SaveConfig -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, conf)
}

// HandleGetTransactions godoc
// @Summary      List settled transactions, newest first
// @Tags         store
// @Produce      json
// @Success      200  {array}   domain.Transaction
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /store/transactions [get]
// @Security     BearerAuth
func (h *StoreConfigHandler) HandleGetTransactions(ctx *gin.Context) {
	if !h.requireAdmin(ctx) {
		return
	}

	transactions, err := h.svc.ListTransactions(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetTransactions -> h.svc.ListTransactions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, transactions)
}

// HandleGetStats godoc
// @Summary      Store dashboard summary
// @Tags         store
// @Produce      json
// @Success      200  {object}  domain.StoreStats
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /store/stats [get]
// @Security     BearerAuth
func (h *StoreConfigHandler) HandleGetStats(ctx *gin.Context) {
	if !h.requireAdmin(ctx) {
		return
	}

	stats, err := h.svc.Stats(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetStats -> h.svc.Stats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func (h *StoreConfigHandler) requireAdmin(ctx *gin.Context) bool {
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
