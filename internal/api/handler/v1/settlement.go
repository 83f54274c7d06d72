package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/astralshopid/astral-api/internal/api/handler/v1/request"
	"github.com/astralshopid/astral-api/internal/api/handler/v1/response"
	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/service"
)

type SettlementService interface {
	Settle(ctx context.Context, itemID, buyerID uint, price int64) (domain.Transaction, error)
}

type SettlementHandler struct {
	svc  SettlementService
	uSvc UserGetter
}

func NewSettlementHandler(svc SettlementService, uSvc UserGetter) *SettlementHandler {
	return &SettlementHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSettle godoc
// @Summary      Finalize a sale
// @Description  Decrements stock, credits the store balance, logs the transaction and sends the buyer a confirmation, as one unit
// @Tags         settlements
// @Produce      json
// @Param        request  body      request.SettleRequest true "request body"
// @Success      201      {object}  response.SettlementResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /settlements [post]
// @Security     BearerAuth
func (h *SettlementHandler) HandleSettle(ctx *gin.Context) {
	admin, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !admin.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied("admin access required"))
		return
	}

	var req request.SettleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	transaction, err := h.svc.Settle(ctx.Request.Context(), req.ItemID, req.BuyerID, req.Price)
	if err != nil {
		var partial *domain.PartialSettlementError
		switch {
		case errors.Is(err, service.ErrInvalidPrice):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrItemNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrItemNotFound))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
		case errors.Is(err, service.ErrInsufficientStock):
			response.RenderErr(ctx, response.ErrConflict(service.ErrInsufficientStock))
		case errors.As(err, &partial):
			zap.L().Error("settlement partially applied",
				zap.Uint("item_id", req.ItemID),
				zap.Uint("buyer_id", req.BuyerID),
				zap.Error(partial),
			)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, response.PartialSettlementResponse{
				Error:          "settlement partially applied",
				CompletedSteps: partial.Completed,
			})
		default:
			err = fmt.Errorf("v1.HandleSettle -> h.svc.Settle -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.SettlementResponse{Transaction: transaction})
}
