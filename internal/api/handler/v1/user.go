package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/astralshopid/astral-api/internal/api/handler/v1/response"
	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/service"
)

type AccessService interface {
	Block(ctx context.Context, id uint) error
	Unblock(ctx context.Context, id uint) error
	ListBlocked(ctx context.Context) ([]domain.User, error)
}

type UserHandler struct {
	svc    UserGetter
	access AccessService
}

func NewUserHandler(svc UserGetter, access AccessService) *UserHandler {
	return &UserHandler{
		svc:    svc,
		access: access,
	}
}

// HandleGetUser godoc
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Success      200      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID} [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid user ID")))
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleBlockUser godoc
// @Summary      Block a user
// @Description  Blocked users cannot send messages and their conversations are hidden
// @Tags         users
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Success      204
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID}/block [post]
// @Security     BearerAuth
func (h *UserHandler) HandleBlockUser(ctx *gin.Context) {
	h.setBlocked(ctx, true)
}

// HandleUnblockUser godoc
// @Summary      Unblock a user
// @Tags         users
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Success      204
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID}/unblock [post]
// @Security     BearerAuth
func (h *UserHandler) HandleUnblockUser(ctx *gin.Context) {
	h.setBlocked(ctx, false)
}

func (h *UserHandler) setBlocked(ctx *gin.Context, blocked bool) {
	admin, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !admin.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied("admin access required"))
		return
	}

	id, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid user ID")))
		return
	}

	if blocked {
		err = h.access.Block(ctx.Request.Context(), uint(id))
	} else {
		err = h.access.Unblock(ctx.Request.Context(), uint(id))
	}
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
			return
		}

		err = fmt.Errorf("v1.setBlocked -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetBlockedUsers godoc
// @Summary      List blocked users
// @Tags         users
// @Produce      json
// @Success      200      {array}   domain.User
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/blocked [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetBlockedUsers(ctx *gin.Context) {
	admin, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !admin.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied("admin access required"))
		return
	}

	users, err := h.access.ListBlocked(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetBlockedUsers -> h.access.ListBlocked -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}
