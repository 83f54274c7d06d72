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

type MessageService interface {
	Send(ctx context.Context, senderID, receiverID uint, content string, kind domain.MessageKind, meta *domain.CommerceMeta) (domain.Message, error)
	PlaceOrder(ctx context.Context, buyerID, itemID uint) (domain.Message, error)
	MarkRead(ctx context.Context, id uint, viewer domain.User) error
	ListConversation(ctx context.Context, a, b uint, viewerID uint, markRead bool) ([]domain.Message, error)
	DeleteConversation(ctx context.Context, a, b uint) error
}

type ConversationService interface {
	Roster(ctx context.Context, exclude []uint) ([]domain.Conversation, error)
}

type MessageHandler struct {
	svc           MessageService
	conversations ConversationService
	uSvc          UserGetter
}

func NewMessageHandler(svc MessageService, conversations ConversationService, uSvc UserGetter) *MessageHandler {
	return &MessageHandler{
		svc:           svc,
		conversations: conversations,
		uSvc:          uSvc,
	}
}

// HandleSendMessage godoc
// @Summary      Send a chat message
// @Tags         messages
// @Produce      json
// @Param        request  body      request.SendMessageRequest true "request body"
// @Success      201      {object}  domain.Message
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /messages [post]
// @Security     BearerAuth
func (h *MessageHandler) HandleSendMessage(ctx *gin.Context) {
	sender, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	kind := domain.MessageKindUser
	if sender.IsAdmin() {
		kind = domain.MessageKindAdmin
	}

	var meta *domain.CommerceMeta
	if req.ItemID != 0 {
		meta = &domain.CommerceMeta{
			ItemID:   req.ItemID,
			ItemName: req.ItemName,
			Price:    req.Price,
		}
	}

	msg, err := h.svc.Send(ctx.Request.Context(), sender.ID, req.ReceiverID, req.Content, kind, meta)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyContent):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrUserBlocked):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrUserBlocked.Error()))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
		case errors.Is(err, service.ErrBackendUnavailable):
			response.RenderErr(ctx, response.ErrServiceUnavailable(service.ErrBackendUnavailable))
		default:
			err = fmt.Errorf("v1.HandleSendMessage -> h.svc.Send -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, msg)
}

// HandlePlaceOrder godoc
// @Summary      Place an order for an item
// @Description  Posts an order message to the admin conversation; stock is untouched until settlement
// @Tags         messages
// @Produce      json
// @Param        request  body      request.PlaceOrderRequest true "request body"
// @Success      201      {object}  domain.Message
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders [post]
// @Security     BearerAuth
func (h *MessageHandler) HandlePlaceOrder(ctx *gin.Context) {
	buyer, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	msg, err := h.svc.PlaceOrder(ctx.Request.Context(), buyer.ID, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrItemNotFound))
		case errors.Is(err, service.ErrInsufficientStock):
			response.RenderErr(ctx, response.ErrConflict(service.ErrInsufficientStock))
		case errors.Is(err, service.ErrUserBlocked):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrUserBlocked.Error()))
		default:
			err = fmt.Errorf("v1.HandlePlaceOrder -> h.svc.PlaceOrder -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, msg)
}

// HandleGetConversations godoc
// @Summary      List conversations (admin roster)
// @Description  One entry per customer, newest first, with unread flags
// @Tags         conversations
// @Produce      json
// @Success      200  {array}   domain.Conversation
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /conversations [get]
// @Security     BearerAuth
func (h *MessageHandler) HandleGetConversations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied("admin access required"))
		return
	}

	roster, err := h.conversations.Roster(ctx.Request.Context(), nil)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetConversations -> h.conversations.Roster -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, roster)
}

// HandleGetConversation godoc
// @Summary      Get the message thread with a user
// @Description  Returns the conversation between the authenticated user and the given user, oldest first. Pass mark_read=true to flip unread incoming messages.
// @Tags         conversations
// @Produce      json
// @Param        userID     path   int     true   "counterparty user ID"
// @Param        mark_read  query  bool    false  "mark incoming messages as read"
// @Success      200  {array}   domain.Message
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /conversations/{userID} [get]
// @Security     BearerAuth
func (h *MessageHandler) HandleGetConversation(ctx *gin.Context) {
	viewer, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	counterparty, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid user ID")))
		return
	}

	markRead := ctx.Query("mark_read") == "true"

	messages, err := h.svc.ListConversation(ctx.Request.Context(), viewer.ID, uint(counterparty), viewer.ID, markRead)
	if err != nil {
		if errors.Is(err, service.ErrBackendUnavailable) {
			response.RenderErr(ctx, response.ErrServiceUnavailable(service.ErrBackendUnavailable))
			return
		}

		err = fmt.Errorf("v1.HandleGetConversation -> h.svc.ListConversation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

// HandleMarkMessageRead godoc
// @Summary      Mark a single message as read
// @Tags         messages
// @Produce      json
// @Param        messageID  path  int  true  "message ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /messages/{messageID}/read [post]
// @Security     BearerAuth
func (h *MessageHandler) HandleMarkMessageRead(ctx *gin.Context) {
	viewer, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("messageID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid message ID")))
		return
	}

	if err = h.svc.MarkRead(ctx.Request.Context(), uint(id), viewer); err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrMessageNotFound))
			return
		}
		if errors.Is(err, service.ErrNotMessageReceiver) {
			response.RenderErr(ctx, response.ErrPermissionDenied("message is not addressed to this user"))
			return
		}

		err = fmt.Errorf("v1.HandleMarkMessageRead -> h.svc.MarkRead -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleDeleteConversation godoc
// @Summary      Delete the conversation with a user
// @Description  Removes every message in the thread. Admin only.
// @Tags         conversations
// @Produce      json
// @Param        userID  path  int  true  "counterparty user ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /conversations/{userID} [delete]
// @Security     BearerAuth
func (h *MessageHandler) HandleDeleteConversation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied("admin access required"))
		return
	}

	counterparty, err := strconv.ParseUint(ctx.Param("userID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid user ID")))
		return
	}

	if err = h.svc.DeleteConversation(ctx.Request.Context(), user.ID, uint(counterparty)); err != nil {
		err = fmt.Errorf("v1.HandleDeleteConversation -> h.svc.DeleteConversation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
