package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/astralshopid/astral-api/internal/api/handler/v1/response"
	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/pubsub"
	"github.com/astralshopid/astral-api/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced by the HTTP middleware already.
	},
}

// ChatHandler streams conversation and roster snapshots over WebSocket.
// Clients fetch the current state over REST and then hold a socket open;
// every server-side change pushes a fresh snapshot.
type ChatHandler struct {
	notifier *service.Notifier
	uSvc     UserGetter
	adminID  uint
}

func NewChatHandler(notifier *service.Notifier, uSvc UserGetter, adminID uint) *ChatHandler {
	return &ChatHandler{
		notifier: notifier,
		uSvc:     uSvc,
		adminID:  adminID,
	}
}

// HandleConversationSocket godoc
// @Summary      Subscribe to live updates for one conversation
// @Tags         chat
// @Produce      json
// @Param        userID  path  int  true  "counterparty user ID"
// @Success      101     {string}  string  "Switching Protocols to WebSocket"
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Router       /ws/conversations/{userID} [get]
// @Security     BearerAuth
func (h *ChatHandler) HandleConversationSocket(ctx *gin.Context) {
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

	// Customers only ever talk to the store; the admin may watch any thread.
	if !viewer.IsAdmin() && uint(counterparty) != h.adminID {
		response.RenderErr(ctx, response.ErrPermissionDenied("cannot subscribe to this conversation"))
		return
	}

	sub := h.notifier.SubscribeConversation(domain.PairKey(viewer.ID, uint(counterparty)))
	h.serve(ctx, sub)
}

// HandleRosterSocket godoc
// @Summary      Subscribe to live roster updates
// @Tags         chat
// @Produce      json
// @Success      101  {string}  string  "Switching Protocols to WebSocket"
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /ws/roster [get]
// @Security     BearerAuth
func (h *ChatHandler) HandleRosterSocket(ctx *gin.Context) {
	viewer, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !viewer.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied("admin access required"))
		return
	}

	sub := h.notifier.SubscribeRoster()
	h.serve(ctx, sub)
}

func (h *ChatHandler) serve(ctx *gin.Context, sub *pubsub.Subscription) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		sub.Close()
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	go writePump(conn, sub)
	go readPump(conn, sub)
}

// writePump pushes every event on the subscription to the peer. The loop
// ends when the subscription is closed, either by readPump or by the broker
// dropping a slow consumer.
func writePump(conn *websocket.Conn, sub *pubsub.Subscription) {
	defer conn.Close()

	for event := range sub.Events() {
		payload, err := json.Marshal(event.Payload)
		if err != nil {
			zap.L().Warn("marshaling push event failed", zap.Error(err))
			continue
		}

		if err = conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}

	conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards client frames; the socket is push-only. Its job is to
// notice the peer going away and tear down the subscription.
func readPump(conn *websocket.Conn, sub *pubsub.Subscription) {
	defer func() {
		sub.Close()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}
