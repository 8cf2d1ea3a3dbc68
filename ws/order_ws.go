package ws

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"ahara/pkg/events"
	"ahara/pkg/logger"
	"ahara/pkg/resp"
	"ahara/services"
	"ahara/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

// OrderViewer decides whether an actor may watch an order.
type OrderViewer interface {
	CanView(ctx context.Context, actor services.Actor, orderID uint) (bool, error)
}

// OrderHub pushes order events to websocket clients subscribed to that order.
type OrderHub struct {
	clients    map[uint]map[*websocket.Conn]bool // orderID -> connections
	broadcast  chan events.Event
	register   chan Subscription
	unregister chan Subscription
	done       chan struct{}
	mu         sync.Mutex
	viewer     OrderViewer
	log        *zap.Logger
}

type Subscription struct {
	Conn    *websocket.Conn
	OrderID uint
	UserID  uint
}

func NewOrderHub(viewer OrderViewer, log *zap.Logger) *OrderHub {
	return &OrderHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan events.Event, 64),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
		done:       make(chan struct{}),
		viewer:     viewer,
		log:        log,
	}
}

// Run owns every write to the connections. It returns when ctx is done, closing all clients.
func (h *OrderHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, set := range h.clients {
				for conn := range set {
					conn.Close()
				}
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.OrderID] == nil {
				h.clients[sub.OrderID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.OrderID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.OrderID][sub.Conn]; ok {
				delete(h.clients[sub.OrderID], sub.Conn)
				if len(h.clients[sub.OrderID]) == 0 {
					delete(h.clients, sub.OrderID)
				}
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case e := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[e.OrderID] {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(e); err != nil {
					h.log.Debug("ws write failed", zap.Uint("order_id", e.OrderID), zap.Error(err))
					conn.Close()
					delete(h.clients[e.OrderID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an event for delivery. A full queue drops the event; tracking is best effort.
func (h *OrderHub) Publish(ctx context.Context, e events.Event) error {
	select {
	case h.broadcast <- e:
	default:
		logger.Warn(ctx, h.log, "order hub queue full, dropping event",
			zap.String("type", e.Type), zap.Uint("order_id", e.OrderID))
	}
	return nil
}

// Subscribers reports how many connections watch an order.
func (h *OrderHub) Subscribers(orderID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[orderID])
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket serves GET /ws/orders/:id. WSAuthMiddleware must run first.
func (h *OrderHub) HandleWebSocket(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		resp.BadRequest(c, "Invalid order id")
		return
	}
	orderID := uint(id)
	actor := services.Actor{UserID: utils.CurrentUserID(c), Role: utils.CurrentRole(c)}

	ok, err := h.viewer.CanView(c.Request.Context(), actor, orderID)
	if err != nil {
		logger.Error(c.Request.Context(), h.log, "ws access check failed", zap.Error(err))
		resp.ServerError(c)
		return
	}
	if !ok {
		resp.NotFound(c, "Order not found")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug("ws upgrade failed", zap.Error(err))
		return
	}

	sub := Subscription{Conn: conn, OrderID: orderID, UserID: actor.UserID}
	select {
	case h.register <- sub:
		go h.readLoop(sub)
	case <-h.done:
		conn.Close()
	}
}

// readLoop discards client frames and unregisters on close.
func (h *OrderHub) readLoop(sub Subscription) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
