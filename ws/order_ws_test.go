package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ahara/entity"
	"ahara/pkg/events"
	"ahara/services"
	"ahara/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeViewer struct{ allowed map[uint]uint } // orderID -> userID

func (f fakeViewer) CanView(_ context.Context, a services.Actor, orderID uint) (bool, error) {
	return f.allowed[orderID] == a.UserID, nil
}

func newHubServer(t *testing.T, hub *OrderHub, userID uint) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/orders/:id", func(c *gin.Context) {
		c.Set(utils.CtxUserID, userID)
		c.Set(utils.CtxRole, entity.RoleCustomer)
		c.Next()
	}, hub.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestOrderHubDeliversOnlyToSubscribersOfThatOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewOrderHub(fakeViewer{allowed: map[uint]uint{7: 1}}, zap.NewNop())
	go hub.Run(ctx)
	srv := newHubServer(t, hub, 1)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/orders/7"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers(7) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(ctx, events.Event{Type: events.OrderStatusChanged, OrderID: 8, Status: "confirmed"}))
	require.NoError(t, hub.Publish(ctx, events.Event{Type: events.OrderStatusChanged, OrderID: 7, Status: "preparing"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got events.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, uint(7), got.OrderID)
	assert.Equal(t, "preparing", got.Status)
}

func TestOrderHubRejectsForeignOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewOrderHub(fakeViewer{allowed: map[uint]uint{7: 2}}, zap.NewNop())
	go hub.Run(ctx)
	srv := newHubServer(t, hub, 1)

	_, res, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/orders/7"), nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 404, res.StatusCode)
	assert.Equal(t, 0, hub.Subscribers(7))
}

func TestOrderHubUnregistersOnClientClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewOrderHub(fakeViewer{allowed: map[uint]uint{3: 1}}, zap.NewNop())
	go hub.Run(ctx)
	srv := newHubServer(t, hub, 1)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/orders/3"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Subscribers(3) == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers(3) == 0 }, 2*time.Second, 10*time.Millisecond)
}
