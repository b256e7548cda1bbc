// Package websocket pushes thread events to connected clients.
//
// The gateway subscribes to the thread-event broker and broadcasts
// avatar-changed and chat-list-refresh events to every open connection.
// Clients treat the events as cache-invalidation hints and re-fetch thread
// state over HTTP.
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"nimbus_chat_server/internal/mq"
	"nimbus_chat_server/pkg/constants"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one open websocket connection.
type Client struct {
	ClientId string
	Conn     *websocket.Conn
	Send     chan []byte

	closeOnce sync.Once
}

// Gateway tracks connections and fans thread events out to them.
type Gateway struct {
	// clients maps client id to *Client; a reconnect replaces the old entry
	clients sync.Map
	login   chan *Client
	logout  chan *Client
	stop    chan struct{}

	closeOnce sync.Once
}

// NewGateway creates the gateway. Start must be called before clients connect.
func NewGateway() *Gateway {
	return &Gateway{
		login:  make(chan *Client, constants.CHANNEL_SIZE),
		logout: make(chan *Client, constants.CHANNEL_SIZE),
		stop:   make(chan struct{}),
	}
}

// Start runs the client management loop until Close.
func (g *Gateway) Start() {
	for {
		select {
		case client := <-g.login:
			if old, loaded := g.clients.Swap(client.ClientId, client); loaded {
				// a reconnect supersedes the previous connection
				old.(*Client).closeSend()
			}
			zap.L().Debug("ws client connected", zap.String("clientId", client.ClientId))

		case client := <-g.logout:
			// only remove the entry if it is still this connection
			g.clients.CompareAndDelete(client.ClientId, client)
			client.closeSend()
			zap.L().Debug("ws client disconnected", zap.String("clientId", client.ClientId))

		case <-g.stop:
			return
		}
	}
}

// Notify implements mq.Subscriber: it broadcasts the event to every client.
func (g *Gateway) Notify(ev mq.ThreadEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		zap.L().Error("marshal thread event", zap.Error(err))
		return
	}
	g.clients.Range(func(_, value any) bool {
		client := value.(*Client)
		select {
		case client.Send <- payload:
		default:
			// slow consumer, drop the event rather than blocking fan-out
			zap.L().Warn("ws send buffer full, dropping event", zap.String("clientId", client.ClientId))
		}
		return true
	})
}

// HandleConnection upgrades the request and registers the client. The client
// id comes from the JWT middleware.
func (g *Gateway) HandleConnection(c *gin.Context) {
	clientId := c.GetString("client_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("ws upgrade", zap.Error(err))
		return
	}

	client := &Client{
		ClientId: clientId,
		Conn:     conn,
		Send:     make(chan []byte, constants.CHANNEL_SIZE),
	}
	g.login <- client

	go client.writeLoop()
	go client.readLoop(g)
}

// Close stops the management loop and disconnects every client. The login
// and logout channels stay open so a connection racing the shutdown is
// ignored instead of panicking.
func (g *Gateway) Close() {
	g.closeOnce.Do(func() {
		close(g.stop)
		g.clients.Range(func(key, value any) bool {
			client := value.(*Client)
			g.clients.Delete(key)
			client.closeSend()
			return true
		})
	})
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// writeLoop drains the send channel and keeps the connection alive with
// pings. It owns all writes to the connection.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			if !ok {
				_ = c.Conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
				return
			}
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readLoop discards client input; its job is detecting disconnects and
// answering pongs.
func (c *Client) readLoop(g *Gateway) {
	defer func() {
		g.logout <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(1 << 16)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
