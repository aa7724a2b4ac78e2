package websocket

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendQueueSize  = 16
	maxMessageSize = 512
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 5 / 6
	writeWait      = 10 * time.Second
)

// Client is one websocket connection of a user. Clients only receive; any
// inbound message is read and discarded to keep the pong handler running.
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

// NewUpgrader accepts upgrades from allowedOrigin, or from any origin when it
// is "*" or empty.
func NewUpgrader(allowedOrigin string) *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" || allowedOrigin == "*" {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowedOrigin
		},
	}
}

func ServeWS(w http.ResponseWriter, r *http.Request, upgrader *websocket.Upgrader, hub *Hub, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket: upgrade for %s failed: %v", userID, err)
		return
	}
	client := &Client{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
	hub.Register(userID, client)
	log.Printf("websocket: %s connected (%d open)", userID, hub.Connections(userID))
	go client.writePump(hub, userID)
	client.readPump(hub, userID)
}

func (c *Client) close(hub *Hub, userID string) {
	c.closeOnce.Do(func() {
		hub.Unregister(userID, c)
		_ = c.conn.Close()
	})
}

func (c *Client) readPump(hub *Hub, userID string) {
	defer c.close(hub, userID)
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump(hub *Hub, userID string) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close(hub, userID)
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
