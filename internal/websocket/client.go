package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	Identity string
}

func NewClient(hub *Hub, conn *websocket.Conn, identity string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		Identity: identity,
	}
}

// ReadPump only watches for the peer going away; clients never send data.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.Unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) WritePump() {
	defer c.conn.Close()
	for {
		message, ok := <-c.send
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
