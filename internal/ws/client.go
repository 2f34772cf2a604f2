package ws

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// Sender is anything a game can push messages to.
type Sender interface {
	WriteJSON(v interface{}) error
}

// Client wraps a connection so the read loop and game broadcasts can write
// to it from different goroutines.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Close sends a close frame with reason before closing the connection.
func (c *Client) Close(reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
		time.Now().Add(time.Second),
	)
	return c.conn.Close()
}
