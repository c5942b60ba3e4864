package ws

import (
	"context"
	"sync"

	"safri360/internal/dispatch-service/core/domain/websocketdto"

	"github.com/gorilla/websocket"
)

const egressBuffer = 16

type Client struct {
	ctx    context.Context
	conn   *websocket.Conn
	uid    string
	egress chan websocketdto.Event
	once   sync.Once
}

func NewClient(ctx context.Context, conn *websocket.Conn, uid string) *Client {
	return &Client{
		ctx:    ctx,
		conn:   conn,
		uid:    uid,
		egress: make(chan websocketdto.Event, egressBuffer),
	}
}

// Send drops the event when the client's buffer is full rather than block a
// fan-out loop on one slow connection.
func (c *Client) Send(msg websocketdto.Event) {
	select {
	case c.egress <- msg:
	default:
	}
}

// ReadLoop drains inbound frames until the connection dies. Subscriptions
// are one-way; anything the client sends is discarded.
func (c *Client) ReadLoop() {
	c.conn.SetReadLimit(1024)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WriteLoop() {
	for {
		select {
		case <-c.ctx.Done():
			c.conn.Close()
			return
		case event, ok := <-c.egress:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// Close shuts the connection down. The egress channel is left open so a
// concurrent Send never panics; the write loop exits on the next failed
// write and pending events are dropped with the client.
func (c *Client) Close() {
	c.once.Do(func() {
		c.conn.Close()
	})
}
