package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 5 * time.Second
	pongWait  = 60 * time.Second
	// must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
)

var ErrConnClosed = errors.New("connection closed")

type Conn struct {
	conn    *websocket.Conn
	id      uuid.UUID
	doneCtx context.Context
	cancel  context.CancelFunc
	writeMu sync.Mutex
	once    sync.Once
}

func NewConn(ctx context.Context, id uuid.UUID, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)

	return &Conn{
		conn:    conn,
		id:      id,
		doneCtx: ctx,
		cancel:  cancel,
	}
}

func (c *Conn) ID() uuid.UUID {
	return c.id
}

// Done is closed when the connection is closed or its parent context ends.
func (c *Conn) Done() <-chan struct{} {
	return c.doneCtx.Done()
}

func (c *Conn) Ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.doneCtx.Err(); err != nil {
		return ErrConnClosed
	}
	if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// Send writes v as a JSON text frame.
func (c *Conn) Send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.doneCtx.Err(); err != nil {
		return ErrConnClosed
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	return nil
}

// Listen reads frames until the peer goes away or the handler fails.
// A keepalive ping is sent every pingPeriod while listening.
func (c *Conn) Listen(handler func(data []byte) error) error {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.keepAlive()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.doneCtx.Err() != nil {
				return ErrConnClosed
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read failed: %w", err)
		}
		if err := handler(data); err != nil {
			return fmt.Errorf("handler failed: %w", err)
		}
	}
}

func (c *Conn) keepAlive() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.doneCtx.Done():
			return
		case <-ticker.C:
			if err := c.Ping(); err != nil {
				return
			}
		}
	}
}

// Close sends a close frame and releases the socket. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait),
		)
		c.writeMu.Unlock()

		c.cancel()
		err = c.conn.Close()
	})
	return err
}
