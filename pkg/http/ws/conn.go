package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Conn wraps a WebSocket connection with serialized writes.
type Conn struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
	done   chan struct{}
	logger zerolog.Logger
}

// NewConn wraps a WebSocket connection.
func NewConn(conn *websocket.Conn, logger zerolog.Logger) *Conn {
	return &Conn{
		conn:   conn,
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Send writes a message. Safe for concurrent use.
func (c *Conn) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

// Close shuts down the connection.
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.done)
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	c.conn.Close()
}

// Done is closed once Close has run.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// KeepAlive pings the peer until the connection closes.
func (c *Conn) KeepAlive() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.mu.Unlock()
			if err != nil {
				c.logger.Debug().Err(err).Msg("ping failed")
				return
			}
		}
	}
}

// ReadPump receives messages and calls the handler until the connection
// fails. The returned error is the read error that ended the loop.
func (c *Conn) ReadPump(handler func(Message)) error {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			return err
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		handler(msg)
	}
}

var (
	ErrConnectionClosed = &Error{Code: "connection_closed", Message: "Connection is closed"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
