package network

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	readLimit  = 1 << 20 // 1MB
)

var (
	ErrConnClosed     = errors.New("network: connection closed")
	ErrSendBufferFull = errors.New("network: send buffer full")
)

// wsConn is the lobby's handle on one websocket. Send only enqueues; a
// dedicated writer goroutine owns all writes to the socket.
type wsConn struct {
	id   string
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newWSConn(id string, ws *websocket.Conn, buffer int) *wsConn {
	return &wsConn{
		id:   id,
		ws:   ws,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// Send queues b for delivery. A client that cannot keep up is closed rather
// than allowed to stall the lobby.
func (c *wsConn) Send(b []byte) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	select {
	case c.send <- b:
		return nil
	default:
		c.Close()
		return ErrSendBufferFull
	}
}

func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

// writePump drains the send queue and keeps the socket alive with pings.
func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.Close()

	for {
		select {
		case <-c.done:
			return
		case b := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
