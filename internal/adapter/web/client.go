package web

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

type client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	server *Server
}

// readPump discards inbound frames; it exists to process pongs and detect
// a closed connection.
func (c *client) readPump() {
	defer func() {
		c.server.remove(c)
		_ = c.conn.Close()
		c.server.wg.Done()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Debug("readout client read failed",
					slog.String("client_id", c.id), slog.Any("error", err))
			}
			return
		}
	}
}

// writePump owns all writes to the connection. It returns when the send
// queue is closed or a write fails.
func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
		c.server.remove(c)
		c.server.wg.Done()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.server.logger.Debug("readout client write failed",
					slog.String("client_id", c.id), slog.Any("error", err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
