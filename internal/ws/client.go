package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/herocards/server/engine"
	"github.com/herocards/server/internal/game"
	"github.com/herocards/server/internal/models"
)

// client is one websocket connection bound to a seat in a session.
type client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	user    *models.User
	session *game.MatchSession
	seat    engine.Seat
}

func newClient(h *Hub, conn *websocket.Conn, user *models.User, session *game.MatchSession, seat engine.Seat) *client {
	return &client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, 64),
		user:    user,
		session: session,
		seat:    seat,
	}
}

// enqueue hands a frame to the writer without blocking; a full buffer drops
// the frame rather than stalling the session under its lock.
func (c *client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		logrus.WithField("user", c.user.Username).Warn("send buffer full, dropping frame")
	}
}

// run starts the writer and blocks in the read loop until the connection
// drops or the context ends.
func (c *client) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writeLoop(ctx)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		var action models.GameAction
		if err := json.Unmarshal(data, &action); err != nil {
			logrus.WithError(err).WithField("user", c.user.Username).Debug("dropping malformed frame")
			continue
		}
		c.session.HandleAction(c.seat, action)
	}
}

func (c *client) writeLoop(ctx context.Context) {
	ping := time.NewTicker(15 * time.Second)
	defer func() {
		ping.Stop()
		_ = c.conn.Close(websocket.StatusNormalClosure, "bye")
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.send:
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		}
	}
}
