// Package ws is the transport layer: it accepts authenticated websocket
// connections, pairs players into match sessions, and shuttles JSON
// messages between clients and their session. Game rules never live here.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/herocards/server/engine"
	"github.com/herocards/server/internal/auth"
	"github.com/herocards/server/internal/config"
	"github.com/herocards/server/internal/game"
	"github.com/herocards/server/internal/models"
)

// Hub owns all live sessions and the seat-to-connection routing.
type Hub struct {
	cfg          *config.Config
	allowOrigins map[string]bool

	mu            sync.Mutex
	sessions      map[uuid.UUID]*game.MatchSession
	sessionByUser map[uuid.UUID]uuid.UUID
	conns         map[uuid.UUID]map[engine.Seat]*client
	waiting       *game.MatchSession
}

// NewHub creates an empty hub.
func NewHub(cfg *config.Config) *Hub {
	allow := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allow[o] = true
	}
	return &Hub{
		cfg:           cfg,
		allowOrigins:  allow,
		sessions:      make(map[uuid.UUID]*game.MatchSession),
		sessionByUser: make(map[uuid.UUID]uuid.UUID),
		conns:         make(map[uuid.UUID]map[engine.Seat]*client),
	}
}

// Routes returns the hub's HTTP surface.
func (h *Hub) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/auth/guest", h.handleGuest)
	mux.HandleFunc("/auth/register", h.handleRegister)
	mux.HandleFunc("/auth/login", h.handleLogin)
	return mux
}

// originAllowed accepts same-origin requests and anything on the allowlist.
// An empty allowlist accepts everything (local development).
func (h *Hub) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.allowOrigins) == 0 {
		return true
	}
	return h.allowOrigins[origin]
}

// ServeWS authenticates the request, upgrades it, seats the player, and
// runs the read loop until the connection drops.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	if !h.originAllowed(r) {
		http.Error(w, "forbidden origin", http.StatusForbidden)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.Header.Get("Authorization")
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	user := &models.User{ID: claims.UserID(), Username: claims.Username, Guest: claims.Guest}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}

	session, seat, err := h.seatUser(user, conn)
	if err != nil {
		logrus.WithError(err).WithField("user", user.Username).Warn("could not seat player")
		conn.Close(websocket.StatusTryAgainLater, "no seat available")
		return
	}

	c := newClient(h, conn, user, session, seat)
	h.register(c)
	logrus.WithFields(logrus.Fields{"user": user.Username, "match": session.ID, "seat": seat}).Info("client connected")

	if session.Full() {
		session.Start()
	}

	c.run(r.Context())

	// Read loop exited: detach and notify the session.
	h.unregister(c)
	session.HandleDisconnect(seat)
	logrus.WithFields(logrus.Fields{"user": user.Username, "match": session.ID}).Info("client disconnected")
}

// seatUser returns the user's existing session (reconnect) or seats them in
// the open session, creating one if needed.
func (h *Hub) seatUser(user *models.User, conn *websocket.Conn) (*game.MatchSession, engine.Seat, error) {
	h.mu.Lock()
	var session *game.MatchSession
	if id, ok := h.sessionByUser[user.ID]; ok {
		session = h.sessions[id]
	}
	if session == nil {
		if h.waiting == nil {
			h.waiting = h.newSession()
		}
		session = h.waiting
	}
	h.mu.Unlock()

	seat, err := session.AddPlayer(&models.Player{ID: user.ID, Conn: conn, User: user})
	if err != nil {
		return nil, engine.SeatNone, err
	}

	h.mu.Lock()
	h.sessionByUser[user.ID] = session.ID
	if h.waiting == session && session.Full() {
		h.waiting = nil
	}
	h.mu.Unlock()
	return session, seat, nil
}

// newSession wires a fresh session's fan-out into the hub.
// Assumes h.mu is held by caller.
func (h *Hub) newSession() *game.MatchSession {
	s := game.NewMatchSession(h.cfg.Rules)
	id := s.ID
	s.BroadcastFn = func(ev game.WireEvent) { h.sendToSession(id, ev) }
	s.BroadcastToSeatFn = func(seat engine.Seat, ev game.WireEvent) { h.sendToSeat(id, seat, ev) }
	s.OnMatchEnd = h.onMatchEnd
	h.sessions[id] = s
	h.conns[id] = make(map[engine.Seat]*client)
	logrus.WithField("match", id).Info("session created")
	return s
}

func (h *Hub) onMatchEnd(matchID uuid.UUID, winner engine.Seat, reason engine.EndReason) {
	logrus.WithFields(logrus.Fields{
		"match":  matchID,
		"winner": winner,
		"reason": reason.String(),
	}).Info("match finished")
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if seats, ok := h.conns[c.session.ID]; ok {
		seats[c.seat] = c
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if seats, ok := h.conns[c.session.ID]; ok && seats[c.seat] == c {
		delete(seats, c.seat)
	}
}

func (h *Hub) sendToSession(matchID uuid.UUID, ev game.WireEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		logrus.WithError(err).Error("marshal wire event")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.conns[matchID] {
		c.enqueue(data)
	}
}

func (h *Hub) sendToSeat(matchID uuid.UUID, seat engine.Seat, ev game.WireEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		logrus.WithError(err).Error("marshal wire event")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.conns[matchID][seat]; ok {
		c.enqueue(data)
	}
}

// Shutdown closes every live session.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	sessions := make([]*game.MatchSession, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
