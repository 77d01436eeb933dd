// Package models holds the wire-facing data types shared between the
// transport, auth, and session layers.
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/herocards/server/engine"
)

// User is an authenticated account. Guests get a random ID and no password.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Guest    bool      `json:"guest"`
}

// Player binds a user to a seat in one match session.
type Player struct {
	ID        uuid.UUID
	Seat      engine.Seat
	Conn      *websocket.Conn
	Connected bool
	User      *User
}

// GameAction is the untyped inbound wire message. The session layer decodes
// it into a validated engine action before anything touches match state.
type GameAction struct {
	ActionType string                 `json:"action"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}
