// Package game hosts one engine.Match per session: it serializes action
// dispatch, owns the timers, redacts events per seat, and feeds the action
// historian and result store. The engine itself stays pure; everything with
// a clock or a socket lives here.
package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/herocards/server/engine"
	"github.com/herocards/server/internal/cache"
	"github.com/herocards/server/internal/database"
	"github.com/herocards/server/internal/models"
)

// OnMatchEndFunc runs once when a match reaches game over.
type OnMatchEndFunc func(matchID uuid.UUID, winner engine.Seat, reason engine.EndReason)

// MatchSession hosts a single two-player match. All state is guarded by Mu;
// timer callbacks and both players' connections funnel through it.
type MatchSession struct {
	ID uuid.UUID

	Match   engine.Match
	Players [2]*models.Player // indexed by seat-1; nil until joined

	// TimeUnit scales every timer duration. One second in production;
	// tests shrink it.
	TimeUnit time.Duration

	Mu sync.Mutex

	BroadcastFn       func(ev WireEvent)
	BroadcastToSeatFn func(seat engine.Seat, ev WireEvent)
	OnMatchEnd        OnMatchEndFunc

	betTimer     timerSlot
	choiceTimer  timerSlot
	abilityTimer timerSlot
	breakTimer   timerSlot

	started     bool
	actionIndex int
	log         *logrus.Entry
}

// NewMatchSession creates an idle session. Start deals the first round once
// both seats are filled.
func NewMatchSession(rules engine.Rules) *MatchSession {
	id := uuid.New()
	return &MatchSession{
		ID:       id,
		Match:    engine.NewMatch(uint64(time.Now().UnixNano()), rules),
		TimeUnit: time.Second,
		log:      logrus.WithField("match", id),
	}
}

// AddPlayer seats a new player or reattaches a returning one. Returns the
// assigned seat.
func (s *MatchSession) AddPlayer(p *models.Player) (engine.Seat, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	// Same user returning counts as a reconnect, not a new seat.
	for i, existing := range s.Players {
		if existing != nil && existing.ID == p.ID {
			seat := engine.Seat(i + 1)
			s.reattachLocked(seat, p.Conn, p.User)
			return seat, nil
		}
	}

	for i, existing := range s.Players {
		if existing == nil {
			seat := engine.Seat(i + 1)
			p.Seat = seat
			p.Connected = true
			s.Players[i] = p
			s.log.WithFields(logrus.Fields{"seat": seat, "user": p.User.Username}).Info("player joined")
			s.logAction(seat, "player_join", map[string]interface{}{"username": p.User.Username})
			s.fireEventToSeat(seat, s.sessionInfoForSeat(seat))
			s.fireEvent(WireEvent{Type: "player_connection", Payload: map[string]interface{}{
				"player":    int(seat),
				"connected": true,
			}})
			return seat, nil
		}
	}
	if p.Conn != nil {
		p.Conn.Close(websocket.StatusPolicyViolation, "match is full")
	}
	return engine.SeatNone, fmt.Errorf("match %s is full", s.ID)
}

// Full reports whether both seats are taken.
func (s *MatchSession) Full() bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.Players[0] != nil && s.Players[1] != nil
}

// Start deals round one and opens betting. A second call is a no-op.
func (s *MatchSession) Start() {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.started {
		return
	}
	if s.Players[0] == nil || s.Players[1] == nil {
		s.log.Warn("start requested before both seats filled")
		return
	}
	s.started = true
	s.log.Info("match started")
	s.logAction(0, "match_start", nil)
	s.dispatch(s.Match.Start())
}

// HandleAction decodes and applies one inbound wire action. Invalid
// actions are dropped without events per the ignore-and-wait policy.
func (s *MatchSession) HandleAction(seat engine.Seat, action models.GameAction) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if !s.started {
		s.log.WithField("action", action.ActionType).Debug("action before start ignored")
		return
	}
	p := s.playerAtLocked(seat)
	if p == nil || !p.Connected {
		s.log.WithFields(logrus.Fields{"seat": seat, "action": action.ActionType}).Debug("action from vacant or disconnected seat ignored")
		return
	}

	act, err := decodeAction(seat, action)
	if err != nil {
		s.log.WithError(err).WithField("action", action.ActionType).Debug("undecodable action ignored")
		return
	}
	evts, err := s.Match.Apply(act)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"seat": seat, "action": action.ActionType}).Debug("rejected action")
		return
	}
	s.logAction(seat, action.ActionType, action.Payload)
	s.dispatch(evts)
}

// decodeAction maps the untyped wire payload onto the engine's closed
// action set. JSON numbers arrive as float64.
func decodeAction(seat engine.Seat, action models.GameAction) (engine.Action, error) {
	switch action.ActionType {
	case "submit_bet":
		amount, ok := action.Payload["amount"].(float64)
		if !ok {
			return nil, fmt.Errorf("submit_bet without numeric amount")
		}
		return engine.SubmitBet{Seat: seat, Amount: int(amount)}, nil
	case "confirm_bet":
		return engine.ConfirmBet{Seat: seat}, nil
	case "select_card":
		idx, ok := action.Payload["cardIndex"].(float64)
		if !ok {
			return nil, fmt.Errorf("select_card without numeric cardIndex")
		}
		return engine.SelectCard{Seat: seat, CardIndex: int(idx)}, nil
	case "battle_choice":
		raw, _ := action.Payload["operation"].(string)
		op, ok := engine.ParseOp(raw)
		if !ok {
			return nil, fmt.Errorf("battle_choice with operation %q", raw)
		}
		return engine.BattleChoice{Seat: seat, Op: op}, nil
	case "ready_next_round":
		return engine.ReadyNextRound{Seat: seat}, nil
	case "restart_game":
		return engine.RestartGame{Seat: seat}, nil
	}
	return nil, fmt.Errorf("unknown action type %q", action.ActionType)
}

// HandleDisconnect marks a seat as gone. The match keeps running; timers
// auto-resolve anything the absent player owed.
func (s *MatchSession) HandleDisconnect(seat engine.Seat) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	p := s.playerAtLocked(seat)
	if p == nil || !p.Connected {
		return
	}
	p.Connected = false
	p.Conn = nil
	s.log.WithField("seat", seat).Info("player disconnected")
	s.logAction(seat, "player_disconnect", nil)
	s.fireEvent(WireEvent{Type: "player_connection", Payload: map[string]interface{}{
		"player":    int(seat),
		"connected": false,
	}})
}

// HandleReconnect reattaches a connection and replays the seat's private
// state snapshot.
func (s *MatchSession) HandleReconnect(seat engine.Seat, conn *websocket.Conn) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	p := s.playerAtLocked(seat)
	if p == nil {
		s.log.WithField("seat", seat).Warn("reconnect for vacant seat")
		if conn != nil {
			conn.Close(websocket.StatusPolicyViolation, "no such seat")
		}
		return
	}
	s.reattachLocked(seat, conn, p.User)
}

// reattachLocked is the shared reconnect path.
// Assumes lock is held by caller.
func (s *MatchSession) reattachLocked(seat engine.Seat, conn *websocket.Conn, user *models.User) {
	p := s.playerAtLocked(seat)
	p.Conn = conn
	p.Connected = true
	if user != nil {
		p.User = user
	}
	s.log.WithField("seat", seat).Info("player reconnected")
	s.logAction(seat, "player_reconnect", nil)
	s.fireEventToSeat(seat, s.sessionInfoForSeat(seat))
	s.fireEvent(WireEvent{Type: "player_connection", Payload: map[string]interface{}{
		"player":    int(seat),
		"connected": true,
	}})
}

// Close tears the session down, stopping all timers.
func (s *MatchSession) Close() {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.cancelAllTimers()
}

func (s *MatchSession) playerAtLocked(seat engine.Seat) *models.Player {
	if !seat.Valid() {
		return nil
	}
	return s.Players[seat-1]
}

// fireEvent broadcasts to both seats.
// Assumes lock is held by caller.
func (s *MatchSession) fireEvent(ev WireEvent) {
	if s.BroadcastFn != nil {
		s.BroadcastFn(ev)
	}
}

// fireEventToSeat sends a private event to one seat.
// Assumes lock is held by caller.
func (s *MatchSession) fireEventToSeat(seat engine.Seat, ev WireEvent) {
	if s.BroadcastToSeatFn != nil {
		s.BroadcastToSeatFn(seat, ev)
	}
}

// finalizeMatch records the outcome and notifies the owner. Persistence is
// asynchronous and best-effort.
// Assumes lock is held by caller.
func (s *MatchSession) finalizeMatch(ev engine.GameOver) {
	s.logAction(0, "game_over", map[string]interface{}{
		"winner": int(ev.Winner),
		"reason": ev.Reason.String(),
	})

	result := database.MatchResult{
		MatchID:    s.ID,
		WinnerSeat: int(ev.Winner),
		EndReason:  ev.Reason.String(),
		P1Score:    ev.P1Score,
		P2Score:    ev.P2Score,
		P1Credits:  ev.P1Credits,
		P2Credits:  ev.P2Credits,
		Rounds:     s.Match.Round,
	}
	if s.Players[0] != nil {
		result.P1UserID = s.Players[0].ID
	}
	if s.Players[1] != nil {
		result.P2UserID = s.Players[1].ID
	}
	if database.DB != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := database.StoreMatchResult(ctx, result); err != nil {
				logrus.WithError(err).WithField("match", s.ID).Error("failed storing match result")
			}
		}()
	}

	if s.OnMatchEnd != nil {
		s.OnMatchEnd(s.ID, ev.Winner, ev.Reason)
	}
}

// logAction queues one record for the historian. Seat 0 marks engine- or
// timer-driven entries.
// Assumes lock is held by caller.
func (s *MatchSession) logAction(seat engine.Seat, actionType string, payload map[string]interface{}) {
	s.actionIndex++
	rec := cache.MatchActionRecord{
		MatchID:     s.ID,
		ActionIndex: s.actionIndex,
		ActorSeat:   int(seat),
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	go func() {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishMatchAction(ctx, rec); err != nil {
			logrus.WithError(err).WithField("match", rec.MatchID).Warnf("failed publishing action %d (%s)", rec.ActionIndex, rec.ActionType)
		}
	}()
}
