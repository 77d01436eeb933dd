package game

import (
	"github.com/herocards/server/engine"
)

// WireEvent is the JSON message pushed to clients.
type WireEvent struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// dispatch translates engine events into wire events, applies per-seat
// redaction, and manages the timers each transition arms or cancels.
// Assumes lock is held by caller.
func (s *MatchSession) dispatch(evts []engine.Event) {
	for _, e := range evts {
		switch ev := e.(type) {
		case engine.HandDealt:
			// Hands are private. The opponent never sees this event.
			hand := make([]int, len(ev.Hand))
			for i, c := range ev.Hand {
				hand[i] = int(c)
			}
			s.fireEventToSeat(ev.Seat, WireEvent{Type: "your_hand", Payload: map[string]interface{}{
				"hand":  hand,
				"round": s.Match.Round,
			}})

		case engine.BettingStarted:
			s.fireEvent(WireEvent{Type: "betting_started", Payload: map[string]interface{}{
				"timeLimit": ev.TimeLimit,
				"round":     ev.Round,
				"p1Credits": ev.P1Credits,
				"p2Credits": ev.P2Credits,
			}})
			s.armBetCountdown()

		case engine.BetUpdated:
			s.fireEvent(WireEvent{Type: "bet_update", Payload: map[string]interface{}{
				"player": int(ev.Seat),
				"amount": ev.Amount,
			}})

		case engine.BetConfirmed:
			s.fireEvent(WireEvent{Type: "bet_confirmed", Payload: map[string]interface{}{
				"player":     int(ev.Seat),
				"amount":     ev.Amount,
				"newCredits": ev.NewCredits,
				"auto":       ev.Auto,
			}})

		case engine.BettingFinished:
			s.betTimer.cancel()
			s.fireEvent(WireEvent{Type: "betting_finished", Payload: map[string]interface{}{
				"pot":         ev.Pot,
				"autoApplied": ev.AutoApplied,
			}})

		case engine.StarterPhase:
			s.fireEvent(WireEvent{Type: "starter_phase", Payload: map[string]interface{}{
				"currentPlayer": int(ev.CurrentPlayer),
			}})

		case engine.CardRevealed:
			s.fireEvent(WireEvent{Type: "card_revealed", Payload: map[string]interface{}{
				"player":    int(ev.Seat),
				"cardIndex": ev.CardIndex,
				"cardId":    int(ev.CardID),
			}})

		case engine.StarterBattleResult:
			s.fireEvent(WireEvent{Type: "starter_battle_result", Payload: map[string]interface{}{
				"p1Card":   int(ev.P1Card),
				"p2Card":   int(ev.P2Card),
				"p1Power":  ev.P1Power,
				"p2Power":  ev.P2Power,
				"winner":   int(ev.Winner),
				"diff":     ev.Diff,
				"nextTurn": int(ev.NextTurn),
			}})

		case engine.BattleResult:
			s.fireEvent(WireEvent{Type: "battle_result", Payload: map[string]interface{}{
				"actor":     int(ev.Actor),
				"selfCard":  int(ev.SelfCard),
				"oppCard":   int(ev.OppCard),
				"selfPower": ev.SelfPower,
				"oppPower":  ev.OppPower,
				"winner":    int(ev.Winner),
				"diff":      ev.Diff,
			}})

		case engine.BattleChoiceStarted:
			s.fireEvent(WireEvent{Type: "battle_choice", Payload: map[string]interface{}{
				"winner": int(ev.Winner),
				"diff":   ev.Diff,
			}})
			s.armChoiceTimeout()

		case engine.ScoreUpdated:
			s.choiceTimer.cancel()
			s.fireEvent(WireEvent{Type: "score_updated", Payload: map[string]interface{}{
				"player":    int(ev.Seat),
				"newScore":  ev.NewScore,
				"operation": ev.Op.String(),
				"diff":      ev.Diff,
				"enforced":  ev.Enforced,
			}})

		case engine.TurnChanged:
			s.fireEvent(WireEvent{Type: "turn_changed", Payload: map[string]interface{}{
				"currentPlayer": int(ev.CurrentPlayer),
				"continued":     ev.Continued,
			}})

		case engine.AbilityActivated:
			s.fireAbilityActivated(ev)
			s.armAbilityTimer()

		case engine.AbilityDeactivated:
			s.fireEvent(WireEvent{Type: "ability_deactivated"})

		case engine.RoundFinished:
			s.cancelPhaseTimers()
			s.fireEvent(WireEvent{Type: "round_finished", Payload: map[string]interface{}{
				"winner":    int(ev.Winner),
				"p1Score":   ev.P1Score,
				"p2Score":   ev.P2Score,
				"p1Credits": ev.P1Credits,
				"p2Credits": ev.P2Credits,
				"pot":       ev.Pot,
			}})
			s.armRoundBreak()

		case engine.GameOver:
			s.cancelAllTimers()
			s.fireEvent(WireEvent{Type: "game_over", Payload: map[string]interface{}{
				"winner":    int(ev.Winner),
				"reason":    ev.Reason.String(),
				"p1Score":   ev.P1Score,
				"p2Score":   ev.P2Score,
				"p1Credits": ev.P1Credits,
				"p2Credits": ev.P2Credits,
			}})
			s.finalizeMatch(ev)
		}
	}
}

// fireAbilityActivated sends the asymmetric ability payloads: the owner
// receives the opponent's hand and flags, the opponent only a notice that
// the ability is active.
// Assumes lock is held by caller.
func (s *MatchSession) fireAbilityActivated(ev engine.AbilityActivated) {
	opp := ev.Owner.Other()
	oppState := s.Match.Player(opp)

	hand := make([]int, len(oppState.Hand))
	for i, c := range oppState.Hand {
		hand[i] = int(c)
	}
	used := make([]bool, len(oppState.Used))
	copy(used, oppState.Used[:])
	blocked := make([]bool, len(oppState.Blocked))
	copy(blocked, oppState.Blocked[:])

	s.fireEventToSeat(ev.Owner, WireEvent{Type: "ability_activated", Payload: map[string]interface{}{
		"owner":           int(ev.Owner),
		"duration":        ev.Duration,
		"opponentHand":    hand,
		"opponentUsed":    used,
		"opponentBlocked": blocked,
	}})
	s.fireEventToSeat(opp, WireEvent{Type: "ability_activated", Payload: map[string]interface{}{
		"owner":    int(ev.Owner),
		"duration": ev.Duration,
	}})
}

// sessionInfoForSeat builds the private state snapshot sent on join and
// reconnect: everything public plus the seat's own hand. The opponent's
// hand is included only while the reveal ability is active for this seat.
// Assumes lock is held by caller.
func (s *MatchSession) sessionInfoForSeat(seat engine.Seat) WireEvent {
	m := &s.Match
	self := m.Player(seat)
	opp := m.Player(seat.Other())

	hand := make([]int, len(self.Hand))
	for i, c := range self.Hand {
		hand[i] = int(c)
	}

	payload := map[string]interface{}{
		"seat":        int(seat),
		"phase":       m.Phase.String(),
		"round":       m.Round,
		"currentTurn": int(m.CurrentTurn),
		"pot":         m.Pot,
		"targetScore": m.Rules.TargetScore,
		"yourHand":    hand,
		"yourUsed":    self.Used[:],
		"yourBlocked": self.Blocked[:],
		"yourScore":   self.Score,
		"yourCredits": self.Credits,
		"yourBet":     self.Bet,
		"oppScore":    opp.Score,
		"oppCredits":  opp.Credits,
		"oppUsed":     opp.Used[:],
		"oppBlocked":  opp.Blocked[:],
	}
	if m.Ability.Active {
		payload["abilityOwner"] = int(m.Ability.Owner)
		if m.Ability.Owner == seat {
			oppHand := make([]int, len(opp.Hand))
			for i, c := range opp.Hand {
				oppHand[i] = int(c)
			}
			payload["opponentHand"] = oppHand
		}
	}
	if m.Phase == engine.PhaseGameOver {
		payload["winner"] = int(m.Winner)
		payload["reason"] = m.Reason.String()
	}
	return WireEvent{Type: "session_info", Payload: payload}
}
