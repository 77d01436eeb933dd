// Package engine implements the Heroes Cards match rules.
//
// The engine is a pure, deterministic state machine: one Match value per
// session, mutated only through Apply and the host-driven timer entry
// points. It performs no I/O, owns no clocks, and holds no ambient state;
// the surrounding session host serializes access, schedules timers, and
// redacts events per player.
package engine

import "fmt"

// Action is the closed set of validated player actions. The host decodes
// untyped wire payloads into exactly one of these variants before invoking
// the engine, keeping the engine protocol-agnostic.
type Action interface{ isAction() }

// SubmitBet stores a wager amount during betting.
type SubmitBet struct {
	Seat   Seat
	Amount int
}

// ConfirmBet locks a seat's wager in.
type ConfirmBet struct{ Seat Seat }

// SelectCard picks a hand index during the starter duel or a battle.
type SelectCard struct {
	Seat      Seat
	CardIndex int
}

// BattleChoice is the winner's explicit +/- pick.
type BattleChoice struct {
	Seat Seat
	Op   Op
}

// ReadyNextRound signals a seat is done reviewing the round result.
type ReadyNextRound struct{ Seat Seat }

// RestartGame is the administrative full reset.
type RestartGame struct{ Seat Seat }

func (SubmitBet) isAction()      {}
func (ConfirmBet) isAction()     {}
func (SelectCard) isAction()     {}
func (BattleChoice) isAction()   {}
func (ReadyNextRound) isAction() {}
func (RestartGame) isAction()    {}

// Apply routes a validated action to the owning component. An error means
// the action was invalid for the current state; the match is unchanged and
// no events were produced. The host drops such actions silently per the
// ignore-and-wait policy.
func (m *Match) Apply(a Action) ([]Event, error) {
	switch act := a.(type) {
	case SubmitBet:
		if !act.Seat.Valid() {
			return nil, fmt.Errorf("submit_bet from invalid seat %d", act.Seat)
		}
		return m.submitBet(act.Seat, act.Amount)
	case ConfirmBet:
		if !act.Seat.Valid() {
			return nil, fmt.Errorf("confirm_bet from invalid seat %d", act.Seat)
		}
		return m.confirmBet(act.Seat)
	case SelectCard:
		if !act.Seat.Valid() {
			return nil, fmt.Errorf("select_card from invalid seat %d", act.Seat)
		}
		return m.selectCard(act.Seat, act.CardIndex)
	case BattleChoice:
		if !act.Seat.Valid() {
			return nil, fmt.Errorf("battle_choice from invalid seat %d", act.Seat)
		}
		return m.battleChoice(act.Seat, act.Op)
	case ReadyNextRound:
		if !act.Seat.Valid() {
			return nil, fmt.Errorf("ready_next_round from invalid seat %d", act.Seat)
		}
		return m.readyNextRound(act.Seat)
	case RestartGame:
		return m.Restart(), nil
	}
	return nil, fmt.Errorf("unhandled action %T", a)
}
