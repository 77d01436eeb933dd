package engine

import "fmt"

// NewMatch initializes a match with the given seed and rules. No cards are
// dealt until Start.
func NewMatch(seed uint64, rules Rules) Match {
	var m Match
	m.RNG = seed
	if m.RNG == 0 {
		m.RNG = 1 // xorshift can't start at 0
	}
	m.Rules = rules
	m.SelectedSelf = -1
	m.SelectedOpp = -1
	m.StarterIdx = [2]int8{-1, -1}
	for i := range m.Players {
		m.Players[i].Credits = rules.StartCredits
	}
	return m
}

// Start builds and shuffles a fresh deck and begins round one.
func (m *Match) Start() []Event {
	m.buildDeck()
	m.Round = 1
	return m.beginRound()
}

// beginRound checks deck capacity, resets per-round state, redraws the
// joker value, deals, and opens betting. The deck cursor persists across
// rounds; only game start and restart rebuild the deck.
func (m *Match) beginRound() []Event {
	if m.DeckPos+2*HandSize > DeckSize {
		return m.endGame(EndDeckEmpty)
	}
	m.resetRoundState()
	m.drawJokerValue()
	if err := m.dealHands(); err != nil {
		// Unreachable after the capacity check above.
		return m.endGame(EndDeckEmpty)
	}
	return []Event{
		HandDealt{Seat: SeatOne, Hand: m.Players[0].Hand},
		HandDealt{Seat: SeatTwo, Hand: m.Players[1].Hand},
		BettingStarted{
			TimeLimit: m.Rules.BetTimeSec,
			Round:     m.Round,
			P1Credits: m.Players[0].Credits,
			P2Credits: m.Players[1].Credits,
		},
	}
}

// resetRoundState clears everything that does not survive a round. Credits
// persist; scores do not.
func (m *Match) resetRoundState() {
	m.Phase = PhaseBetting
	m.BetTimeLeft = m.Rules.BetTimeSec
	m.CurrentTurn = SeatOne
	m.Pot = 0
	m.SelectedSelf = -1
	m.SelectedOpp = -1
	m.StarterIdx = [2]int8{-1, -1}
	m.BattleWinner = SeatNone
	m.BattleDiff = 0
	m.AfterStarter = false
	m.BattleCount = 0
	m.Ability = AbilityState{}

	for i := range m.Players {
		p := &m.Players[i]
		p.Score = 0
		p.Bet = 0
		p.BetConfirmed = false
		p.Ready = false
		p.Hand = [HandSize]Card{}
		p.Used = [HandSize]bool{}
		p.Blocked = [HandSize]bool{}
	}
}

// finishRound settles the pot and evaluates end conditions. The strictly
// closer score takes the whole pot; an exact tie splits it with floor
// division, remainder to player two.
func (m *Match) finishRound() []Event {
	m.Phase = PhaseRoundFinished

	p1 := &m.Players[0]
	p2 := &m.Players[1]
	d1 := abs(p1.Score - m.Rules.TargetScore)
	d2 := abs(p2.Score - m.Rules.TargetScore)

	winner := SeatNone
	switch {
	case d1 < d2:
		winner = SeatOne
		p1.Credits += m.Pot
	case d2 < d1:
		winner = SeatTwo
		p2.Credits += m.Pot
	default:
		half := m.Pot / 2
		p1.Credits += half
		p2.Credits += m.Pot - half
	}

	evts := []Event{RoundFinished{
		Winner:  winner,
		P1Score: p1.Score, P2Score: p2.Score,
		P1Credits: p1.Credits, P2Credits: p2.Credits,
		Pot: m.Pot,
	}}

	if reason := m.gameEndReason(); reason != EndNone {
		evts = append(evts, m.endGame(reason)...)
	}
	return evts
}

// gameEndReason evaluates the game-over conditions in priority order.
func (m *Match) gameEndReason() EndReason {
	p1, p2 := &m.Players[0], &m.Players[1]
	switch {
	case p1.Credits <= 0 || p2.Credits <= 0:
		return EndBusted
	case p1.Credits >= m.Rules.CreditCeiling || p2.Credits >= m.Rules.CreditCeiling:
		return EndRealWinner
	case m.Rules.MaxRounds > 0 && m.Round >= m.Rules.MaxRounds:
		return EndRoundLimit
	case m.DeckPos+2*HandSize > DeckSize:
		return EndDeckEmpty
	}
	return EndNone
}

// endGame finalizes the match and determines the winner per reason.
func (m *Match) endGame(reason EndReason) []Event {
	m.Phase = PhaseGameOver
	m.Reason = reason

	p1, p2 := &m.Players[0], &m.Players[1]
	switch reason {
	case EndBusted:
		if p1.Credits > p2.Credits {
			m.Winner = SeatOne
		} else {
			m.Winner = SeatTwo
		}
	case EndRealWinner:
		if p1.Credits >= m.Rules.CreditCeiling {
			m.Winner = SeatOne
		} else {
			m.Winner = SeatTwo
		}
	default: // round_limit, deck_empty: score proximity, ties allowed.
		d1 := abs(p1.Score - m.Rules.TargetScore)
		d2 := abs(p2.Score - m.Rules.TargetScore)
		switch {
		case d1 < d2:
			m.Winner = SeatOne
		case d2 < d1:
			m.Winner = SeatTwo
		default:
			m.Winner = SeatNone
		}
	}

	return []Event{GameOver{
		Winner: m.Winner, Reason: reason,
		P1Score: p1.Score, P2Score: p2.Score,
		P1Credits: p1.Credits, P2Credits: p2.Credits,
	}}
}

// StartNextRound advances to the next round. Host-driven after the round
// break, and player-driven when both seats are ready; the phase guard makes
// the transition idempotent whichever path fires first.
func (m *Match) StartNextRound() ([]Event, error) {
	if m.Phase != PhaseRoundFinished {
		return nil, fmt.Errorf("next round in phase %s", m.Phase)
	}
	m.Round++
	return m.beginRound(), nil
}

// readyNextRound marks a seat ready; when both are, the next round starts
// without waiting for the round break.
func (m *Match) readyNextRound(seat Seat) ([]Event, error) {
	if m.Phase != PhaseRoundFinished {
		return nil, fmt.Errorf("ready_next_round in phase %s", m.Phase)
	}
	p := m.player(seat)
	if p.Ready {
		return nil, fmt.Errorf("seat %d already ready", seat)
	}
	p.Ready = true
	if m.Players[0].Ready && m.Players[1].Ready {
		return m.StartNextRound()
	}
	return nil, nil
}

// Restart performs the administrative reset: full player state including
// credits, fresh deck, round one. Accepted in any phase.
func (m *Match) Restart() []Event {
	for i := range m.Players {
		m.Players[i] = PlayerState{Credits: m.Rules.StartCredits}
	}
	m.Pot = 0
	m.Reason = EndNone
	m.Winner = SeatNone
	m.buildDeck()
	m.Round = 1
	return m.beginRound()
}
