package engine

import "fmt"

// selectCard routes a card-index selection according to the current phase.
// Starter picks are blocked permanently (spent for turn determination);
// battle picks are marked used at resolution.
func (m *Match) selectCard(seat Seat, idx int) ([]Event, error) {
	switch m.Phase {
	case PhaseStarterP1:
		if seat != SeatOne || m.StarterIdx[0] != -1 {
			return nil, fmt.Errorf("starter_p1: seat %d cannot pick", seat)
		}
		p := m.player(SeatOne)
		if !p.Usable(idx) {
			return nil, fmt.Errorf("starter_p1: index %d not usable", idx)
		}
		m.StarterIdx[0] = int8(idx)
		p.Blocked[idx] = true
		m.Phase = PhaseStarterP2
		return []Event{
			CardRevealed{Seat: SeatOne, CardIndex: idx, CardID: p.Hand[idx]},
			StarterPhase{CurrentPlayer: SeatTwo},
		}, nil

	case PhaseStarterP2:
		if seat != SeatTwo || m.StarterIdx[1] != -1 {
			return nil, fmt.Errorf("starter_p2: seat %d cannot pick", seat)
		}
		p := m.player(SeatTwo)
		if !p.Usable(idx) {
			return nil, fmt.Errorf("starter_p2: index %d not usable", idx)
		}
		m.StarterIdx[1] = int8(idx)
		p.Blocked[idx] = true
		evts := []Event{CardRevealed{Seat: SeatTwo, CardIndex: idx, CardID: p.Hand[idx]}}
		return append(evts, m.resolveStarter()...), nil

	case PhaseChooseSelf:
		if seat != m.CurrentTurn {
			return nil, fmt.Errorf("choose_self: not seat %d's turn", seat)
		}
		p := m.player(seat)
		if !p.Usable(idx) {
			return nil, fmt.Errorf("choose_self: index %d not usable", idx)
		}
		m.SelectedSelf = int8(idx)
		m.Phase = PhaseChooseOpponent
		return []Event{CardRevealed{Seat: seat, CardIndex: idx, CardID: p.Hand[idx]}}, nil

	case PhaseChooseOpponent:
		if seat != m.CurrentTurn {
			return nil, fmt.Errorf("choose_opponent: not seat %d's turn", seat)
		}
		// Usability is checked against the opponent's flags, not the actor's.
		opp := m.CurrentTurn.Other()
		op := m.player(opp)
		if !op.Usable(idx) {
			return nil, fmt.Errorf("choose_opponent: index %d not usable", idx)
		}
		m.SelectedOpp = int8(idx)
		evts := []Event{CardRevealed{Seat: opp, CardIndex: idx, CardID: op.Hand[idx]}}
		return append(evts, m.resolveBattle()...), nil
	}
	return nil, fmt.Errorf("select_card in phase %s", m.Phase)
}

// resolveStarter compares the two blocked starter cards. The winner takes
// the first turn; a tie leaves it with player one and yields no score
// change. A winner with a positive diff enters the choice sub-phase.
func (m *Match) resolveStarter() []Event {
	i1, i2 := m.StarterIdx[0], m.StarterIdx[1]
	c1 := m.Players[0].Hand[i1]
	c2 := m.Players[1].Hand[i2]
	pw1 := m.CardPower(c1)
	pw2 := m.CardPower(c2)

	diff := abs(pw1 - pw2)
	winner := SeatNone
	if pw1 > pw2 {
		winner = SeatOne
	} else if pw2 > pw1 {
		winner = SeatTwo
	}

	m.BattleWinner = winner
	m.BattleDiff = diff
	m.AfterStarter = true
	if winner == SeatNone {
		m.CurrentTurn = SeatOne
	} else {
		m.CurrentTurn = winner
	}

	evts := []Event{StarterBattleResult{
		P1Card: c1, P2Card: c2,
		P1Power: pw1, P2Power: pw2,
		Winner: winner, Diff: diff,
		NextTurn: m.CurrentTurn,
	}}
	evts = append(evts, m.checkAbility(c1, SeatOne, c2, SeatTwo)...)

	if winner != SeatNone && diff > 0 {
		m.Phase = PhaseBattleChoice
		return append(evts, BattleChoiceStarted{Winner: winner, Diff: diff})
	}
	return append(evts, m.finishStarter()...)
}

// finishStarter leaves the starter sub-phase and opens the first regular
// battle for the turn holder.
func (m *Match) finishStarter() []Event {
	m.AfterStarter = false
	m.SelectedSelf = -1
	m.SelectedOpp = -1
	m.Phase = PhaseChooseSelf
	return []Event{TurnChanged{CurrentPlayer: m.CurrentTurn, Continued: true}}
}

// resolveBattle compares the selected pair, marks both indices used, and
// either enters the choice sub-phase (strict win) or advances the turn.
func (m *Match) resolveBattle() []Event {
	actor := m.CurrentTurn
	opp := actor.Other()
	ap := m.player(actor)
	op := m.player(opp)

	selfCard := ap.Hand[m.SelectedSelf]
	oppCard := op.Hand[m.SelectedOpp]
	selfPower := m.CardPower(selfCard)
	oppPower := m.CardPower(oppCard)

	diff := abs(selfPower - oppPower)
	win := selfPower > oppPower
	tie := selfPower == oppPower

	ap.Used[m.SelectedSelf] = true
	op.Used[m.SelectedOpp] = true

	switch {
	case win:
		m.BattleWinner = actor
	case tie:
		m.BattleWinner = SeatNone
	default:
		m.BattleWinner = opp
	}
	m.BattleDiff = diff
	m.BattleCount++

	evts := []Event{BattleResult{
		Actor:    actor,
		SelfCard: selfCard, OppCard: oppCard,
		SelfPower: selfPower, OppPower: oppPower,
		Winner: m.BattleWinner, Diff: diff,
	}}
	evts = append(evts, m.checkAbility(selfCard, actor, oppCard, opp)...)

	if win {
		m.Phase = PhaseBattleChoice
		return append(evts, BattleChoiceStarted{Winner: actor, Diff: diff})
	}
	return append(evts, m.finishBattle()...)
}

// finishBattle applies the turn-advancement policy and either ends the
// round or opens the next battle. After the first regular battle the holder
// continues on win or tie; from the second battle onward the turn strictly
// alternates.
func (m *Match) finishBattle() []Event {
	continued := false
	if m.BattleCount <= 1 {
		continued = m.BattleWinner == m.CurrentTurn || m.BattleWinner == SeatNone
		if !continued {
			m.CurrentTurn = m.CurrentTurn.Other()
		}
	} else {
		m.CurrentTurn = m.CurrentTurn.Other()
	}
	m.SelectedSelf = -1
	m.SelectedOpp = -1

	p1Spent := m.Players[0].SpentCards(m.StarterIdx[0])
	p2Spent := m.Players[1].SpentCards(m.StarterIdx[1])
	if p1Spent >= HandSize && p2Spent >= HandSize {
		return m.finishRound()
	}

	m.Phase = PhaseChooseSelf
	return []Event{TurnChanged{CurrentPlayer: m.CurrentTurn, Continued: continued}}
}

// battleChoice applies the winner's explicit +/- pick. The explicit choice
// always takes precedence over the optimal-distance default.
func (m *Match) battleChoice(seat Seat, op Op) ([]Event, error) {
	if m.Phase != PhaseBattleChoice {
		return nil, fmt.Errorf("battle_choice in phase %s", m.Phase)
	}
	if seat != m.BattleWinner {
		return nil, fmt.Errorf("battle_choice from seat %d, winner is %d", seat, m.BattleWinner)
	}
	if op != OpAdd && op != OpSub {
		return nil, fmt.Errorf("battle_choice with invalid operation")
	}
	return m.resolveChoice(op, false), nil
}

// ResolveChoiceTimeout applies the optimal-distance default operation for
// an unresponsive winner. Host-driven; the phase guard makes a late timer
// a no-op.
func (m *Match) ResolveChoiceTimeout() ([]Event, error) {
	if m.Phase != PhaseBattleChoice {
		return nil, fmt.Errorf("choice timeout in phase %s", m.Phase)
	}
	return m.resolveChoice(OpNone, true), nil
}

func (m *Match) resolveChoice(forced Op, enforced bool) []Event {
	p := m.player(m.BattleWinner)
	newScore, used := ApplyDelta(p.Score, m.BattleDiff, m.Rules.TargetScore, forced)
	p.Score = newScore

	evts := []Event{ScoreUpdated{
		Seat:     m.BattleWinner,
		NewScore: newScore,
		Op:       used,
		Diff:     m.BattleDiff,
		Enforced: enforced,
	}}
	if m.AfterStarter {
		return append(evts, m.finishStarter()...)
	}
	return append(evts, m.finishBattle()...)
}
