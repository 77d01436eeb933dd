package engine

import "fmt"

// submitBet stores a clamped, unconfirmed wager. Credits are not touched
// until confirmation.
func (m *Match) submitBet(seat Seat, amount int) ([]Event, error) {
	if m.Phase != PhaseBetting {
		return nil, fmt.Errorf("submit_bet in phase %s", m.Phase)
	}
	p := m.player(seat)
	if amount < 0 {
		amount = 0
	}
	if amount > p.Credits {
		amount = p.Credits
	}
	p.Bet = amount
	return []Event{BetUpdated{Seat: seat, Amount: amount}}, nil
}

// confirmBet deducts the stored wager and adds it to the pot, once per seat
// per round. When both seats are confirmed betting closes immediately.
func (m *Match) confirmBet(seat Seat) ([]Event, error) {
	if m.Phase != PhaseBetting {
		return nil, fmt.Errorf("confirm_bet in phase %s", m.Phase)
	}
	p := m.player(seat)
	if p.BetConfirmed {
		return nil, fmt.Errorf("seat %d already confirmed", seat)
	}
	p.Credits -= p.Bet
	p.BetConfirmed = true
	m.Pot += p.Bet

	evts := []Event{BetConfirmed{Seat: seat, Amount: p.Bet, NewCredits: p.Credits}}
	if m.Players[0].BetConfirmed && m.Players[1].BetConfirmed {
		evts = append(evts, m.closeBetting(false)...)
	}
	return evts, nil
}

// TickBetting decrements the countdown by one second. The host drives the
// clock; expired signals that FinalizeBetting is due.
func (m *Match) TickBetting() (secondsLeft int, expired bool, err error) {
	if m.Phase != PhaseBetting {
		return 0, false, fmt.Errorf("bet tick in phase %s", m.Phase)
	}
	m.BetTimeLeft--
	return m.BetTimeLeft, m.BetTimeLeft <= 0, nil
}

// FinalizeBetting force-confirms any still-unconfirmed seat at the default
// minimum bet, capped by available credits, then closes betting. Called by
// the host on countdown expiry; the phase guard makes a late timer a no-op,
// and per-seat BetConfirmed guards prevent double-potting.
func (m *Match) FinalizeBetting() ([]Event, error) {
	if m.Phase != PhaseBetting {
		return nil, fmt.Errorf("finalize betting in phase %s", m.Phase)
	}
	var evts []Event
	autoApplied := false
	for i := range m.Players {
		p := &m.Players[i]
		if p.BetConfirmed {
			continue
		}
		bet := m.Rules.DefaultBet
		if bet > p.Credits {
			bet = p.Credits
		}
		p.Bet = bet
		p.Credits -= bet
		p.BetConfirmed = true
		m.Pot += bet
		autoApplied = true
		evts = append(evts, BetConfirmed{Seat: Seat(i + 1), Amount: bet, NewCredits: p.Credits, Auto: true})
	}
	return append(evts, m.closeBetting(autoApplied)...), nil
}

// closeBetting transitions to the starter duel.
func (m *Match) closeBetting(autoApplied bool) []Event {
	m.Phase = PhaseStarterP1
	return []Event{
		BettingFinished{Pot: m.Pot, AutoApplied: autoApplied},
		StarterPhase{CurrentPlayer: SeatOne},
	}
}
