package engine

import "testing"

func mustApply(t *testing.T, m *Match, a Action) []Event {
	t.Helper()
	evts, err := m.Apply(a)
	if err != nil {
		t.Fatalf("apply %T: %v", a, err)
	}
	return evts
}

func hasEvent[E Event](evts []Event) (E, bool) {
	for _, e := range evts {
		if v, ok := e.(E); ok {
			return v, true
		}
	}
	var zero E
	return zero, false
}

func bettingMatch() *Match {
	m := NewMatch(11, DefaultRules())
	m.Start()
	return &m
}

func TestSubmitBetClampedToCredits(t *testing.T) {
	m := bettingMatch()
	m.Players[0].Credits = 80

	evts := mustApply(t, m, SubmitBet{Seat: SeatOne, Amount: 200})
	if m.Players[0].Bet != 80 {
		t.Errorf("bet = %d, want clamp to 80", m.Players[0].Bet)
	}
	if upd, ok := hasEvent[BetUpdated](evts); !ok || upd.Amount != 80 {
		t.Errorf("expected BetUpdated with clamped amount 80, got %+v", evts)
	}
	if m.Players[0].Credits != 80 || m.Pot != 0 {
		t.Error("submit must not touch credits or pot")
	}
}

func TestSubmitBetNegativeClampedToZero(t *testing.T) {
	m := bettingMatch()
	mustApply(t, m, SubmitBet{Seat: SeatTwo, Amount: -5})
	if m.Players[1].Bet != 0 {
		t.Errorf("bet = %d, want 0", m.Players[1].Bet)
	}
}

func TestConfirmDeductsAndPots(t *testing.T) {
	m := bettingMatch()
	mustApply(t, m, SubmitBet{Seat: SeatOne, Amount: 30})
	mustApply(t, m, ConfirmBet{Seat: SeatOne})

	if m.Players[0].Credits != 70 {
		t.Errorf("credits = %d, want 70", m.Players[0].Credits)
	}
	if m.Pot != 30 {
		t.Errorf("pot = %d, want 30", m.Pot)
	}
	if m.Phase != PhaseBetting {
		t.Errorf("one confirmation must not close betting, phase = %s", m.Phase)
	}
}

func TestDoubleConfirmRejected(t *testing.T) {
	m := bettingMatch()
	mustApply(t, m, SubmitBet{Seat: SeatOne, Amount: 10})
	mustApply(t, m, ConfirmBet{Seat: SeatOne})

	if _, err := m.Apply(ConfirmBet{Seat: SeatOne}); err == nil {
		t.Fatal("second confirmation should be rejected")
	}
	if m.Pot != 10 || m.Players[0].Credits != 90 {
		t.Errorf("rejected confirm changed state: pot %d credits %d", m.Pot, m.Players[0].Credits)
	}
}

func TestBothConfirmedClosesImmediately(t *testing.T) {
	m := bettingMatch()
	mustApply(t, m, SubmitBet{Seat: SeatOne, Amount: 20})
	mustApply(t, m, SubmitBet{Seat: SeatTwo, Amount: 15})
	mustApply(t, m, ConfirmBet{Seat: SeatOne})
	evts := mustApply(t, m, ConfirmBet{Seat: SeatTwo})

	if m.Phase != PhaseStarterP1 {
		t.Fatalf("phase = %s, want %s", m.Phase, PhaseStarterP1)
	}
	fin, ok := hasEvent[BettingFinished](evts)
	if !ok {
		t.Fatal("expected BettingFinished")
	}
	if fin.Pot != 35 || fin.AutoApplied {
		t.Errorf("BettingFinished = %+v, want pot 35 without auto", fin)
	}
	if _, ok := hasEvent[StarterPhase](evts); !ok {
		t.Error("expected StarterPhase after betting closes")
	}
}

func TestFinalizeAutoAppliesDefaultBet(t *testing.T) {
	m := bettingMatch()
	mustApply(t, m, SubmitBet{Seat: SeatOne, Amount: 10})
	mustApply(t, m, ConfirmBet{Seat: SeatOne})

	evts, err := m.FinalizeBetting()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if m.Players[1].Bet != DefaultRules().DefaultBet || m.Players[1].Credits != 95 {
		t.Errorf("auto bet %d credits %d, want default 5 deducted", m.Players[1].Bet, m.Players[1].Credits)
	}
	if m.Pot != 15 {
		t.Errorf("pot = %d, want 15", m.Pot)
	}
	conf, ok := hasEvent[BetConfirmed](evts)
	if !ok || !conf.Auto || conf.Seat != SeatTwo {
		t.Errorf("expected auto BetConfirmed for seat two, got %+v", evts)
	}
	if m.Phase != PhaseStarterP1 {
		t.Errorf("phase = %s after finalize", m.Phase)
	}
}

func TestFinalizeCapsDefaultAtCredits(t *testing.T) {
	m := bettingMatch()
	m.Players[0].Credits = 2

	if _, err := m.FinalizeBetting(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if m.Players[0].Bet != 2 || m.Players[0].Credits != 0 {
		t.Errorf("bet %d credits %d, want 2 and 0", m.Players[0].Bet, m.Players[0].Credits)
	}
}

func TestFinalizeAfterCloseIsNoop(t *testing.T) {
	m := bettingMatch()
	mustApply(t, m, ConfirmBet{Seat: SeatOne})
	mustApply(t, m, ConfirmBet{Seat: SeatTwo})

	pot := m.Pot
	if _, err := m.FinalizeBetting(); err == nil {
		t.Fatal("finalize after close must error")
	}
	if m.Pot != pot {
		t.Error("late finalize changed the pot")
	}
}

func TestTickBettingCountdown(t *testing.T) {
	m := bettingMatch()
	for i := 0; i < DefaultRules().BetTimeSec-1; i++ {
		left, expired, err := m.TickBetting()
		if err != nil || expired {
			t.Fatalf("tick %d: left=%d expired=%v err=%v", i, left, expired, err)
		}
	}
	left, expired, err := m.TickBetting()
	if err != nil || !expired || left != 0 {
		t.Fatalf("final tick: left=%d expired=%v err=%v", left, expired, err)
	}
}

func TestSubmitBetOutsideBettingRejected(t *testing.T) {
	m := bettingMatch()
	mustApply(t, m, ConfirmBet{Seat: SeatOne})
	mustApply(t, m, ConfirmBet{Seat: SeatTwo})

	if _, err := m.Apply(SubmitBet{Seat: SeatOne, Amount: 10}); err == nil {
		t.Fatal("submit after betting closed should be rejected")
	}
}
