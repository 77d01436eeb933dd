package engine

import "testing"

// settledMatch rigs scores, credits, and pot and settles the round.
func settledMatch(p1Score, p2Score, p1Credits, p2Credits, pot int) (*Match, []Event) {
	m := NewMatch(5, DefaultRules())
	m.Start()
	m.Phase = PhaseChooseSelf
	m.Players[0].Score = p1Score
	m.Players[1].Score = p2Score
	m.Players[0].Credits = p1Credits
	m.Players[1].Credits = p2Credits
	m.Pot = pot
	evts := m.finishRound()
	return &m, evts
}

func TestSettlementCloserScoreTakesPot(t *testing.T) {
	m, evts := settledMatch(30, 36, 60, 60, 40)

	rf, ok := hasEvent[RoundFinished](evts)
	if !ok {
		t.Fatal("expected RoundFinished")
	}
	if rf.Winner != SeatTwo {
		t.Errorf("winner = %d, want seat two at distance 2 vs 4", rf.Winner)
	}
	if m.Players[0].Credits != 60 || m.Players[1].Credits != 100 {
		t.Errorf("credits = %d/%d, want 60/100", m.Players[0].Credits, m.Players[1].Credits)
	}
}

func TestSettlementTieSplitsPot(t *testing.T) {
	m, evts := settledMatch(30, 38, 60, 60, 41)

	rf, _ := hasEvent[RoundFinished](evts)
	if rf.Winner != SeatNone {
		t.Errorf("winner = %d, want none at equal distance", rf.Winner)
	}
	if m.Players[0].Credits != 80 || m.Players[1].Credits != 81 {
		t.Errorf("credits = %d/%d, want floor half and remainder split", m.Players[0].Credits, m.Players[1].Credits)
	}
}

func TestBustedEndsGame(t *testing.T) {
	m, evts := settledMatch(34, 40, 0, 60, 0)

	over, ok := hasEvent[GameOver](evts)
	if !ok {
		t.Fatal("expected GameOver when a player is out of credits")
	}
	if over.Reason != EndBusted || over.Winner != SeatTwo {
		t.Errorf("over = %+v, want busted loss for seat one", over)
	}
	if m.Phase != PhaseGameOver {
		t.Errorf("phase = %s", m.Phase)
	}
}

func TestCeilingEndsGame(t *testing.T) {
	_, evts := settledMatch(34, 40, 990, 60, 20)

	over, ok := hasEvent[GameOver](evts)
	if !ok {
		t.Fatal("expected GameOver at the credit ceiling")
	}
	if over.Reason != EndRealWinner || over.Winner != SeatOne {
		t.Errorf("over = %+v, want ceiling win for seat one", over)
	}
}

func TestRoundLimitEndsGame(t *testing.T) {
	rules := DefaultRules()
	rules.MaxRounds = 1
	m := NewMatch(5, rules)
	m.Start()
	m.Phase = PhaseChooseSelf
	m.Players[0].Score = 33
	m.Players[1].Score = 20
	evts := m.finishRound()

	over, ok := hasEvent[GameOver](evts)
	if !ok {
		t.Fatal("expected GameOver at the round limit")
	}
	if over.Reason != EndRoundLimit || over.Winner != SeatOne {
		t.Errorf("over = %+v, want limit win for the closer score", over)
	}
}

func TestDeckExhaustionEndsGame(t *testing.T) {
	m, evts := settledMatch(30, 20, 60, 60, 0)
	if _, ok := hasEvent[GameOver](evts); ok {
		t.Fatal("fresh deck should not end the game")
	}

	// Three rounds consume 60 of 68 cards; a fourth deal cannot happen.
	m.DeckPos = 3 * 2 * HandSize
	m.Phase = PhaseChooseSelf
	evts = m.finishRound()

	over, ok := hasEvent[GameOver](evts)
	if !ok {
		t.Fatal("expected GameOver on deck exhaustion")
	}
	if over.Reason != EndDeckEmpty || over.Winner != SeatOne {
		t.Errorf("over = %+v, want deck_empty with proximity winner", over)
	}
}

func TestNextRoundKeepsCreditsResetsScores(t *testing.T) {
	m, _ := settledMatch(30, 36, 60, 60, 40)
	oldRNG := m.RNG

	evts, err := m.StartNextRound()
	if err != nil {
		t.Fatalf("next round: %v", err)
	}
	if m.Round != 2 || m.Phase != PhaseBetting {
		t.Fatalf("round %d phase %s", m.Round, m.Phase)
	}
	if m.Players[0].Credits != 60 || m.Players[1].Credits != 100 {
		t.Error("credits must survive the round boundary")
	}
	if m.Players[0].Score != 0 || m.Players[1].Score != 0 {
		t.Error("scores must reset each round")
	}
	if m.Pot != 0 {
		t.Error("pot must reset")
	}
	if m.RNG == oldRNG {
		t.Error("joker value should be redrawn each round")
	}
	if m.JokerValue < 1 || m.JokerValue > DeckSize {
		t.Errorf("redrawn joker value %d out of range", m.JokerValue)
	}
	if m.DeckPos != 2*2*HandSize {
		t.Errorf("cursor = %d, want the second block consumed", m.DeckPos)
	}
	for i := 0; i < HandSize; i++ {
		if m.Players[0].Hand[i] != m.Deck[2*HandSize+i] {
			t.Fatalf("round two hand must come from the next deck block")
		}
	}
	if _, ok := hasEvent[BettingStarted](evts); !ok {
		t.Error("expected BettingStarted for the new round")
	}
}

func TestNextRoundOutsideRoundFinishedRejected(t *testing.T) {
	m := NewMatch(5, DefaultRules())
	m.Start()
	if _, err := m.StartNextRound(); err == nil {
		t.Fatal("next round during betting must be rejected")
	}
	if m.Round != 1 {
		t.Error("rejected transition advanced the round")
	}
}

func TestBothReadyStartNextRound(t *testing.T) {
	m, _ := settledMatch(30, 36, 60, 60, 0)

	if evts := mustApply(t, m, ReadyNextRound{Seat: SeatOne}); evts != nil {
		t.Fatal("one ready must not advance")
	}
	if _, err := m.Apply(ReadyNextRound{Seat: SeatOne}); err == nil {
		t.Fatal("duplicate ready must be rejected")
	}
	mustApply(t, m, ReadyNextRound{Seat: SeatTwo})
	if m.Round != 2 || m.Phase != PhaseBetting {
		t.Errorf("round %d phase %s after both ready", m.Round, m.Phase)
	}
}

func TestRestartResetsEverything(t *testing.T) {
	m, _ := settledMatch(30, 36, 60, 60, 40)
	m.Round = 3
	m.DeckPos = 40

	evts := mustApply(t, m, RestartGame{Seat: SeatOne})
	if m.Round != 1 || m.Phase != PhaseBetting {
		t.Fatalf("round %d phase %s after restart", m.Round, m.Phase)
	}
	if m.Players[0].Credits != 100 || m.Players[1].Credits != 100 {
		t.Error("restart must restore starting credits")
	}
	if m.DeckPos != 2*HandSize {
		t.Errorf("cursor = %d, want a fresh deck with one deal", m.DeckPos)
	}
	if _, ok := hasEvent[BettingStarted](evts); !ok {
		t.Error("expected BettingStarted after restart")
	}
}

func TestRestartAcceptedAfterGameOver(t *testing.T) {
	m, _ := settledMatch(34, 40, 0, 60, 0)
	if m.Phase != PhaseGameOver {
		t.Fatalf("precondition: phase = %s", m.Phase)
	}
	mustApply(t, m, RestartGame{Seat: SeatTwo})
	if m.Phase != PhaseBetting || m.Winner != SeatNone || m.Reason != EndNone {
		t.Errorf("restart left phase %s winner %d reason %s", m.Phase, m.Winner, m.Reason)
	}
}

func TestSeededDeterminism(t *testing.T) {
	a := NewMatch(77, DefaultRules())
	b := NewMatch(77, DefaultRules())
	a.Start()
	b.Start()
	if a.Deck != b.Deck || a.JokerValue != b.JokerValue {
		t.Fatal("same seed must produce the same shuffle and joker value")
	}
	c := NewMatch(78, DefaultRules())
	c.Start()
	if a.Deck == c.Deck {
		t.Error("different seeds should not collide on the full deck order")
	}
}
