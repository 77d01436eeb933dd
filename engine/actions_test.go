package engine

import "testing"

func TestInvalidSeatRejected(t *testing.T) {
	m := bettingMatch()
	actions := []Action{
		SubmitBet{Seat: SeatNone, Amount: 5},
		ConfirmBet{Seat: Seat(3)},
		SelectCard{Seat: SeatNone, CardIndex: 0},
		BattleChoice{Seat: Seat(9), Op: OpAdd},
		ReadyNextRound{Seat: SeatNone},
	}
	for _, a := range actions {
		if _, err := m.Apply(a); err == nil {
			t.Errorf("%T with invalid seat should be rejected", a)
		}
	}
}

// TestRejectedActionLeavesMatchUntouched exercises the contract that an
// erroring Apply produced no state change at all.
func TestRejectedActionLeavesMatchUntouched(t *testing.T) {
	m := bettingMatch()
	before := *m

	bad := []Action{
		SelectCard{Seat: SeatOne, CardIndex: 0},   // wrong phase
		BattleChoice{Seat: SeatOne, Op: OpAdd},    // wrong phase
		ReadyNextRound{Seat: SeatTwo},             // wrong phase
		SubmitBet{Seat: Seat(5), Amount: 10},      // bad seat
		SelectCard{Seat: SeatOne, CardIndex: -1},  // bad index
	}
	for _, a := range bad {
		if _, err := m.Apply(a); err == nil {
			t.Fatalf("%#v should have been rejected", a)
		}
		if *m != before {
			t.Fatalf("%#v mutated the match", a)
		}
	}
}

func TestSelectCardIndexBounds(t *testing.T) {
	m := starterMatch(t)
	for _, idx := range []int{-1, HandSize, 99} {
		if _, err := m.Apply(SelectCard{Seat: SeatOne, CardIndex: idx}); err == nil {
			t.Errorf("index %d should be rejected", idx)
		}
	}
}
