package engine

// DeckSize is the number of distinct card identifiers in a deck.
const DeckSize = 68

// HandSize is the number of cards dealt to each player per round.
const HandSize = 10

// Card is a card identifier in [0, DeckSize). Identifier 0 is the joker,
// whose battle power is the round's secret joker value. Every other card's
// power equals its own identifier.
type Card uint8

const (
	// JokerCard is the identifier whose power is substituted per round.
	JokerCard Card = 0
	// AbilityCard triggers the reveal-opponent-hand ability when it takes
	// part in any battle.
	AbilityCard Card = 67
)

// Seat identifies a player slot. SeatNone marks ties and "no player".
type Seat uint8

const (
	SeatNone Seat = 0
	SeatOne  Seat = 1
	SeatTwo  Seat = 2
)

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	if s == SeatOne {
		return SeatTwo
	}
	return SeatOne
}

// Valid reports whether s is an actual player slot.
func (s Seat) Valid() bool { return s == SeatOne || s == SeatTwo }

// Phase enumerates the match state machine.
type Phase uint8

const (
	PhaseBetting Phase = iota
	PhaseStarterP1
	PhaseStarterP2
	PhaseChooseSelf
	PhaseChooseOpponent
	PhaseBattleChoice
	PhaseRoundFinished
	PhaseGameOver
)

// String returns the wire name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseBetting:
		return "betting"
	case PhaseStarterP1:
		return "starter_p1"
	case PhaseStarterP2:
		return "starter_p2"
	case PhaseChooseSelf:
		return "choose_self"
	case PhaseChooseOpponent:
		return "choose_opponent"
	case PhaseBattleChoice:
		return "battle_choice"
	case PhaseRoundFinished:
		return "round_finished"
	case PhaseGameOver:
		return "game_over"
	}
	return "unknown"
}

// Op is a score operation chosen by (or for) a battle winner.
type Op uint8

const (
	OpNone Op = iota
	OpAdd
	OpSub
)

// String returns the wire form of the operation ("+" or "-").
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	}
	return ""
}

// ParseOp converts the wire form back to an Op.
func ParseOp(s string) (Op, bool) {
	switch s {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	}
	return OpNone, false
}

// EndReason enumerates why a game ended.
type EndReason uint8

const (
	EndNone EndReason = iota
	EndBusted
	EndRealWinner
	EndRoundLimit
	EndDeckEmpty
)

// String returns the wire name of the end reason.
func (r EndReason) String() string {
	switch r {
	case EndBusted:
		return "busted"
	case EndRealWinner:
		return "real_winner"
	case EndRoundLimit:
		return "round_limit"
	case EndDeckEmpty:
		return "deck_empty"
	}
	return ""
}

// PlayerState holds one seat's per-round and persistent state.
// Hand, Used and Blocked are parallel: Hand[i] is usable iff
// !Used[i] && !Blocked[i].
type PlayerState struct {
	Score        int
	Credits      int
	Bet          int
	BetConfirmed bool
	Ready        bool
	Hand         [HandSize]Card
	Used         [HandSize]bool
	Blocked      [HandSize]bool
}

// Usable reports whether hand index i can still be played.
func (p *PlayerState) Usable(i int) bool {
	return i >= 0 && i < HandSize && !p.Used[i] && !p.Blocked[i]
}

// SpentCards counts indices consumed this round: used cards plus the index
// blocked for the starter duel, if any.
func (p *PlayerState) SpentCards(starterIdx int8) int {
	n := 0
	for _, u := range p.Used {
		if u {
			n++
		}
	}
	if starterIdx >= 0 {
		n++
	}
	return n
}

// AbilityState tracks the reveal-opponent-hand ability.
type AbilityState struct {
	Active bool
	Owner  Seat
}

// Match is the complete, self-contained state of one two-player session.
// It is a flat value type: no pointers, no ambient state, so multiple
// matches can live in one process and tests can rig state directly.
type Match struct {
	Phase       Phase
	Round       int
	CurrentTurn Seat
	Pot         int

	Deck       [DeckSize]Card
	DeckPos    int
	JokerValue int

	BetTimeLeft int

	// Transient battle fields, reset every round.
	SelectedSelf int8
	SelectedOpp  int8
	StarterIdx   [2]int8 // indexed by seat-1; -1 = not chosen
	BattleWinner Seat    // SeatNone = tie / no battle
	BattleDiff   int
	AfterStarter bool
	BattleCount  int // regular battles resolved this round

	Ability AbilityState

	Reason EndReason
	Winner Seat // final game winner; SeatNone = tie

	Players [2]PlayerState

	RNG   uint64
	Rules Rules
}

// player returns the mutable state for a seat. Callers pass a valid seat.
func (m *Match) player(s Seat) *PlayerState { return &m.Players[s-1] }

// Player returns a copy of a seat's state for the host layer.
func (m *Match) Player(s Seat) PlayerState { return m.Players[s-1] }

// ---------------------------------------------------------------------------
// xorshift64 RNG — inline, no interface
// ---------------------------------------------------------------------------

func (m *Match) nextRand() uint64 {
	x := m.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	m.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (m *Match) randN(n uint64) uint64 {
	return m.nextRand() % n
}
