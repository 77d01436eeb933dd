package engine

// Event is the closed set of outcomes the engine reports to the host.
// The host maps these to wire payloads and applies per-player redaction;
// the engine never talks to a client directly.
type Event interface{ isEvent() }

// HandDealt carries one seat's fresh hand. Private: the host must deliver
// it only to that seat.
type HandDealt struct {
	Seat Seat
	Hand [HandSize]Card
}

// BettingStarted opens the wager sub-phase for a round.
type BettingStarted struct {
	TimeLimit int
	Round     int
	P1Credits int
	P2Credits int
}

// BetUpdated reports a (not yet confirmed) bet amount, visible to both seats.
type BetUpdated struct {
	Seat   Seat
	Amount int
}

// BetConfirmed reports a confirmed (and deducted) bet. Auto marks the
// timer-applied default bet.
type BetConfirmed struct {
	Seat       Seat
	Amount     int
	NewCredits int
	Auto       bool
}

// BettingFinished closes the wager sub-phase.
type BettingFinished struct {
	Pot         int
	AutoApplied bool
}

// StarterPhase asks a seat to pick its starter-duel card.
type StarterPhase struct {
	CurrentPlayer Seat
}

// CardRevealed publishes a card a player has committed to a battle.
type CardRevealed struct {
	Seat      Seat
	CardIndex int
	CardID    Card
}

// StarterBattleResult reports the starter duel outcome.
type StarterBattleResult struct {
	P1Card   Card
	P2Card   Card
	P1Power  int
	P2Power  int
	Winner   Seat // SeatNone on tie
	Diff     int
	NextTurn Seat
}

// BattleResult reports a regular card battle outcome.
type BattleResult struct {
	Actor     Seat
	SelfCard  Card
	OppCard   Card
	SelfPower int
	OppPower  int
	Winner    Seat // SeatNone on tie
	Diff      int
}

// BattleChoiceStarted asks the battle winner to pick + or -.
type BattleChoiceStarted struct {
	Winner Seat
	Diff   int
}

// ScoreUpdated reports the applied score operation. Enforced marks the
// timer-applied default.
type ScoreUpdated struct {
	Seat     Seat
	NewScore int
	Op       Op
	Diff     int
	Enforced bool
}

// TurnChanged announces whose turn the next battle is. Continued is true
// when the previous holder kept the turn.
type TurnChanged struct {
	CurrentPlayer Seat
	Continued     bool
}

// AbilityActivated reports the reveal-opponent-hand ability firing.
// The host sends the owner the opponent's hand; the opponent gets a
// notice only.
type AbilityActivated struct {
	Owner    Seat
	Duration int
}

// AbilityDeactivated reports the ability expiring.
type AbilityDeactivated struct{}

// RoundFinished reports settlement of a round's pot.
type RoundFinished struct {
	Winner    Seat // SeatNone on exact-distance tie
	P1Score   int
	P2Score   int
	P1Credits int
	P2Credits int
	Pot       int
}

// GameOver reports the terminal state of the match.
type GameOver struct {
	Winner    Seat
	Reason    EndReason
	P1Score   int
	P2Score   int
	P1Credits int
	P2Credits int
}

func (HandDealt) isEvent()           {}
func (BettingStarted) isEvent()      {}
func (BetUpdated) isEvent()          {}
func (BetConfirmed) isEvent()        {}
func (BettingFinished) isEvent()     {}
func (StarterPhase) isEvent()        {}
func (CardRevealed) isEvent()        {}
func (StarterBattleResult) isEvent() {}
func (BattleResult) isEvent()        {}
func (BattleChoiceStarted) isEvent() {}
func (ScoreUpdated) isEvent()        {}
func (TurnChanged) isEvent()         {}
func (AbilityActivated) isEvent()    {}
func (AbilityDeactivated) isEvent()  {}
func (RoundFinished) isEvent()       {}
func (GameOver) isEvent()            {}
