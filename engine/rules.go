package engine

// Rules holds configurable match settings. Timer durations are in whole
// seconds; the host drives the clock, the engine only stores counts.
type Rules struct {
	TargetScore     int
	StartCredits    int
	DefaultBet      int // auto-applied minimum when betting expires
	CreditCeiling   int // credits at or above this end the game ("real_winner")
	MaxRounds       int // 0 = unlimited
	BetTimeSec      int
	ChoiceTimeSec   int
	AbilityTimeSec  int
	RoundBreakSec   int // delay before the next round starts
}

// DefaultRules returns the standard match settings.
func DefaultRules() Rules {
	return Rules{
		TargetScore:    34,
		StartCredits:   100,
		DefaultBet:     5,
		CreditCeiling:  1000,
		MaxRounds:      0,
		BetTimeSec:     15,
		ChoiceTimeSec:  7,
		AbilityTimeSec: 5,
		RoundBreakSec:  3,
	}
}
