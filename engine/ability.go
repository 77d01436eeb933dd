package engine

// checkAbility activates the reveal-opponent-hand ability when either card
// in a battle is the trigger. The owner is the holder of the triggering
// card. Re-triggering while active restarts the duration (the host restarts
// its deactivation timer on every AbilityActivated) rather than stacking.
func (m *Match) checkAbility(c1 Card, s1 Seat, c2 Card, s2 Seat) []Event {
	owner := SeatNone
	switch AbilityCard {
	case c1:
		owner = s1
	case c2:
		owner = s2
	default:
		return nil
	}
	m.Ability = AbilityState{Active: true, Owner: owner}
	return []Event{AbilityActivated{Owner: owner, Duration: m.Rules.AbilityTimeSec}}
}

// DeactivateAbility clears the visibility grant. Host-driven on timer
// expiry; a no-op when the ability is not active (e.g. the round already
// reset it).
func (m *Match) DeactivateAbility() []Event {
	if !m.Ability.Active {
		return nil
	}
	m.Ability = AbilityState{}
	return []Event{AbilityDeactivated{}}
}
