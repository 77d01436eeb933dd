package game

import "time"

// timerSlot is a cancellable scheduled-callback handle. Arming or
// cancelling bumps the generation; a callback that fires afterwards sees a
// stale generation and must do nothing. The session lock serializes every
// arm, cancel, and generation check, so a timer racing a player action can
// never act on the state that already moved on.
type timerSlot struct {
	timer *time.Timer
	gen   uint64
}

func (ts *timerSlot) arm(d time.Duration, fn func(gen uint64)) {
	if ts.timer != nil {
		ts.timer.Stop()
	}
	ts.gen++
	gen := ts.gen
	ts.timer = time.AfterFunc(d, func() { fn(gen) })
}

func (ts *timerSlot) cancel() {
	if ts.timer != nil {
		ts.timer.Stop()
		ts.timer = nil
	}
	ts.gen++
}

// current reports whether gen identifies the live arming of this slot.
func (ts *timerSlot) current(gen uint64) bool {
	return ts.timer != nil && ts.gen == gen
}

// armBetCountdown (re)starts the repeating betting tick.
// Assumes lock is held by caller.
func (s *MatchSession) armBetCountdown() {
	s.betTimer.arm(s.TimeUnit, s.onBetTick)
}

func (s *MatchSession) onBetTick(gen uint64) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if !s.betTimer.current(gen) {
		return
	}

	secondsLeft, expired, err := s.Match.TickBetting()
	if err != nil {
		// Phase moved on between firing and locking.
		s.betTimer.cancel()
		return
	}
	s.fireEvent(WireEvent{Type: "bet_tick", Payload: map[string]interface{}{
		"secondsLeft": secondsLeft,
	}})

	if !expired {
		s.betTimer.arm(s.TimeUnit, s.onBetTick)
		return
	}
	s.betTimer.cancel()
	evts, err := s.Match.FinalizeBetting()
	if err != nil {
		return
	}
	s.logAction(0, "betting_auto_finalized", nil)
	s.dispatch(evts)
}

// armChoiceTimeout starts the bounded wait for the battle winner's +/- pick.
// Assumes lock is held by caller.
func (s *MatchSession) armChoiceTimeout() {
	d := time.Duration(s.Match.Rules.ChoiceTimeSec) * s.TimeUnit
	s.choiceTimer.arm(d, func(gen uint64) {
		s.Mu.Lock()
		defer s.Mu.Unlock()
		if !s.choiceTimer.current(gen) {
			return
		}
		s.choiceTimer.cancel()
		evts, err := s.Match.ResolveChoiceTimeout()
		if err != nil {
			return
		}
		s.logAction(0, "battle_choice_enforced", nil)
		s.dispatch(evts)
	})
}

// armAbilityTimer schedules the reveal ability's deactivation. A re-trigger
// re-arms the same slot, restarting the duration rather than stacking. This
// timer is not cancelled by phase changes; DeactivateAbility is a no-op
// when the round reset already cleared the ability.
// Assumes lock is held by caller.
func (s *MatchSession) armAbilityTimer() {
	d := time.Duration(s.Match.Rules.AbilityTimeSec) * s.TimeUnit
	s.abilityTimer.arm(d, func(gen uint64) {
		s.Mu.Lock()
		defer s.Mu.Unlock()
		if !s.abilityTimer.current(gen) {
			return
		}
		s.abilityTimer.cancel()
		s.dispatch(s.Match.DeactivateAbility())
	})
}

// armRoundBreak schedules the automatic next-round transition. Both seats
// readying up beats the timer; the engine's phase guard makes whichever
// fires second a no-op.
// Assumes lock is held by caller.
func (s *MatchSession) armRoundBreak() {
	d := time.Duration(s.Match.Rules.RoundBreakSec) * s.TimeUnit
	s.breakTimer.arm(d, func(gen uint64) {
		s.Mu.Lock()
		defer s.Mu.Unlock()
		if !s.breakTimer.current(gen) {
			return
		}
		s.breakTimer.cancel()
		evts, err := s.Match.StartNextRound()
		if err != nil {
			return
		}
		s.logAction(0, "next_round_auto", nil)
		s.dispatch(evts)
	})
}

// cancelPhaseTimers stops the bet and choice timers. Used on transitions
// that invalidate them; the ability timer deliberately survives.
// Assumes lock is held by caller.
func (s *MatchSession) cancelPhaseTimers() {
	s.betTimer.cancel()
	s.choiceTimer.cancel()
}

// cancelAllTimers stops everything, including the ability and round-break
// timers. Used on game over and teardown.
// Assumes lock is held by caller.
func (s *MatchSession) cancelAllTimers() {
	s.betTimer.cancel()
	s.choiceTimer.cancel()
	s.abilityTimer.cancel()
	s.breakTimer.cancel()
}
