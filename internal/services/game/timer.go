package game

import (
	"time"

	"github.com/KirkDiggler/czar/internal/common/clock"
)

// warningOffsets are how long before expiry a phase warns its players
var warningOffsets = []time.Duration{60 * time.Second, 30 * time.Second, 10 * time.Second}

// dispatchFunc runs f with exclusive access to the game
type dispatchFunc func(f func())

// ScheduledPhase is one countdown of a RoundTimer. Its token is retired
// when the phase is stopped or replaced, which turns every callback it
// scheduled into a no-op.
type ScheduledPhase struct {
	token    uint64
	onWarn   func(left time.Duration)
	onExpire func()
}

// RoundTimer counts down the active phase, warning at fixed offsets
// before expiry and calling the phase's expiry func exactly once.
type RoundTimer struct {
	clock    clock.Clock
	dispatch dispatchFunc
	limit    time.Duration

	token   uint64
	phase   *ScheduledPhase
	timers  []clock.Timer
	started time.Time
	elapsed time.Duration
	paused  bool
}

func newRoundTimer(clk clock.Clock, limit time.Duration, dispatch dispatchFunc) *RoundTimer {
	return &RoundTimer{
		clock:    clk,
		dispatch: dispatch,
		limit:    limit,
	}
}

// Start replaces any running phase with a new countdown from zero
func (t *RoundTimer) Start(onWarn func(left time.Duration), onExpire func()) *ScheduledPhase {
	t.Stop()

	t.token++
	t.phase = &ScheduledPhase{
		token:    t.token,
		onWarn:   onWarn,
		onExpire: onExpire,
	}
	t.schedule(0)
	return t.phase
}

// Stop cancels the running phase without firing it
func (t *RoundTimer) Stop() {
	t.cancelTimers()
	t.token++
	t.phase = nil
	t.paused = false
	t.elapsed = 0
}

// Pause cancels pending callbacks and returns the time spent in the phase
func (t *RoundTimer) Pause() time.Duration {
	if t.phase == nil || t.paused {
		return t.elapsed
	}
	t.cancelTimers()
	t.elapsed = t.clock.Now().Sub(t.started)
	t.paused = true
	return t.elapsed
}

// Resume reschedules the paused phase for the time it had left
func (t *RoundTimer) Resume() {
	if t.phase == nil || !t.paused {
		return
	}
	t.paused = false
	t.schedule(t.elapsed)
}

// Active reports whether a phase is counting down or paused
func (t *RoundTimer) Active() bool {
	return t.phase != nil
}

// Elapsed returns the time spent in the current phase
func (t *RoundTimer) Elapsed() time.Duration {
	if t.phase == nil {
		return 0
	}
	if t.paused {
		return t.elapsed
	}
	return t.clock.Now().Sub(t.started)
}

func (t *RoundTimer) schedule(elapsed time.Duration) {
	phase := t.phase
	t.started = t.clock.Now().Add(-elapsed)

	for _, offset := range warningOffsets {
		at := t.limit - offset
		if at <= elapsed {
			continue
		}
		left := offset
		t.timers = append(t.timers, t.clock.AfterFunc(at-elapsed, func() {
			t.dispatch(func() {
				if !t.current(phase) || phase.onWarn == nil {
					return
				}
				phase.onWarn(left)
			})
		}))
	}

	remaining := t.limit - elapsed
	if remaining < 0 {
		remaining = 0
	}
	t.timers = append(t.timers, t.clock.AfterFunc(remaining, func() {
		t.dispatch(func() {
			if !t.current(phase) {
				return
			}
			t.cancelTimers()
			t.token++
			t.phase = nil
			if phase.onExpire != nil {
				phase.onExpire()
			}
		})
	}))
}

func (t *RoundTimer) current(phase *ScheduledPhase) bool {
	return t.phase == phase && phase.token == t.token && !t.paused
}

func (t *RoundTimer) cancelTimers() {
	for _, timer := range t.timers {
		timer.Stop()
	}
	t.timers = nil
}

// deferredAction is a one-shot callback with a single pending slot. It backs
// the cool-off window, the pause between rounds and the wait for players.
type deferredAction struct {
	clock    clock.Clock
	dispatch dispatchFunc

	token   uint64
	timer   clock.Timer
	pending func()
}

func newDeferredAction(clk clock.Clock, dispatch dispatchFunc) *deferredAction {
	return &deferredAction{
		clock:    clk,
		dispatch: dispatch,
	}
}

// Schedule runs f after delay unless an action is already pending, in which
// case it reports false. A delay of zero or less runs f immediately.
func (d *deferredAction) Schedule(delay time.Duration, f func()) bool {
	if d.pending != nil {
		return false
	}
	if delay <= 0 {
		f()
		return true
	}

	d.token++
	token := d.token
	d.pending = f
	d.timer = d.clock.AfterFunc(delay, func() {
		d.dispatch(func() {
			if d.pending == nil || d.token != token {
				return
			}
			run := d.take()
			run()
		})
	})
	return true
}

// Pending reports whether an action is waiting to run
func (d *deferredAction) Pending() bool {
	return d.pending != nil
}

// Cancel drops the pending action, reporting whether there was one
func (d *deferredAction) Cancel() bool {
	return d.take() != nil
}

// Flush runs the pending action now instead of at its deadline
func (d *deferredAction) Flush() bool {
	run := d.take()
	if run == nil {
		return false
	}
	run()
	return true
}

// take cancels the pending action and hands it to the caller
func (d *deferredAction) take() func() {
	run := d.pending
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.token++
	return run
}
