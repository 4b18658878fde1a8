package taking

import "time"

// TimerState is the lifecycle state of a countdown.
type TimerState string

const (
	TimerRunning TimerState = "RUNNING"
	TimerExpired TimerState = "EXPIRED"
	TimerStopped TimerState = "STOPPED"
)

// Warning thresholds, in seconds remaining. Each fires at most once per
// countdown, on the first tick at or below the threshold. Thresholds
// never seen above (a countdown shorter than the threshold) do not
// fire at all.
var warningThresholds = []int{300, 60, 30}

// Countdown tracks remaining time for a taking session. It is driven by
// Tick calls with an externally supplied clock reading, which keeps the
// state machine deterministic; Session wraps it with a real ticker
// goroutine. Countdown itself is not safe for concurrent use.
type Countdown struct {
	deadline time.Time
	state    TimerState
	fired    map[int]bool

	// OnWarning, if set, is called once per threshold with the number
	// of seconds remaining.
	OnWarning func(secondsLeft int)
	// OnExpire, if set, is called exactly once when the countdown
	// transitions RUNNING -> EXPIRED.
	OnExpire func()
}

// NewCountdown starts a countdown that expires durationSeconds after
// now.
func NewCountdown(now time.Time, durationSeconds int) *Countdown {
	fired := make(map[int]bool)
	for _, t := range warningThresholds {
		if durationSeconds <= t {
			fired[t] = true
		}
	}
	return &Countdown{
		deadline: now.Add(time.Duration(durationSeconds) * time.Second),
		state:    TimerRunning,
		fired:    fired,
	}
}

// State returns the current lifecycle state.
func (c *Countdown) State() TimerState {
	return c.state
}

// Remaining returns whole seconds left, clamped at zero.
func (c *Countdown) Remaining(now time.Time) int {
	left := int(c.deadline.Sub(now) / time.Second)
	if left < 0 {
		return 0
	}
	return left
}

// Tick advances the countdown to the given clock reading. Warning and
// expiry callbacks fire from inside Tick. Ticks after the countdown has
// left RUNNING are no-ops, so a late ticker fire after Stop or expiry
// cannot double-submit.
func (c *Countdown) Tick(now time.Time) {
	if c.state != TimerRunning {
		return
	}
	left := c.Remaining(now)
	for _, t := range warningThresholds {
		// At-or-below rather than exact: a delayed tick that jumps over
		// a threshold still produces its warning, once.
		if left <= t && !c.fired[t] {
			c.fired[t] = true
			if c.OnWarning != nil {
				c.OnWarning(t)
			}
		}
	}
	if !now.Before(c.deadline) {
		c.state = TimerExpired
		if c.OnExpire != nil {
			c.OnExpire()
		}
	}
}

// Stop halts a running countdown without firing expiry. Used on manual
// submission and on session teardown.
func (c *Countdown) Stop() {
	if c.state == TimerRunning {
		c.state = TimerStopped
	}
}
