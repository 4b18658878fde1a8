package taking

import (
	"testing"
	"time"
)

func TestCountdown_Remaining(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewCountdown(start, 600)

	if got := c.Remaining(start); got != 600 {
		t.Errorf("Remaining(start) = %d, want 600", got)
	}
	if got := c.Remaining(start.Add(90 * time.Second)); got != 510 {
		t.Errorf("Remaining(+90s) = %d, want 510", got)
	}
	if got := c.Remaining(start.Add(20 * time.Minute)); got != 0 {
		t.Errorf("Remaining past deadline = %d, want 0", got)
	}
}

func TestCountdown_WarningsFireOnce(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewCountdown(start, 400)

	var fired []int
	c.OnWarning = func(left int) { fired = append(fired, left) }

	for s := 1; s <= 400; s++ {
		c.Tick(start.Add(time.Duration(s) * time.Second))
	}

	want := []int{300, 60, 30}
	if len(fired) != len(want) {
		t.Fatalf("warnings fired = %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("warning %d = %d, want %d", i, fired[i], want[i])
		}
	}
}

func TestCountdown_WarningFiresOnceWhenTickJumpsThreshold(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewCountdown(start, 400)

	var fired []int
	c.OnWarning = func(left int) { fired = append(fired, left) }

	// A delayed tick jumps straight past the 300s mark; the warning
	// must still fire, and only once.
	c.Tick(start.Add(150 * time.Second))
	if len(fired) != 1 || fired[0] != 300 {
		t.Fatalf("warnings fired = %v, want [300] after jumping the threshold", fired)
	}

	c.Tick(start.Add(151 * time.Second))
	if len(fired) != 1 {
		t.Errorf("warnings fired = %v, want the jumped threshold to fire once", fired)
	}
}

func TestCountdown_ShortCountdownSkipsHigherThresholds(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewCountdown(start, 45)

	var fired []int
	c.OnWarning = func(left int) { fired = append(fired, left) }

	for s := 1; s <= 45; s++ {
		c.Tick(start.Add(time.Duration(s) * time.Second))
	}

	// Only the 30s warning applies to a 45s countdown; 300 and 60 were
	// never above the remaining time.
	if len(fired) != 1 || fired[0] != 30 {
		t.Errorf("warnings fired = %v, want [30]", fired)
	}
}

func TestCountdown_ExpireOnce(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewCountdown(start, 60)

	expired := 0
	c.OnExpire = func() { expired++ }

	for s := 1; s <= 65; s++ {
		c.Tick(start.Add(time.Duration(s) * time.Second))
	}

	if expired != 1 {
		t.Errorf("OnExpire fired %d times, want 1", expired)
	}
	if c.State() != TimerExpired {
		t.Errorf("State() = %s, want EXPIRED", c.State())
	}
}

func TestCountdown_StopPreventsExpiry(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c := NewCountdown(start, 60)

	expired := 0
	c.OnExpire = func() { expired++ }

	c.Stop()
	c.Tick(start.Add(2 * time.Minute))

	if expired != 0 {
		t.Errorf("OnExpire fired %d times after Stop, want 0", expired)
	}
	if c.State() != TimerStopped {
		t.Errorf("State() = %s, want STOPPED", c.State())
	}
}
