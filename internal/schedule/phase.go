// Package schedule derives the taking-window phase of an assessment
// from absolute timestamps. Phases are never cached or stored: "now" is
// the only moving input, so every render and every tick classifies
// afresh.
package schedule

import "time"

type Phase string

const (
	PhaseFuture  Phase = "FUTURE"
	PhaseOngoing Phase = "ONGOING"
	PhasePast    Phase = "PAST"
)

// Classify partitions the timeline with no gaps: both boundary instants
// belong to ONGOING.
func Classify(now, start, end time.Time) Phase {
	if now.Before(start) {
		return PhaseFuture
	}
	if now.After(end) {
		return PhasePast
	}
	return PhaseOngoing
}

// Remaining returns whole seconds until end, never negative.
func Remaining(now, end time.Time) int {
	r := int(end.Sub(now).Seconds())
	if r < 0 {
		return 0
	}
	return r
}

// UntilStart returns whole seconds until start, never negative.
func UntilStart(now, start time.Time) int {
	r := int(start.Sub(now).Seconds())
	if r < 0 {
		return 0
	}
	return r
}
