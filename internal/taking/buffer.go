// Package taking implements the assessment-taking session engine: the
// per-session answer buffer, the countdown/auto-submit timer, and the
// submission guard that keeps duplicate submissions off the wire.
package taking

import (
	"fmt"

	"github.com/SmartEval-2025/assessment-platform/internal/scoring"
)

// AnswerBuffer is the mutable in-progress answer vector for a single
// taking session. It is owned exclusively by that session and is never
// shared or persisted; submission converts a snapshot of it into an
// immutable result.
type AnswerBuffer struct {
	slots []int
}

// NewAnswerBuffer allocates a buffer with one unanswered slot per
// question.
func NewAnswerBuffer(n int) *AnswerBuffer {
	slots := make([]int, n)
	for i := range slots {
		slots[i] = scoring.Unanswered
	}
	return &AnswerBuffer{slots: slots}
}

// Set records the selected option for a question. A slot index outside
// the buffer is a programming error and panics; option indices are not
// range-checked here — grading treats any non-matching value as wrong.
func (b *AnswerBuffer) Set(index, optionIndex int) {
	if index < 0 || index >= len(b.slots) {
		panic(fmt.Sprintf("taking: answer slot %d out of range [0,%d)", index, len(b.slots)))
	}
	b.slots[index] = optionIndex
}

// Get returns the recorded option for a question, or the unanswered
// sentinel.
func (b *AnswerBuffer) Get(index int) int {
	if index < 0 || index >= len(b.slots) {
		panic(fmt.Sprintf("taking: answer slot %d out of range [0,%d)", index, len(b.slots)))
	}
	return b.slots[index]
}

// Len returns the number of slots.
func (b *AnswerBuffer) Len() int {
	return len(b.slots)
}

// AnsweredCount counts non-sentinel slots.
func (b *AnswerBuffer) AnsweredCount() int {
	n := 0
	for _, s := range b.slots {
		if s != scoring.Unanswered {
			n++
		}
	}
	return n
}

// Snapshot copies the current answers. The copy is what gets submitted;
// the buffer itself stays mutable until the session ends.
func (b *AnswerBuffer) Snapshot() []int {
	out := make([]int, len(b.slots))
	copy(out, b.slots)
	return out
}
