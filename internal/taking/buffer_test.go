package taking

import (
	"testing"

	"github.com/SmartEval-2025/assessment-platform/internal/scoring"
)

func TestNewAnswerBuffer(t *testing.T) {
	b := NewAnswerBuffer(4)
	if b.Len() != 4 {
		t.Errorf("Len() = %d, want 4", b.Len())
	}
	for i := 0; i < 4; i++ {
		if got := b.Get(i); got != scoring.Unanswered {
			t.Errorf("Get(%d) = %d, want unanswered sentinel", i, got)
		}
	}
	if b.AnsweredCount() != 0 {
		t.Errorf("AnsweredCount() = %d, want 0", b.AnsweredCount())
	}
}

func TestAnswerBuffer_SetGet(t *testing.T) {
	b := NewAnswerBuffer(3)
	b.Set(1, 2)
	if got := b.Get(1); got != 2 {
		t.Errorf("Get(1) = %d, want 2", got)
	}
	if b.AnsweredCount() != 1 {
		t.Errorf("AnsweredCount() = %d, want 1", b.AnsweredCount())
	}

	b.Set(1, 0)
	if got := b.Get(1); got != 0 {
		t.Errorf("Get(1) after overwrite = %d, want 0", got)
	}
	if b.AnsweredCount() != 1 {
		t.Errorf("AnsweredCount() after overwrite = %d, want 1", b.AnsweredCount())
	}
}

func TestAnswerBuffer_SetOutOfRange(t *testing.T) {
	b := NewAnswerBuffer(2)
	defer func() {
		if recover() == nil {
			t.Error("Set(5, 0) did not panic")
		}
	}()
	b.Set(5, 0)
}

func TestAnswerBuffer_Snapshot(t *testing.T) {
	b := NewAnswerBuffer(3)
	b.Set(0, 1)
	snap := b.Snapshot()

	b.Set(0, 2)
	if snap[0] != 1 {
		t.Errorf("snapshot mutated by later Set: snap[0] = %d, want 1", snap[0])
	}
	if snap[1] != scoring.Unanswered || snap[2] != scoring.Unanswered {
		t.Errorf("snapshot = %v, want unanswered slots preserved", snap)
	}
}
