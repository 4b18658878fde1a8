package taking

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrSessionClosed is returned by operations on a session whose timer
// has already expired or been stopped.
var ErrSessionClosed = errors.New("taking: session closed")

// Session is one student's live run through one assessment. It owns an
// answer buffer and a countdown and arbitrates every submission through
// a guard, so however the run ends (manual submit, timer expiry, or a
// rapid double click) at most one answer snapshot is dispatched.
type Session struct {
	ID           string
	AssessmentID uint
	StudentID    string

	mu       sync.Mutex
	buffer   *AnswerBuffer
	timer    *Countdown
	guard    SubmissionGuard
	dispatch DispatchFunc
	logger   *slog.Logger

	stopRun chan struct{}
	runOnce sync.Once

	// OnFinished, if set, is called after the expiry-driven auto-submit
	// completes, whatever the outcome. The owner uses it to drop the
	// session from its registry. Set before Run starts; never called
	// more than once.
	OnFinished func()
}

// NewSession starts a session clocked from now with durationSeconds on
// the countdown. The dispatch func receives the answer snapshot when
// the session submits, whether manually or on expiry.
func NewSession(id string, assessmentID uint, studentID string, questionCount, durationSeconds int, now time.Time, dispatch DispatchFunc, logger *slog.Logger) *Session {
	s := &Session{
		ID:           id,
		AssessmentID: assessmentID,
		StudentID:    studentID,
		buffer:       NewAnswerBuffer(questionCount),
		timer:        NewCountdown(now, durationSeconds),
		dispatch:     dispatch,
		logger:       logger,
		stopRun:      make(chan struct{}),
	}
	s.timer.OnWarning = func(secondsLeft int) {
		logger.Info("session time warning",
			"session_id", s.ID,
			"assessment_id", s.AssessmentID,
			"seconds_left", secondsLeft)
	}
	s.timer.OnExpire = func() {
		snapshot := s.buffer.Snapshot()
		logger.Info("session expired, auto-submitting",
			"session_id", s.ID,
			"assessment_id", s.AssessmentID,
			"answered", s.buffer.AnsweredCount())
		go s.autoSubmit(snapshot)
	}
	return s
}

// Answer records an option choice. Answering after the countdown has
// ended returns ErrSessionClosed.
func (s *Session) Answer(questionIndex, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer.State() != TimerRunning {
		return ErrSessionClosed
	}
	s.buffer.Set(questionIndex, optionIndex)
	return nil
}

// Answered returns how many questions currently have an answer.
func (s *Session) Answered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.AnsweredCount()
}

// Remaining returns whole seconds left on the countdown.
func (s *Session) Remaining(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.Remaining(now)
}

// State returns the countdown state.
func (s *Session) State() TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.State()
}

// Tick advances the session's countdown to the given clock reading.
// Expiry triggers the auto-submit path. Run drives this once per
// second; tests drive it directly.
func (s *Session) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Tick(now)
}

// Submit finalizes the session by hand: the countdown stops, the
// current answers are snapshotted, and the snapshot is dispatched
// through the guard. A concurrent or repeated submit gets
// ErrAlreadyInFlight.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	s.timer.Stop()
	snapshot := s.buffer.Snapshot()
	s.mu.Unlock()

	return s.guard.Submit(ctx, snapshot, s.dispatch)
}

// Submitted reports whether a snapshot has been successfully
// dispatched.
func (s *Session) Submitted() bool {
	return s.guard.Done()
}

// Run drives the countdown from the wall clock until the session ends
// or Close is called. It is meant to be the session's single background
// goroutine.
func (s *Session) Run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopRun:
			return
		case now := <-ticker.C:
			s.Tick(now)
			if s.State() != TimerRunning {
				return
			}
		}
	}
}

// Close stops the countdown and the Run goroutine without submitting.
// Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	s.timer.Stop()
	s.mu.Unlock()
	s.runOnce.Do(func() { close(s.stopRun) })
}

func (s *Session) autoSubmit(snapshot []int) {
	err := s.guard.Submit(context.Background(), snapshot, s.dispatch)
	if err != nil && !errors.Is(err, ErrAlreadyInFlight) {
		s.logger.Error("auto-submit failed",
			"session_id", s.ID,
			"assessment_id", s.AssessmentID,
			"error", err)
	}
	// The countdown has expired either way; the session is finished.
	if s.OnFinished != nil {
		s.OnFinished()
	}
}
