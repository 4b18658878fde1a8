package taking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSession_AnswerAndRemaining(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewSession("sess-1", 1, "student-1", 4, 600, start,
		func(ctx context.Context, answers []int) error { return nil },
		discardLogger())
	defer s.Close()

	if err := s.Answer(0, 2); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if err := s.Answer(3, 1); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if got := s.Answered(); got != 2 {
		t.Errorf("Answered() = %d, want 2", got)
	}
	if got := s.Remaining(start.Add(100 * time.Second)); got != 500 {
		t.Errorf("Remaining() = %d, want 500", got)
	}
}

func TestSession_ExpiryAutoSubmitsOnce(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	var dispatched int32
	var got []int
	done := make(chan struct{})
	dispatch := func(ctx context.Context, answers []int) error {
		if atomic.AddInt32(&dispatched, 1) == 1 {
			got = answers
			close(done)
		}
		return nil
	}

	s := NewSession("sess-2", 1, "student-1", 3, 60, start, dispatch, discardLogger())
	defer s.Close()

	if err := s.Answer(1, 0); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	// Drive well past the deadline; the expiry transition happens once.
	for sec := 1; sec <= 65; sec++ {
		s.Tick(start.Add(time.Duration(sec) * time.Second))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("auto-submit never dispatched")
	}

	if n := atomic.LoadInt32(&dispatched); n != 1 {
		t.Errorf("dispatch called %d times, want 1", n)
	}
	if len(got) != 3 || got[1] != 0 {
		t.Errorf("dispatched answers = %v, want partial snapshot with index 1 answered", got)
	}
	if s.State() != TimerExpired {
		t.Errorf("State() = %s, want EXPIRED", s.State())
	}
	if err := s.Answer(0, 1); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Answer() after expiry = %v, want ErrSessionClosed", err)
	}
}

func TestSession_ExpiryInvokesOnFinished(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	s := NewSession("sess-5", 1, "student-1", 2, 60, start,
		func(ctx context.Context, answers []int) error { return nil },
		discardLogger())
	defer s.Close()

	finished := make(chan struct{})
	s.OnFinished = func() { close(finished) }

	s.Tick(start.Add(2 * time.Minute))

	// The owner must hear back once the auto-submit has run, so it can
	// drop the session from its registry.
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("OnFinished never invoked after expiry")
	}
	if !s.Submitted() {
		t.Error("Submitted() = false after expiry auto-submit")
	}
}

func TestSession_ManualSubmitStopsTimer(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	var dispatched int32
	s := NewSession("sess-3", 1, "student-1", 2, 60, start,
		func(ctx context.Context, answers []int) error {
			atomic.AddInt32(&dispatched, 1)
			return nil
		},
		discardLogger())
	defer s.Close()

	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !s.Submitted() {
		t.Error("Submitted() = false after successful Submit")
	}

	// The countdown must not expire and re-submit afterwards.
	s.Tick(start.Add(2 * time.Minute))
	if n := atomic.LoadInt32(&dispatched); n != 1 {
		t.Errorf("dispatch called %d times, want 1", n)
	}
	if s.State() != TimerStopped {
		t.Errorf("State() = %s, want STOPPED", s.State())
	}
}

func TestSession_DoubleSubmitDispatchesOnce(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	var dispatched int32
	release := make(chan struct{})
	s := NewSession("sess-4", 1, "student-1", 2, 600, start,
		func(ctx context.Context, answers []int) error {
			atomic.AddInt32(&dispatched, 1)
			<-release
			return nil
		},
		discardLogger())
	defer s.Close()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Submit(context.Background())
		}(i)
	}

	// Let the first dispatch begin, then release it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&dispatched); n != 1 {
		t.Errorf("dispatch called %d times, want 1", n)
	}
	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyInFlight):
			rejected++
		default:
			t.Errorf("unexpected Submit() error: %v", err)
		}
	}
	if ok != 1 || rejected != 1 {
		t.Errorf("got %d successes and %d in-flight rejections, want 1 and 1", ok, rejected)
	}
}

func TestSubmissionGuard_RetriesOnce(t *testing.T) {
	var calls int32
	dispatch := func(ctx context.Context, answers []int) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("connection reset")
		}
		return nil
	}

	var g SubmissionGuard
	if err := g.Submit(context.Background(), []int{0}, dispatch); err != nil {
		t.Fatalf("Submit() error = %v, want success on retry", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("dispatch called %d times, want 2", n)
	}
	if !g.Done() {
		t.Error("Done() = false after successful retry")
	}
}

func TestSubmissionGuard_RetriesAfterAttemptTimeout(t *testing.T) {
	oldDeadline, oldBackoff := submitDeadline, submitRetryBackoff
	submitDeadline, submitRetryBackoff = 50*time.Millisecond, 10*time.Millisecond
	defer func() { submitDeadline, submitRetryBackoff = oldDeadline, oldBackoff }()

	// The first attempt hangs until its own deadline cancels it; the
	// timeout must count as a retryable failure.
	var calls int32
	dispatch := func(ctx context.Context, answers []int) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}

	var g SubmissionGuard
	if err := g.Submit(context.Background(), []int{0}, dispatch); err != nil {
		t.Fatalf("Submit() error = %v, want success on retry after timeout", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("dispatch called %d times, want 2 (one retry)", n)
	}
	if !g.Done() {
		t.Error("Done() = false after successful retry")
	}
}

func TestSubmissionGuard_FailsAfterRetry(t *testing.T) {
	var calls int32
	dispatch := func(ctx context.Context, answers []int) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("connection reset")
	}

	var g SubmissionGuard
	err := g.Submit(context.Background(), []int{0}, dispatch)
	if !errors.Is(err, ErrSubmissionFailed) {
		t.Fatalf("Submit() error = %v, want ErrSubmissionFailed", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("dispatch called %d times, want 2", n)
	}

	// A terminal failure releases the guard for another manual attempt.
	if err := g.Submit(context.Background(), []int{0}, func(ctx context.Context, a []int) error { return nil }); err != nil {
		t.Errorf("Submit() after failure = %v, want success", err)
	}
}
