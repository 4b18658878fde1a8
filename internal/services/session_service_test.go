package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SmartEval-2025/assessment-platform/internal/events"
	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	assessments *fakeAssessmentRepo
	results     *fakeResultRepo
	tasks       *fakeTaskRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		assessments: &fakeAssessmentRepo{items: map[uint]*models.Assessment{}},
		results:     &fakeResultRepo{},
		tasks:       &fakeTaskRepo{items: map[uint]*models.Task{}},
	}
}

func (f *fakeRepository) Assessment() repositories.AssessmentRepository { return f.assessments }
func (f *fakeRepository) Result() repositories.ResultRepository         { return f.results }
func (f *fakeRepository) Task() repositories.TaskRepository             { return f.tasks }
func (f *fakeRepository) User() repositories.UserRepository             { return nil }
func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}
func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

type fakeAssessmentRepo struct {
	items map[uint]*models.Assessment
}

func (f *fakeAssessmentRepo) Create(ctx context.Context, a *models.Assessment) error {
	f.items[a.ID] = a
	return nil
}

func (f *fakeAssessmentRepo) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeAssessmentRepo) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Assessment, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeAssessmentRepo) ListByCreator(ctx context.Context, creatorID string, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	return nil, 0, nil
}

func (f *fakeAssessmentRepo) ListByAssignedEmail(ctx context.Context, email string, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	return nil, 0, nil
}

func (f *fakeAssessmentRepo) Delete(ctx context.Context, id uint) error {
	delete(f.items, id)
	return nil
}

type fakeResultRepo struct {
	mu      sync.Mutex
	results []*models.AssessmentResult
}

func (f *fakeResultRepo) Create(ctx context.Context, r *models.AssessmentResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.results {
		if existing.AssessmentID == r.AssessmentID && existing.StudentID == r.StudentID {
			return repositories.ErrDuplicate
		}
	}
	f.results = append(f.results, r)
	return nil
}

func (f *fakeResultRepo) GetByAssessmentAndStudent(ctx context.Context, assessmentID uint, studentID string) (*models.AssessmentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.results {
		if r.AssessmentID == assessmentID && r.StudentID == studentID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResultRepo) ListByAssessment(ctx context.Context, assessmentID uint) ([]*models.AssessmentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.AssessmentResult
	for _, r := range f.results {
		if r.AssessmentID == assessmentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) ListByStudent(ctx context.Context, studentID string) ([]*models.AssessmentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.AssessmentResult
	for _, r := range f.results {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) ExistsByAssessmentAndStudent(ctx context.Context, assessmentID uint, studentID string) (bool, error) {
	_, err := f.GetByAssessmentAndStudent(ctx, assessmentID, studentID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// ===== TEST SETUP =====

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func openAssessment(id uint) *models.Assessment {
	now := time.Now()
	return &models.Assessment{
		ID:               id,
		Title:            "Midterm",
		StartTime:        now.Add(-10 * time.Minute),
		EndTime:          now.Add(50 * time.Minute),
		AssignedStudents: datatypes.JSONSlice[string]{"alice@example.com"},
		Questions: []models.Question{
			{Position: 0, Text: "Q1", Options: datatypes.JSONSlice[string]{"a", "b", "c"}, CorrectAnswer: 0},
			{Position: 1, Text: "Q2", Options: datatypes.JSONSlice[string]{"a", "b"}, CorrectAnswer: 1},
			{Position: 2, Text: "Q3", Options: datatypes.JSONSlice[string]{"a", "b", "c", "d"}, CorrectAnswer: 2},
		},
	}
}

func newSessionFixture(t *testing.T) (SessionService, ResultService, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	logger := testLogger()
	eventSvc := NewNotificationEventService(events.NewMockEventPublisher(logger), logger)
	results := NewResultService(repo, nil, logger, eventSvc)
	sessions := NewSessionService(repo, nil, logger, validator.New(), results)
	t.Cleanup(func() { sessions.Shutdown(context.Background()) })
	return sessions, results, repo
}

var student = &models.User{ID: "student-1", Email: "alice@example.com", Role: models.RoleStudent}

// ===== TESTS =====

func TestSessionService_StartAnswerSubmit(t *testing.T) {
	sessions, _, repo := newSessionFixture(t)
	ctx := context.Background()
	repo.assessments.items[1] = openAssessment(1)

	resp, err := sessions.Start(ctx, 1, student)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if len(resp.Questions) != 3 {
		t.Fatalf("Start() returned %d questions, want 3", len(resp.Questions))
	}
	for _, q := range resp.Questions {
		if len(q.Options) == 0 {
			t.Errorf("question %d has no options", q.Index)
		}
	}

	// Answer two of three correctly, one wrong.
	answers := []struct{ q, opt int }{{0, 0}, {1, 1}, {2, 3}}
	for _, a := range answers {
		if err := sessions.Answer(ctx, resp.SessionID, a.q, &SubmitAnswerRequest{OptionIndex: a.opt}, student.ID); err != nil {
			t.Fatalf("Answer(%d) error = %v", a.q, err)
		}
	}

	progress, err := sessions.Progress(ctx, resp.SessionID, student.ID)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if progress.Answered != 3 || progress.Total != 3 {
		t.Errorf("Progress() = %d/%d, want 3/3", progress.Answered, progress.Total)
	}

	result, err := sessions.Submit(ctx, resp.SessionID, student.ID)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.Score != 2 {
		t.Errorf("Score = %d, want 2", result.Score)
	}
	if result.Percentage < 66.6 || result.Percentage > 66.7 {
		t.Errorf("Percentage = %v, want ~66.67", result.Percentage)
	}
	if sessions.ActiveSessions() != 0 {
		t.Errorf("ActiveSessions() = %d after submit, want 0", sessions.ActiveSessions())
	}
}

func TestSessionService_StartTwiceReturnsSameSession(t *testing.T) {
	sessions, _, repo := newSessionFixture(t)
	ctx := context.Background()
	repo.assessments.items[1] = openAssessment(1)

	first, err := sessions.Start(ctx, 1, student)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	second, err := sessions.Start(ctx, 1, student)
	if err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if first.SessionID != second.SessionID {
		t.Error("second Start() opened a new session instead of resuming")
	}
	if sessions.ActiveSessions() != 1 {
		t.Errorf("ActiveSessions() = %d, want 1", sessions.ActiveSessions())
	}
}

func TestSessionService_StartAfterSubmitted(t *testing.T) {
	sessions, results, repo := newSessionFixture(t)
	ctx := context.Background()
	repo.assessments.items[1] = openAssessment(1)

	if _, err := results.SubmitAnswers(ctx, 1, student.ID, []int{0, 1, 2}); err != nil {
		t.Fatalf("SubmitAnswers() error = %v", err)
	}

	_, err := sessions.Start(ctx, 1, student)
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("Start() after submission = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSessionService_StartGuards(t *testing.T) {
	sessions, _, repo := newSessionFixture(t)
	ctx := context.Background()

	ended := openAssessment(2)
	ended.StartTime = time.Now().Add(-2 * time.Hour)
	ended.EndTime = time.Now().Add(-time.Hour)
	repo.assessments.items[2] = ended

	upcoming := openAssessment(3)
	upcoming.StartTime = time.Now().Add(time.Hour)
	upcoming.EndTime = time.Now().Add(2 * time.Hour)
	repo.assessments.items[3] = upcoming

	if _, err := sessions.Start(ctx, 2, student); !errors.Is(err, ErrAssessmentHasEnded) {
		t.Errorf("Start(ended) = %v, want ErrAssessmentHasEnded", err)
	}
	if _, err := sessions.Start(ctx, 3, student); !errors.Is(err, ErrAssessmentUpcoming) {
		t.Errorf("Start(upcoming) = %v, want ErrAssessmentUpcoming", err)
	}
	if _, err := sessions.Start(ctx, 99, student); !errors.Is(err, ErrAssessmentNotFound) {
		t.Errorf("Start(missing) = %v, want ErrAssessmentNotFound", err)
	}

	outsider := &models.User{ID: "student-2", Email: "mallory@example.com", Role: models.RoleStudent}
	repo.assessments.items[4] = openAssessment(4)
	if _, err := sessions.Start(ctx, 4, outsider); !errors.Is(err, ErrNotAssigned) {
		t.Errorf("Start(unassigned) = %v, want ErrNotAssigned", err)
	}
}

func TestSessionService_AnswerValidation(t *testing.T) {
	sessions, _, repo := newSessionFixture(t)
	ctx := context.Background()
	repo.assessments.items[1] = openAssessment(1)

	resp, err := sessions.Start(ctx, 1, student)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := sessions.Answer(ctx, resp.SessionID, 9, &SubmitAnswerRequest{OptionIndex: 0}, student.ID); !IsValidationError(err) {
		t.Errorf("Answer(out-of-range question) = %v, want validation error", err)
	}
	if err := sessions.Answer(ctx, resp.SessionID, 1, &SubmitAnswerRequest{OptionIndex: 7}, student.ID); !IsValidationError(err) {
		t.Errorf("Answer(out-of-range option) = %v, want validation error", err)
	}
	if err := sessions.Answer(ctx, resp.SessionID, 0, &SubmitAnswerRequest{OptionIndex: 0}, "student-2"); !IsPermissionError(err) {
		t.Errorf("Answer(wrong student) = %v, want permission error", err)
	}
	if err := sessions.Answer(ctx, "no-such-session", 0, &SubmitAnswerRequest{OptionIndex: 0}, student.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Answer(unknown session) = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionService_ExpiredSessionLeavesRegistry(t *testing.T) {
	sessions, results, repo := newSessionFixture(t)
	ctx := context.Background()

	assessment := openAssessment(1)
	assessment.EndTime = time.Now().Add(1500 * time.Millisecond)
	repo.assessments.items[1] = assessment

	resp, err := sessions.Start(ctx, 1, student)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := sessions.Answer(ctx, resp.SessionID, 0, &SubmitAnswerRequest{OptionIndex: 0}, student.ID); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	// The countdown expires and auto-submits in the background; the
	// session must then leave the registry on its own.
	deadline := time.Now().Add(6 * time.Second)
	for sessions.ActiveSessions() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("ActiveSessions() = %d after expiry, want 0", sessions.ActiveSessions())
		}
		time.Sleep(50 * time.Millisecond)
	}

	result, err := results.GetMine(ctx, 1, student.ID)
	if err != nil {
		t.Fatalf("GetMine() after auto-submit error = %v", err)
	}
	if result.Score != 1 {
		t.Errorf("auto-submitted Score = %d, want 1", result.Score)
	}
}

func TestResultService_DuplicateSubmission(t *testing.T) {
	_, results, repo := newSessionFixture(t)
	ctx := context.Background()
	repo.assessments.items[1] = openAssessment(1)

	first, err := results.SubmitAnswers(ctx, 1, student.ID, []int{0, 1, 2})
	if err != nil {
		t.Fatalf("SubmitAnswers() error = %v", err)
	}
	if first.Score != 3 {
		t.Errorf("Score = %d, want 3", first.Score)
	}

	_, err = results.SubmitAnswers(ctx, 1, student.ID, []int{0, 0, 0})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second SubmitAnswers() = %v, want ErrAlreadySubmitted", err)
	}

	// The stored result is the original one.
	stored, err := results.GetMine(ctx, 1, student.ID)
	if err != nil {
		t.Fatalf("GetMine() error = %v", err)
	}
	if stored.Score != 3 {
		t.Errorf("stored Score = %d, want 3 (first submission wins)", stored.Score)
	}
}

func TestResultService_ListByAssessmentGuards(t *testing.T) {
	_, results, repo := newSessionFixture(t)
	ctx := context.Background()

	open := openAssessment(1)
	open.CreatedBy = "prof-1"
	repo.assessments.items[1] = open

	// Window still open: even the creator must wait.
	if _, err := results.ListByAssessment(ctx, 1, "prof-1"); !errors.Is(err, ErrAssessmentNotEnded) {
		t.Errorf("ListByAssessment(open window) = %v, want ErrAssessmentNotEnded", err)
	}

	open.StartTime = time.Now().Add(-2 * time.Hour)
	open.EndTime = time.Now().Add(-time.Hour)

	if _, err := results.ListByAssessment(ctx, 1, "someone-else"); !IsPermissionError(err) {
		t.Errorf("ListByAssessment(not creator) = %v, want permission error", err)
	}
	if _, err := results.ListByAssessment(ctx, 1, "prof-1"); err != nil {
		t.Errorf("ListByAssessment(creator, ended) = %v, want success", err)
	}
}
