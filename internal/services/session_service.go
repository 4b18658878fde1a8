package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
	"github.com/SmartEval-2025/assessment-platform/internal/schedule"
	"github.com/SmartEval-2025/assessment-platform/internal/taking"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

// sessionService keeps the in-memory registry of live taking sessions.
// Each session owns one countdown goroutine; submission, expiry, and
// shutdown all tear the session down through the same path.
type sessionService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	results   ResultService

	mu       sync.RWMutex
	sessions map[string]*taking.Session
	byOwner  map[string]string // "assessmentID:studentID" -> session ID
}

func NewSessionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, results ResultService) SessionService {
	return &sessionService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		results:   results,
		sessions:  make(map[string]*taking.Session),
		byOwner:   make(map[string]string),
	}
}

func ownerKey(assessmentID uint, studentID string) string {
	return fmt.Sprintf("%d:%s", assessmentID, studentID)
}

// Start opens a taking session for one assigned student. The countdown
// runs until the assessment window ends, so a student joining late gets
// only the remaining time.
func (s *sessionService) Start(ctx context.Context, assessmentID uint, student *models.User) (*SessionResponse, error) {
	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, assessmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	if !assessment.IsAssigned(student.Email) {
		return nil, ErrNotAssigned
	}

	now := time.Now()
	switch schedule.Classify(now, assessment.StartTime, assessment.EndTime) {
	case schedule.PhaseFuture:
		return nil, ErrAssessmentUpcoming
	case schedule.PhasePast:
		return nil, ErrAssessmentHasEnded
	}

	submitted, err := s.results.HasSubmitted(ctx, assessmentID, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check submission: %w", err)
	}
	if submitted {
		return nil, ErrAlreadySubmitted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := ownerKey(assessmentID, student.ID)
	if existingID, ok := s.byOwner[key]; ok {
		if existing, live := s.sessions[existingID]; live && existing.State() == taking.TimerRunning {
			return s.sessionResponse(existing, assessment, now), nil
		}
	}

	studentID := student.ID
	dispatch := func(dispatchCtx context.Context, answers []int) error {
		_, err := s.results.SubmitAnswers(dispatchCtx, assessmentID, studentID, answers)
		if errors.Is(err, ErrAlreadySubmitted) {
			// Another path already got the answers in; the session's
			// goal is met.
			return nil
		}
		return err
	}

	session := taking.NewSession(
		uuid.New().String(),
		assessmentID,
		studentID,
		len(assessment.Questions),
		schedule.Remaining(now, assessment.EndTime),
		now,
		dispatch,
		s.logger,
	)
	// Expiry auto-submits in the background; the session must leave the
	// registry afterwards or expired entries accumulate forever.
	session.OnFinished = func() { s.remove(session) }
	s.sessions[session.ID] = session
	s.byOwner[key] = session.ID
	go session.Run()

	s.logger.Info("Taking session started",
		"session_id", session.ID,
		"assessment_id", assessmentID,
		"student_id", studentID,
		"time_remaining", schedule.Remaining(now, assessment.EndTime))

	return s.sessionResponse(session, assessment, now), nil
}

func (s *sessionService) Answer(ctx context.Context, sessionID string, questionIndex int, req *SubmitAnswerRequest, studentID string) error {
	if err := s.validator.Validate(req); err != nil {
		return NewValidationError("invalid answer", err)
	}

	session, err := s.ownedSession(sessionID, studentID)
	if err != nil {
		return err
	}

	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, session.AssessmentID)
	if err != nil {
		return fmt.Errorf("failed to get assessment: %w", err)
	}
	if questionIndex < 0 || questionIndex >= len(assessment.Questions) {
		return NewValidationError(fmt.Sprintf("question index %d out of range", questionIndex), nil)
	}
	if req.OptionIndex >= len(assessment.Questions[questionIndex].Options) {
		return NewValidationError(fmt.Sprintf("option index %d out of range", req.OptionIndex), nil)
	}

	if err := session.Answer(questionIndex, req.OptionIndex); err != nil {
		if errors.Is(err, taking.ErrSessionClosed) {
			return ErrAssessmentHasEnded
		}
		return err
	}
	return nil
}

func (s *sessionService) Progress(ctx context.Context, sessionID string, studentID string) (*SessionProgressResponse, error) {
	session, err := s.ownedSession(sessionID, studentID)
	if err != nil {
		return nil, err
	}

	assessment, err := s.repo.Assessment().GetByIDWithQuestions(ctx, session.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	return &SessionProgressResponse{
		SessionID:     session.ID,
		TimeRemaining: session.Remaining(time.Now()),
		Answered:      session.Answered(),
		Total:         len(assessment.Questions),
		Submitted:     session.Submitted(),
	}, nil
}

// Submit finalizes the session by hand and returns the graded result.
func (s *sessionService) Submit(ctx context.Context, sessionID string, studentID string) (*ResultResponse, error) {
	session, err := s.ownedSession(sessionID, studentID)
	if err != nil {
		return nil, err
	}

	if err := session.Submit(ctx); err != nil {
		if errors.Is(err, taking.ErrAlreadyInFlight) {
			return nil, ErrAlreadySubmitted
		}
		return nil, err
	}

	s.remove(session)

	result, err := s.results.GetMine(ctx, session.AssessmentID, studentID)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *sessionService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown closes every live session without submitting. In-progress
// answers are lost by design: a crashed server must not fabricate
// submissions.
func (s *sessionService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		session.Close()
		delete(s.sessions, id)
	}
	s.byOwner = make(map[string]string)
	s.logger.Info("All taking sessions closed")
}

// ===== HELPERS =====

func (s *sessionService) ownedSession(sessionID, studentID string) (*taking.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.StudentID != studentID {
		return nil, NewPermissionError(studentID, session.AssessmentID, "session", "access", "session belongs to another student")
	}
	return session, nil
}

func (s *sessionService) remove(session *taking.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.Close()
	delete(s.sessions, session.ID)
	delete(s.byOwner, ownerKey(session.AssessmentID, session.StudentID))
}

func (s *sessionService) sessionResponse(session *taking.Session, assessment *models.Assessment, now time.Time) *SessionResponse {
	questions := make([]TakingQuestion, len(assessment.Questions))
	for i, q := range assessment.Questions {
		questions[i] = TakingQuestion{
			Index:   i,
			Text:    q.Text,
			Options: q.Options,
		}
	}
	return &SessionResponse{
		SessionID:     session.ID,
		AssessmentID:  assessment.ID,
		Title:         assessment.Title,
		Questions:     questions,
		TimeRemaining: session.Remaining(now),
	}
}
