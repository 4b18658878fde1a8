package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/SmartEval-2025/assessment-platform/internal/events"
	"github.com/SmartEval-2025/assessment-platform/internal/models"
	"github.com/SmartEval-2025/assessment-platform/internal/repositories"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

type fakeTaskRepo struct {
	mu     sync.Mutex
	nextID uint
	items  map[uint]*models.Task
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	task.ID = f.nextID
	copied := *task
	f.items[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) ListByStudent(ctx context.Context, studentID string, filters repositories.TaskFilters) ([]*models.Task, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Task
	for _, task := range f.items {
		if task.StudentID != studentID {
			continue
		}
		if filters.Status != nil && task.Status != *filters.Status {
			continue
		}
		copied := *task
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndAt.Before(out[j].EndAt) })
	return out, int64(len(out)), nil
}

func (f *fakeTaskRepo) ListDueSoon(ctx context.Context, studentID string, within time.Duration) ([]*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	var out []*models.Task
	for _, task := range f.items {
		if task.StudentID != studentID || task.Status == models.TaskCompleted {
			continue
		}
		if task.EndAt.After(now) && !task.EndAt.After(now.Add(within)) {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[task.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *task
	f.items[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.items, id)
	return nil
}

func newTaskFixture(t *testing.T) (TaskService, *events.MockEventPublisher) {
	t.Helper()
	repo := newFakeRepository()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	eventService := NewNotificationEventService(publisher, logger)
	return NewTaskService(repo, nil, logger, validator.New(), eventService), publisher
}

func TestTaskService_CreateRoundTrip(t *testing.T) {
	svc, _ := newTaskFixture(t)
	ctx := context.Background()

	desc := "review chapter 4"
	start := time.Now().Add(time.Hour).Truncate(time.Second)
	end := start.Add(2 * time.Hour)
	created, err := svc.Create(ctx, &CreateTaskRequest{
		Title:       "Revision",
		Description: &desc,
		StartAt:     start,
		EndAt:       end,
		Priority:    "HIGH",
	}, "student-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Create() did not assign an ID")
	}

	got, err := svc.GetByID(ctx, created.ID, "student-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Revision" || got.Description == nil || *got.Description != desc {
		t.Errorf("round trip lost title/description: %+v", got.Task)
	}
	if !got.StartAt.Equal(start) || !got.EndAt.Equal(end) {
		t.Errorf("round trip changed window: got %v..%v, want %v..%v", got.StartAt, got.EndAt, start, end)
	}
	if got.Status != models.TaskPending {
		t.Errorf("new task status = %q, want %q", got.Status, models.TaskPending)
	}
	if got.Priority != models.PriorityHigh {
		t.Errorf("priority = %q, want %q", got.Priority, models.PriorityHigh)
	}
	if got.Overdue {
		t.Error("task with a future deadline reported overdue")
	}
}

func TestTaskService_CreateDefaultsPriority(t *testing.T) {
	svc, _ := newTaskFixture(t)

	created, err := svc.Create(context.Background(), &CreateTaskRequest{
		Title:   "Untriaged",
		StartAt: time.Now().Add(time.Hour),
		EndAt:   time.Now().Add(3 * time.Hour),
	}, "student-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Priority != models.PriorityMedium {
		t.Errorf("default priority = %q, want %q", created.Priority, models.PriorityMedium)
	}
}

func TestTaskService_CreateRejectsInvertedWindow(t *testing.T) {
	svc, _ := newTaskFixture(t)

	_, err := svc.Create(context.Background(), &CreateTaskRequest{
		Title:   "Backwards",
		StartAt: time.Now().Add(2 * time.Hour),
		EndAt:   time.Now().Add(time.Hour),
	}, "student-1")
	if !IsValidationError(err) {
		t.Fatalf("Create() error = %v, want validation error", err)
	}
}

func TestTaskService_CompleteIsNotOverdueAndConflictsOnRepeat(t *testing.T) {
	svc, _ := newTaskFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateTaskRequest{
		Title:   "Submit report",
		StartAt: time.Now().Add(-2 * time.Hour),
		EndAt:   time.Now().Add(-time.Hour),
	}, "student-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !created.Overdue {
		t.Fatal("task past its deadline should report overdue before completion")
	}

	done, err := svc.Complete(ctx, created.ID, "student-1")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if done.Status != models.TaskCompleted {
		t.Errorf("status after complete = %q, want %q", done.Status, models.TaskCompleted)
	}
	if done.CompletedAt == nil {
		t.Error("CompletedAt not set on completion")
	}
	if done.Overdue {
		t.Error("completed task must not report overdue")
	}

	if _, err := svc.Complete(ctx, created.ID, "student-1"); err != ErrTaskAlreadyComplete {
		t.Errorf("second Complete() error = %v, want ErrTaskAlreadyComplete", err)
	}
}

func TestTaskService_OwnershipEnforced(t *testing.T) {
	svc, _ := newTaskFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateTaskRequest{
		Title:   "Private",
		StartAt: time.Now().Add(time.Hour),
		EndAt:   time.Now().Add(2 * time.Hour),
	}, "student-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.GetByID(ctx, created.ID, "student-2"); !IsPermissionError(err) {
		t.Errorf("GetByID() by another student error = %v, want permission error", err)
	}
	if err := svc.Delete(ctx, created.ID, "student-2"); !IsPermissionError(err) {
		t.Errorf("Delete() by another student error = %v, want permission error", err)
	}
	if _, err := svc.GetByID(ctx, 999, "student-1"); err != ErrTaskNotFound {
		t.Errorf("GetByID() unknown id error = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskService_ListDueSoonPublishesEvents(t *testing.T) {
	svc, publisher := newTaskFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &CreateTaskRequest{
		Title:   "Due tonight",
		StartAt: time.Now().Add(-time.Hour),
		EndAt:   time.Now().Add(6 * time.Hour),
	}, "student-1"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, &CreateTaskRequest{
		Title:   "Due next week",
		StartAt: time.Now().Add(-time.Hour),
		EndAt:   time.Now().Add(7 * 24 * time.Hour),
	}, "student-1"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	due, err := svc.ListDueSoon(ctx, "student-1", 24*time.Hour)
	if err != nil {
		t.Fatalf("ListDueSoon() error = %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("ListDueSoon() returned %d tasks, want 1", len(due))
	}
	if due[0].Title != "Due tonight" {
		t.Errorf("ListDueSoon() returned %q, want %q", due[0].Title, "Due tonight")
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	if published[0].Type != events.TypeTaskDueSoon {
		t.Errorf("event type = %q, want %q", published[0].Type, events.TypeTaskDueSoon)
	}
}
