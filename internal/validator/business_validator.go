package validator

import (
	"fmt"
	"time"
)

// MinAssessmentDuration is the shortest taking window an assessment may
// have.
const MinAssessmentDuration = 5 * time.Minute

// ValidateAssessmentWindow checks the rules that struct tags cannot
// express: window ordering, minimum duration, option ranges, and
// duplicate student assignment.
func ValidateAssessmentWindow(req *AssessmentCreateRequest) ValidationErrors {
	var errs ValidationErrors

	if !req.EndTime.After(req.StartTime) {
		errs = append(errs, FieldError{
			Field:   "EndTime",
			Rule:    "window_order",
			Message: "end_time must be after start_time",
		})
	} else if req.EndTime.Sub(req.StartTime) < MinAssessmentDuration {
		errs = append(errs, FieldError{
			Field:   "EndTime",
			Rule:    "window_duration",
			Message: fmt.Sprintf("taking window must be at least %s", MinAssessmentDuration),
		})
	}

	seen := make(map[string]struct{}, len(req.AssignedStudents))
	for _, email := range req.AssignedStudents {
		if _, dup := seen[email]; dup {
			errs = append(errs, FieldError{
				Field:   "AssignedStudents",
				Rule:    "unique",
				Message: fmt.Sprintf("student %s is assigned more than once", email),
			})
		}
		seen[email] = struct{}{}
	}

	for i, q := range req.Questions {
		if q.CorrectAnswer >= len(q.Options) {
			errs = append(errs, FieldError{
				Field:   "Questions",
				Rule:    "answer_range",
				Message: fmt.Sprintf("question %d: correct_answer %d is outside its %d options", i, q.CorrectAnswer, len(q.Options)),
			})
		}
	}

	return errs
}

// ValidateTaskWindow checks task scheduling rules.
func ValidateTaskWindow(start, end time.Time) ValidationErrors {
	if !end.After(start) {
		return ValidationErrors{{
			Field:   "EndAt",
			Rule:    "window_order",
			Message: "end_date_time must be after start_date_time",
		}}
	}
	return nil
}
