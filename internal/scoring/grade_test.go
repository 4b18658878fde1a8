package scoring

import (
	"testing"

	"github.com/SmartEval-2025/assessment-platform/internal/models"
)

func questionsWithAnswers(correct ...int) []models.Question {
	qs := make([]models.Question, len(correct))
	for i, c := range correct {
		qs[i] = models.Question{Position: i, CorrectAnswer: c}
	}
	return qs
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name    string
		answers []int
		correct []int
		want    int
	}{
		{
			name:    "three of four correct",
			answers: []int{0, 1, 9, 3},
			correct: []int{0, 1, 2, 3},
			want:    3,
		},
		{
			name:    "all correct",
			answers: []int{2, 2, 2},
			correct: []int{2, 2, 2},
			want:    3,
		},
		{
			name:    "unanswered slots count as wrong",
			answers: []int{0, Unanswered, Unanswered},
			correct: []int{0, 1, 2},
			want:    1,
		},
		{
			name:    "short answer vector",
			answers: []int{0, 1},
			correct: []int{0, 1, 2, 3},
			want:    2,
		},
		{
			name:    "empty",
			answers: nil,
			correct: nil,
			want:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Grade(tt.answers, questionsWithAnswers(tt.correct...)); got != tt.want {
				t.Errorf("Grade() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(3, 4); got != 75.0 {
		t.Errorf("Percentage(3, 4) = %v, want 75", got)
	}
	if got := Percentage(0, 0); got != 0 {
		t.Errorf("Percentage(0, 0) = %v, want 0", got)
	}
}

func TestLetter(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "A"},
		{90, "A"},
		{89.9, "B"},
		{80, "B"},
		{75, "C"},
		{70, "C"},
		{60, "D"},
		{59.9, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		if got := Letter(tt.pct); got != tt.want {
			t.Errorf("Letter(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}
