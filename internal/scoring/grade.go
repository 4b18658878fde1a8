// Package scoring holds the pure grading and statistics functions.
// Everything here is total over its documented inputs: empty result
// sets produce zero-valued outputs, never errors.
package scoring

import "github.com/SmartEval-2025/assessment-platform/internal/models"

// Unanswered is the sentinel for a blank answer slot.
const Unanswered = -1

// Grade counts exact index matches between the submitted answer vector
// and the question sequence. Sentinels and out-of-range indices never
// match; there is no partial credit. Extra trailing answers are
// ignored, missing ones score zero.
func Grade(answers []int, questions []models.Question) int {
	score := 0
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		if answers[i] == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// Percentage scores against the assigned question count. A student who
// leaves questions blank is scored against the full paper.
func Percentage(score, questionCount int) float64 {
	if questionCount == 0 {
		return 0
	}
	return float64(score) / float64(questionCount) * 100
}

// Letter buckets a percentage into the fixed grade partition. Each
// value of [0,100] lands in exactly one bucket; 90 is an A, not a B.
func Letter(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}

// SuccessThreshold is the percentage at or above which a result counts
// toward a student's success rate.
const SuccessThreshold = 70.0
