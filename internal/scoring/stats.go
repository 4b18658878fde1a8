package scoring

import (
	"time"

	"github.com/SmartEval-2025/assessment-platform/internal/models"
)

// AssessmentStats aggregates one assessment's results against its
// question count and assigned-student set.
type AssessmentStats struct {
	TotalStudents     int            `json:"total_students"`
	Submitted         int            `json:"submitted"`
	SubmissionRate    float64        `json:"submission_rate"`
	AverageScore      float64        `json:"average_score"`
	AveragePercentage float64        `json:"average_percentage"`
	HighestScore      int            `json:"highest_score"`
	LowestScore       int            `json:"lowest_score"`
	TotalQuestions    int            `json:"total_questions"`
	GradeDistribution map[string]int `json:"grade_distribution"`
}

// AggregateAssessment derives per-assessment statistics. Highest and
// lowest are raw scores; ties are not broken. Every result lands in
// exactly one grade bucket, so the bucket counts sum to len(results).
func AggregateAssessment(results []*models.AssessmentResult, questionCount, assignedCount int) AssessmentStats {
	stats := AssessmentStats{
		TotalStudents:  assignedCount,
		Submitted:      len(results),
		TotalQuestions: questionCount,
		GradeDistribution: map[string]int{
			"A": 0, "B": 0, "C": 0, "D": 0, "F": 0,
		},
	}

	if assignedCount > 0 {
		stats.SubmissionRate = float64(len(results)) / float64(assignedCount) * 100
	}
	if len(results) == 0 {
		return stats
	}

	totalScore := 0
	stats.HighestScore = results[0].Score
	stats.LowestScore = results[0].Score
	for _, r := range results {
		totalScore += r.Score
		if r.Score > stats.HighestScore {
			stats.HighestScore = r.Score
		}
		if r.Score < stats.LowestScore {
			stats.LowestScore = r.Score
		}
		stats.GradeDistribution[Letter(Percentage(r.Score, questionCount))]++
	}

	stats.AverageScore = float64(totalScore) / float64(len(results))
	if questionCount > 0 {
		stats.AveragePercentage = stats.AverageScore / float64(questionCount) * 100
	}
	return stats
}

// StudentStats summarizes one student's results across assessments.
type StudentStats struct {
	TotalCompleted int `json:"total_completed"`
	SuccessRate    int `json:"success_rate"` // 0-100
	CurrentStreak  int `json:"current_streak"`
	BestStreak     int `json:"best_streak"`
}

// AggregateStudent computes success rate and streaks for one student.
// questionCounts maps assessment ID to its question count; results
// whose assessment is unknown score against a zero paper and count as
// unsuccessful. "Today" is passed in so callers and tests pin the
// evaluation day.
func AggregateStudent(results []*models.AssessmentResult, questionCounts map[uint]int, today time.Time) StudentStats {
	stats := StudentStats{TotalCompleted: len(results)}
	if len(results) == 0 {
		return stats
	}

	successful := 0
	for _, r := range results {
		if Percentage(r.Score, questionCounts[r.AssessmentID]) >= SuccessThreshold {
			successful++
		}
	}
	rate := successful * 100 / len(results)
	if rate > 100 {
		rate = 100
	}
	stats.SuccessRate = rate

	dates := make([]time.Time, 0, len(results))
	for _, r := range results {
		dates = append(dates, r.CompletedAt)
	}
	stats.CurrentStreak, stats.BestStreak = Streaks(dates, today)
	return stats
}
