package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SmartEval-2025/assessment-platform/internal/models"
)

type stubResultService struct {
	ResultService
	results []*ResultResponse
	err     error
}

func (s *stubResultService) ListByAssessment(ctx context.Context, assessmentID uint, userID string) ([]*ResultResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func exportFixture() *stubResultService {
	completed := time.Date(2025, 3, 1, 11, 30, 0, 0, time.UTC)
	return &stubResultService{
		results: []*ResultResponse{
			{
				AssessmentResult: &models.AssessmentResult{StudentID: "student-1", Score: 3, CompletedAt: completed},
				TotalQuestions:   4,
				Percentage:       75.0,
			},
			{
				AssessmentResult: &models.AssessmentResult{StudentID: "student-2", Score: 4, CompletedAt: completed.Add(5 * time.Minute)},
				TotalQuestions:   4,
				Percentage:       100.0,
			},
		},
	}
}

func TestExportService_CSV(t *testing.T) {
	svc := NewExportService(exportFixture(), testLogger())

	data, filename, err := svc.ExportCSV(context.Background(), 1, "prof-1")
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if filename != "assessment_1_results.csv" {
		t.Errorf("filename = %q", filename)
	}

	want := "student_id,score,percentage,completed_at\n" +
		"student-1,3,75.00,2025-03-01T11:30:00Z\n" +
		"student-2,4,100.00,2025-03-01T11:35:00Z\n"
	if string(data) != want {
		t.Errorf("csv output:\n%s\nwant:\n%s", data, want)
	}
}

func TestExportService_CSVPassesThroughErrors(t *testing.T) {
	svc := NewExportService(&stubResultService{err: ErrAssessmentNotEnded}, testLogger())

	_, _, err := svc.ExportCSV(context.Background(), 1, "prof-1")
	if !errors.Is(err, ErrAssessmentNotEnded) {
		t.Errorf("ExportCSV() = %v, want ErrAssessmentNotEnded", err)
	}
}

func TestExportService_XLSX(t *testing.T) {
	svc := NewExportService(exportFixture(), testLogger())

	data, filename, err := svc.ExportXLSX(context.Background(), 1, "prof-1")
	if err != nil {
		t.Fatalf("ExportXLSX() error = %v", err)
	}
	if filename != "assessment_1_results.xlsx" {
		t.Errorf("filename = %q", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exported workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Results")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("workbook has %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "student_id" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][0] != "student-1" || rows[2][0] != "student-2" {
		t.Errorf("data rows = %v, %v", rows[1], rows[2])
	}
}
