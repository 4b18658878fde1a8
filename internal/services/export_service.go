package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

type exportService struct {
	results ResultService
	logger  *slog.Logger
}

func NewExportService(results ResultService, logger *slog.Logger) ExportService {
	return &exportService{
		results: results,
		logger:  logger,
	}
}

var exportHeader = []string{"student_id", "score", "percentage", "completed_at"}

// ExportCSV renders the assessment's results as CSV: header row first,
// then one row per submission in completion order.
func (s *exportService) ExportCSV(ctx context.Context, assessmentID uint, userID string) ([]byte, string, error) {
	rows, err := s.exportRows(ctx, assessmentID, userID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush csv: %w", err)
	}

	filename := fmt.Sprintf("assessment_%d_results.csv", assessmentID)
	return buf.Bytes(), filename, nil
}

// ExportXLSX renders the same table as a spreadsheet.
func (s *exportService) ExportXLSX(ctx context.Context, assessmentID uint, userID string) ([]byte, string, error) {
	rows, err := s.exportRows(ctx, assessmentID, userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, "", fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, "", fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("assessment_%d_results.xlsx", assessmentID)
	return buf.Bytes(), filename, nil
}

// exportRows builds the shared row set. Access control (creator only,
// window ended) is enforced by the result listing.
func (s *exportService) exportRows(ctx context.Context, assessmentID uint, userID string) ([][]string, error) {
	results, err := s.results.ListByAssessment(ctx, assessmentID, userID)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.StudentID,
			strconv.Itoa(r.Score),
			strconv.FormatFloat(r.Percentage, 'f', 2, 64),
			r.CompletedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows, nil
}
