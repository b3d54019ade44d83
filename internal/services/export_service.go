package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService renders a class analytics report as a downloadable
// workbook for teachers who want the data outside the dashboard.
type ExportService interface {
	ExportClassReport(ctx context.Context, assignmentID string) ([]byte, string, error)
}

type exportService struct {
	analytics AnalyticsService
	logger    *slog.Logger
}

func NewExportService(analytics AnalyticsService, logger *slog.Logger) ExportService {
	return &exportService{
		analytics: analytics,
		logger:    logger,
	}
}

// ExportClassReport builds the report and writes it to an xlsx workbook.
// Returns the file contents and a suggested filename.
func (s *exportService) ExportClassReport(ctx context.Context, assignmentID string) ([]byte, string, error) {
	report, err := s.analytics.ClassReport(ctx, assignmentID)
	if err != nil && !errors.Is(err, ErrPartialAnalyticsFailure) {
		return nil, "", err
	}

	f := excelize.NewFile()

	if err := s.writeSummarySheet(f, report); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerationFailed, err)
	}
	if err := s.writeStudentSheet(f, report); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerationFailed, err)
	}
	if err := s.writeMistakesSheet(f, report); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerationFailed, err)
	}

	// Drop the default sheet created by NewFile
	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to write workbook: %v", ErrExportGenerationFailed, err)
	}

	filename := fmt.Sprintf("class-report-%s.xlsx", sanitizeFilename(report.AssignmentTitle))
	s.logger.Info("Class report exported",
		"assignment_id", assignmentID,
		"students", len(report.Students),
		"bytes", buf.Len())

	return buf.Bytes(), filename, nil
}

func (s *exportService) writeSummarySheet(f *excelize.File, report *models.ClassAnalyticsReport) error {
	sheetName := "Summary"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	rows := [][]interface{}{
		{"Assignment", report.AssignmentTitle},
		{"Total Students", report.TotalStudents},
		{"Topics", len(report.Topics)},
		{"Lessons Completed", report.CompletionStats.LessonsCompleted},
		{"Practice Completed", report.CompletionStats.PracticeCompleted},
		{"Tests Completed", report.CompletionStats.TestsCompleted},
		{"Fully Mastered", report.CompletionStats.FullyMastered},
		{"Average Practice Accuracy", report.AccuracyStats.AveragePracticeAccuracy},
		{"Average Test Accuracy", report.AccuracyStats.AverageTestAccuracy},
		{"Highest Performer", report.AccuracyStats.HighestPerformer},
		{"Needs Attention", strings.Join(report.AccuracyStats.NeedsAttention, ", ")},
		{"Total Sessions", report.EngagementStats.TotalSessions},
		{"Total Time (minutes)", report.EngagementStats.TotalTimeMinutes},
		{"Total Gems Awarded", report.EngagementStats.TotalGemsAwarded},
		{"Average Attempts per Topic", report.EngagementStats.AverageAttemptsPerTopic},
		{"Generated At", report.GeneratedAt.Format("2006-01-02 15:04:05")},
	}

	for rowIndex, row := range rows {
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+1)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	return nil
}

func (s *exportService) writeStudentSheet(f *excelize.File, report *models.ClassAnalyticsReport) error {
	sheetName := "Students"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"Student", "Completion %", "Average Accuracy %", "Mastery Level",
		"Gems Earned", "Time Spent (min)", "Last Activity",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, student := range report.Students {
		lastActivity := ""
		if student.LastActivity != nil {
			lastActivity = student.LastActivity.Format("2006-01-02 15:04:05")
		}
		row := []interface{}{
			student.StudentName,
			student.OverallCompletion,
			student.AverageAccuracy,
			string(student.MasteryLevel),
			student.TotalGemsEarned,
			student.TotalTimeSpent / 60,
			lastActivity,
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	return nil
}

func (s *exportService) writeMistakesSheet(f *excelize.File, report *models.ClassAnalyticsReport) error {
	sheetName := "Common Mistakes"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{"Question", "Type", "Incorrect Count", "Total Attempts", "Fail Rate %"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, mistake := range report.CommonMistakes {
		row := []interface{}{
			mistake.Question,
			mistake.Type,
			mistake.IncorrectCount,
			mistake.TotalAttempts,
			mistake.FailRate,
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	return nil
}

func sanitizeFilename(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "report"
	}
	return b.String()
}
