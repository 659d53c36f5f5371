package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/quizlab/quiz-service/internal/models"
	"github.com/quizlab/quiz-service/internal/repositories"
)

type exportService struct {
	attempts AttemptService
	logger   *slog.Logger
}

func NewExportService(attempts AttemptService, logger *slog.Logger) ExportService {
	return &exportService{attempts: attempts, logger: logger}
}

// ExportAttempts renders the filtered attempt listing for a quiz as
// an xlsx workbook. Teacher only; the listing pipeline and its role
// scoping are reused as-is, with paging widened to cover everything
// the filters match.
func (s *exportService) ExportAttempts(ctx context.Context, quizID uint, params repositories.AttemptQueryParams, principal models.Principal) ([]byte, string, error) {
	if !principal.IsTeacher() {
		return nil, "", NewPermissionError(principal.Username, "attempts", quizID, "export", "teacher role required")
	}

	params.Page = 1
	params.PageSize = 1 << 20

	list, err := s.attempts.ListAttempts(ctx, quizID, params, principal)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attempts"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := []interface{}{"Attempt ID", "User", "Score", "Total Questions", "Percentage", "Submitted At (UTC)", "Time Used (s)"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, "", fmt.Errorf("write header: %w", err)
	}

	for i, row := range list.Attempts {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			row.QuizResultID,
			row.UserName,
			row.Score,
			row.TotalQuestions,
			row.Percentage,
			row.SubmittedAt.UTC().Format(time.RFC3339),
			row.TimeUsedSeconds,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, "", fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("serialize workbook: %w", err)
	}

	filename := fmt.Sprintf("quiz_%d_attempts_%s.xlsx", quizID, time.Now().UTC().Format("20060102_150405"))
	s.logger.Info("attempts exported", "quiz_id", quizID, "rows", len(list.Attempts), "by", principal.Username)

	return buf.Bytes(), filename, nil
}
