package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/quizlab/quiz-service/internal/events"
	"github.com/quizlab/quiz-service/internal/models"
	"github.com/quizlab/quiz-service/internal/repositories"
	"github.com/quizlab/quiz-service/internal/validator"
)

type attemptService struct {
	repo      repositories.RepositoryManager
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewAttemptService(
	repo repositories.RepositoryManager,
	db *gorm.DB,
	logger *slog.Logger,
	v *validator.Validator,
	publisher events.EventPublisher,
) AttemptService {
	return &attemptService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

func (s *attemptService) Score(ctx context.Context, req *validator.QuizSubmissionRequest) (*ScoreResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, req.QuizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("load quiz %d: %w", req.QuizID, err)
	}

	return &ScoreResponse{
		QuizID:         quiz.ID,
		Score:          ScoreSubmission(quiz, req.Answers),
		TotalQuestions: len(quiz.Questions),
	}, nil
}

// SaveAttempt scores the submission server-side and persists it under
// the caller's identity. The client never supplies the username, the
// score, or the timestamp.
func (s *attemptService) SaveAttempt(ctx context.Context, req *validator.SaveAttemptRequest, principal models.Principal) (*AttemptResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}
	if !principal.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, req.QuizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("load quiz %d: %w", req.QuizID, err)
	}

	attempt := buildAttemptRecord(quiz, req, principal)

	if err := s.repo.Attempt().Create(ctx, nil, attempt); err != nil {
		s.logger.Error("attempt create failed", "quiz_id", quiz.ID, "user", attempt.UserName, "error", err)
		return nil, fmt.Errorf("%w: persisting attempt", ErrStorageFailure)
	}

	s.publishEvent(ctx, events.TypeAttemptSaved, events.AttemptSavedData{
		AttemptID:   attempt.ID,
		QuizID:      quiz.ID,
		UserName:    attempt.UserName,
		Score:       attempt.Score,
		SubmittedAt: attempt.SubmittedAt,
	})

	s.logger.Info("attempt saved",
		"attempt_id", attempt.ID,
		"quiz_id", quiz.ID,
		"user", attempt.UserName,
		"score", attempt.Score)

	resp := toAttemptResponse(attempt, quiz)
	return &resp, nil
}

// buildAttemptRecord assembles the persisted attempt from the quiz,
// the submission, and the authenticated principal. SubmittedAt is
// taken here, in UTC, never from the client.
func buildAttemptRecord(quiz *models.Quiz, req *validator.SaveAttemptRequest, principal models.Principal) *models.QuizResult {
	attempt := &models.QuizResult{
		QuizID:          quiz.ID,
		UserName:        strings.TrimSpace(principal.Username),
		Score:           ScoreSubmission(quiz, req.Answers),
		SubmittedAt:     time.Now().UTC(),
		TimeUsedSeconds: req.TimeUsedSeconds,
	}
	if len(req.ClientMeta) > 0 {
		attempt.ClientMeta = datatypes.JSON(req.ClientMeta)
	}
	for questionID, optionID := range req.Answers {
		attempt.Answers = append(attempt.Answers, models.QuizResultAnswer{
			QuestionID:     questionID,
			AnswerOptionID: optionID,
		})
	}
	return attempt
}

func (s *attemptService) ListAttempts(ctx context.Context, quizID uint, params repositories.AttemptQueryParams, principal models.Principal) (*AttemptListResponse, error) {
	exists, err := s.repo.Quiz().Exists(ctx, nil, quizID)
	if err != nil {
		return nil, fmt.Errorf("check quiz %d: %w", quizID, err)
	}
	if !exists {
		return nil, ErrQuizNotFound
	}

	attempts, err := s.repo.Attempt().ListByQuiz(ctx, nil, quizID)
	if err != nil {
		return nil, fmt.Errorf("list attempts for quiz %d: %w", quizID, err)
	}

	page := PlanAttemptPage(attempts, params, principal)

	rows := make([]AttemptResponse, 0, len(page.Items))
	for _, attempt := range page.Items {
		rows = append(rows, toAttemptResponse(attempt, attempt.Quiz))
	}

	return &AttemptListResponse{
		Attempts: rows,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

func (s *attemptService) GetAttemptDetail(ctx context.Context, id uint, principal models.Principal) (*AttemptDetail, error) {
	attempt, err := s.repo.Attempt().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("load attempt %d: %w", id, err)
	}

	return BuildAttemptDetail(attempt, principal)
}

func (s *attemptService) DeleteAttempt(ctx context.Context, id uint, principal models.Principal) error {
	if !principal.IsTeacher() {
		return NewPermissionError(principal.Username, "attempt", id, "delete", "teacher role required")
	}

	deleted, err := s.repo.Attempt().DeleteByID(ctx, nil, id)
	if err != nil {
		s.logger.Error("attempt delete failed", "attempt_id", id, "error", err)
		return fmt.Errorf("%w: deleting attempt", ErrStorageFailure)
	}
	if !deleted {
		return ErrAttemptNotFound
	}

	s.publishEvent(ctx, events.TypeAttemptDeleted, events.AttemptDeletedData{
		AttemptID: id,
		DeletedBy: principal.Username,
	})

	s.logger.Info("attempt deleted", "attempt_id", id, "by", principal.Username)
	return nil
}

// publishEvent is best-effort: a broker outage must not fail the
// user-facing operation.
func (s *attemptService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	event := events.NewEvent(eventType, data)
	if err := s.publisher.Publish(ctx, events.TopicAttempts, event); err != nil {
		s.logger.Warn("event publish failed", "type", eventType, "error", err)
	}
}

func toAttemptResponse(attempt *models.QuizResult, quiz *models.Quiz) AttemptResponse {
	resp := AttemptResponse{
		QuizResultID:    attempt.ID,
		QuizID:          attempt.QuizID,
		UserName:        attempt.UserName,
		Score:           attempt.Score,
		SubmittedAt:     attempt.SubmittedAt,
		TimeUsedSeconds: attempt.TimeUsedSeconds,
	}
	if quiz != nil {
		resp.QuizTitle = quiz.Title
		resp.TotalQuestions = len(quiz.Questions)
		if resp.TotalQuestions > 0 {
			pct := float64(attempt.Score) / float64(resp.TotalQuestions) * 100
			resp.Percentage = math.Round(pct*100) / 100
		}
	}
	return resp
}
