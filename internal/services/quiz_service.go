package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/quizlab/quiz-service/internal/models"
	"github.com/quizlab/quiz-service/internal/repositories"
	"github.com/quizlab/quiz-service/internal/validator"
)

type quizService struct {
	repo      repositories.RepositoryManager
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuizService(repo repositories.RepositoryManager, db *gorm.DB, logger *slog.Logger, v *validator.Validator) QuizService {
	return &quizService{repo: repo, db: db, logger: logger, validator: v}
}

func (s *quizService) Create(ctx context.Context, req *validator.QuizCreateRequest, principal models.Principal) (*models.Quiz, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}
	if !principal.IsTeacher() {
		return nil, NewPermissionError(principal.Username, "quiz", 0, "create", "teacher role required")
	}

	quiz := quizFromRequest(req.Title, req.Questions)
	quiz.CreatedBy = principal.Username

	if err := s.repo.Quiz().Create(ctx, nil, quiz); err != nil {
		s.logger.Error("quiz create failed", "title", req.Title, "error", err)
		return nil, fmt.Errorf("%w: persisting quiz", ErrStorageFailure)
	}

	s.logger.Info("quiz created", "quiz_id", quiz.ID, "by", principal.Username)
	return quiz, nil
}

// Update replaces the quiz tree wholesale inside one transaction: the
// old questions go away and the submitted ones take their place.
// Existing attempts keep their answer rows; review degrades per
// answer when the referenced options are gone.
func (s *quizService) Update(ctx context.Context, id uint, req *validator.QuizUpdateRequest, principal models.Principal) (*models.Quiz, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}
	if !principal.IsTeacher() {
		return nil, NewPermissionError(principal.Username, "quiz", id, "update", "teacher role required")
	}

	existing, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("load quiz %d: %w", id, err)
	}

	updated := quizFromRequest(req.Title, req.Questions)
	updated.ID = existing.ID
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id IN (SELECT id FROM questions WHERE quiz_id = ?)", id).Delete(&models.AnswerOption{}).Error; err != nil {
			return fmt.Errorf("clear options: %w", err)
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("clear questions: %w", err)
		}
		return s.repo.Quiz().Update(ctx, tx, updated)
	})
	if err != nil {
		s.logger.Error("quiz update failed", "quiz_id", id, "error", err)
		return nil, fmt.Errorf("%w: updating quiz", ErrStorageFailure)
	}

	s.logger.Info("quiz updated", "quiz_id", id, "by", principal.Username)
	return updated, nil
}

func (s *quizService) Delete(ctx context.Context, id uint, principal models.Principal) error {
	if !principal.IsTeacher() {
		return NewPermissionError(principal.Username, "quiz", id, "delete", "teacher role required")
	}

	deleted, err := s.repo.Quiz().Delete(ctx, nil, id)
	if err != nil {
		s.logger.Error("quiz delete failed", "quiz_id", id, "error", err)
		return fmt.Errorf("%w: deleting quiz", ErrStorageFailure)
	}
	if !deleted {
		return ErrQuizNotFound
	}

	s.logger.Info("quiz deleted", "quiz_id", id, "by", principal.Username)
	return nil
}

func (s *quizService) List(ctx context.Context) ([]QuizSummary, error) {
	quizzes, err := s.repo.Quiz().GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, QuizSummary{
			ID:            quiz.ID,
			Title:         quiz.Title,
			QuestionCount: len(quiz.Questions),
		})
	}
	return summaries, nil
}

// GetForTaking serves a quiz with the answer key stripped.
func (s *quizService) GetForTaking(ctx context.Context, id uint) (*QuizForTaking, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("load quiz %d: %w", id, err)
	}

	out := &QuizForTaking{
		ID:        quiz.ID,
		Title:     quiz.Title,
		Questions: make([]QuestionForTaking, 0, len(quiz.Questions)),
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		qt := QuestionForTaking{
			ID:       q.ID,
			Text:     q.Text,
			ImageURL: q.ImageURL,
			Options:  make([]OptionForTaking, 0, len(q.AnswerOptions)),
		}
		for j := range q.AnswerOptions {
			qt.Options = append(qt.Options, OptionForTaking{
				ID:   q.AnswerOptions[j].ID,
				Text: q.AnswerOptions[j].Text,
			})
		}
		out.Questions = append(out.Questions, qt)
	}
	return out, nil
}

func quizFromRequest(title string, questions []validator.QuestionCreateRequest) *models.Quiz {
	quiz := &models.Quiz{Title: title}
	for _, qr := range questions {
		q := models.Question{
			Text:     qr.Text,
			ImageURL: qr.ImageURL,
			Order:    qr.Order,
		}
		for _, or := range qr.AnswerOptions {
			q.AnswerOptions = append(q.AnswerOptions, models.AnswerOption{
				Text:      or.Text,
				IsCorrect: or.IsCorrect,
				Order:     or.Order,
			})
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz
}
