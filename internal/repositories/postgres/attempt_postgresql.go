package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/quizlab/quiz-service/internal/models"
	"github.com/quizlab/quiz-service/internal/repositories"
)

type attemptRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewAttemptRepository(db *gorm.DB, logger *slog.Logger) repositories.AttemptRepository {
	return &attemptRepository{db: db, logger: logger}
}

// Create writes the attempt and its answer rows atomically. When a
// caller already holds a transaction it is reused; otherwise one is
// opened here so a failed answer insert never leaves a headless
// attempt behind.
func (r *attemptRepository) Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizResult) error {
	if tx != nil {
		return r.createIn(ctx, tx, attempt)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.createIn(ctx, tx, attempt)
	})
}

func (r *attemptRepository) createIn(ctx context.Context, tx *gorm.DB, attempt *models.QuizResult) error {
	if err := tx.WithContext(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("create attempt: %w", err)
	}
	return nil
}

func (r *attemptRepository) DeleteByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := getDB(r.db, tx)
	var deleted bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_result_id = ?", id).Delete(&models.QuizResultAnswer{}).Error; err != nil {
			return fmt.Errorf("delete attempt answers: %w", err)
		}
		res := tx.Delete(&models.QuizResult{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete attempt: %w", res.Error)
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *attemptRepository) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizResult, error) {
	db := getDB(r.db, tx)
	var attempt models.QuizResult
	err := db.WithContext(ctx).
		Preload("Quiz").
		Preload("Quiz.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.\"order\" ASC, questions.id ASC")
		}).
		Preload("Quiz.Questions.AnswerOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.\"order\" ASC, answer_options.id ASC")
		}).
		Preload("Answers").
		First(&attempt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("get attempt %d: %w", id, err)
	}
	return &attempt, nil
}

func (r *attemptRepository) ListByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]*models.QuizResult, error) {
	db := getDB(r.db, tx)
	var attempts []*models.QuizResult
	err := db.WithContext(ctx).
		Preload("Quiz").
		Preload("Quiz.Questions").
		Where("quiz_id = ?", quizID).
		Order("quiz_results.id ASC").
		Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("list attempts for quiz %d: %w", quizID, err)
	}
	return attempts, nil
}
