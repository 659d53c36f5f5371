package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/quizlab/quiz-service/internal/cache"
	"github.com/quizlab/quiz-service/internal/models"
	"github.com/quizlab/quiz-service/internal/repositories"
)

type quizRepository struct {
	db     *gorm.DB
	cache  *cache.CacheManager
	logger *slog.Logger
}

func NewQuizRepository(db *gorm.DB, cacheManager *cache.CacheManager, logger *slog.Logger) repositories.QuizRepository {
	return &quizRepository{db: db, cache: cacheManager, logger: logger}
}

func (r *quizRepository) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(quiz).Error; err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}
	return nil
}

func (r *quizRepository) Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(quiz).Error; err != nil {
		return fmt.Errorf("update quiz %d: %w", quiz.ID, err)
	}
	r.invalidate(ctx, quiz.ID)
	return nil
}

func (r *quizRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := getDB(r.db, tx)
	res := db.WithContext(ctx).Select("Questions", "Questions.AnswerOptions").Delete(&models.Quiz{ID: id})
	if res.Error != nil {
		return false, fmt.Errorf("delete quiz %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	r.invalidate(ctx, id)
	return true, nil
}

// GetByID serves the full quiz graph, cache-aside when a cache is
// configured. The graph is what scoring and taking both need.
func (r *quizRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	if r.cache != nil && tx == nil {
		var quiz models.Quiz
		err := r.cache.Quiz.CacheOrExecute(ctx, cache.QuizKey(id), &quiz, cache.QuizTTL, func() (interface{}, error) {
			return r.fetchByID(ctx, nil, id)
		})
		if err != nil {
			return nil, err
		}
		return &quiz, nil
	}
	return r.fetchByID(ctx, tx, id)
}

func (r *quizRepository) fetchByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	db := getDB(r.db, tx)
	var quiz models.Quiz
	err := db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.\"order\" ASC, questions.id ASC")
		}).
		Preload("Questions.AnswerOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.\"order\" ASC, answer_options.id ASC")
		}).
		First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("get quiz %d: %w", id, err)
	}
	return &quiz, nil
}

func (r *quizRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*models.Quiz, error) {
	db := getDB(r.db, tx)
	var quizzes []*models.Quiz
	err := db.WithContext(ctx).
		Preload("Questions").
		Preload("Questions.AnswerOptions").
		Order("quizzes.id ASC").
		Find(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

func (r *quizRepository) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := getDB(r.db, tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Quiz{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check quiz %d: %w", id, err)
	}
	return count > 0, nil
}

func (r *quizRepository) invalidate(ctx context.Context, id uint) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Quiz.Delete(ctx, cache.QuizKey(id)); err != nil {
		r.logger.Warn("quiz cache invalidation failed", "quiz_id", id, "error", err)
	}
}
