package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/quizlab/quiz-service/internal/cache"
	"github.com/quizlab/quiz-service/internal/repositories"
)

// Manager owns the gorm handle and hands out the per-aggregate
// repositories. A nil cache manager disables the quiz read cache.
type Manager struct {
	db     *gorm.DB
	logger *slog.Logger

	quiz    repositories.QuizRepository
	attempt repositories.AttemptRepository
}

func NewManager(db *gorm.DB, cacheManager *cache.CacheManager, logger *slog.Logger) *Manager {
	return &Manager{
		db:      db,
		logger:  logger,
		quiz:    NewQuizRepository(db, cacheManager, logger),
		attempt: NewAttemptRepository(db, logger),
	}
}

func (m *Manager) Quiz() repositories.QuizRepository       { return m.quiz }
func (m *Manager) Attempt() repositories.AttemptRepository { return m.attempt }
func (m *Manager) DB() *gorm.DB                            { return m.db }

func (m *Manager) Health(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}

// getDB prefers an explicit transaction handle over the base one so
// repository methods compose inside service-level transactions.
func getDB(base, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return base
}
