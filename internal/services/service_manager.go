package services

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/quizlab/quiz-service/internal/events"
	"github.com/quizlab/quiz-service/internal/repositories"
	"github.com/quizlab/quiz-service/internal/validator"
)

type serviceManager struct {
	quiz    QuizService
	attempt AttemptService
	export  ExportService
}

// NewDefaultServiceManager wires the services with their shared
// collaborators. The publisher may be nil; attempt events are then
// skipped.
func NewDefaultServiceManager(
	repo repositories.RepositoryManager,
	db *gorm.DB,
	logger *slog.Logger,
	v *validator.Validator,
	publisher events.EventPublisher,
) ServiceManager {
	attempt := NewAttemptService(repo, db, logger, v, publisher)
	return &serviceManager{
		quiz:    NewQuizService(repo, db, logger, v),
		attempt: attempt,
		export:  NewExportService(attempt, logger),
	}
}

func (m *serviceManager) Quiz() QuizService       { return m.quiz }
func (m *serviceManager) Attempt() AttemptService { return m.attempt }
func (m *serviceManager) Export() ExportService   { return m.export }
