package repositories

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/quizlab/quiz-service/internal/models"
)

// DefaultPageSize applies when a listing request does not pin one.
const DefaultPageSize = 20

type AttemptSortKey int

const (
	SortBySubmittedAt AttemptSortKey = iota
	SortByScore
)

type SortDirection int

const (
	SortDesc SortDirection = iota
	SortAsc
)

// ParseSortKey maps a client-supplied sort field to a key. Unknown
// values fall back to submission time rather than erroring.
func ParseSortKey(s string) AttemptSortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "score":
		return SortByScore
	default:
		return SortBySubmittedAt
	}
}

// ParseSortDirection treats anything but a case-insensitive "asc" as
// descending, newest/highest first.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), "asc") {
		return SortAsc
	}
	return SortDesc
}

// AttemptQueryParams carries the listing controls exactly as parsed
// from the request. Nil pointer means "not constrained".
type AttemptQueryParams struct {
	Search   string
	FromDate *time.Time
	ToDate   *time.Time
	MinScore *int
	MaxScore *int

	SortBy    AttemptSortKey
	SortOrder SortDirection

	Page     int
	PageSize int
}

// Normalize clamps paging to usable values.
func (p *AttemptQueryParams) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
}

type QuizRepository interface {
	Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*models.Quiz, error)
	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}

type AttemptRepository interface {
	// Create persists the attempt together with its answer rows in a
	// single transaction. Partial attempts never become visible.
	Create(ctx context.Context, tx *gorm.DB, attempt *models.QuizResult) error

	// DeleteByID removes an attempt and its answers. The bool reports
	// whether anything existed; false with a nil error means not found.
	DeleteByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error)

	// GetByIDWithDetails loads the attempt with its answers and the
	// full quiz graph (questions and options) needed for review.
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizResult, error)

	// ListByQuiz returns every attempt for a quiz with the quiz and
	// its questions loaded. Filtering/sorting/paging happen above.
	ListByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]*models.QuizResult, error)
}

// RepositoryManager bundles the per-aggregate repositories handed to
// the service layer.
type RepositoryManager interface {
	Quiz() QuizRepository
	Attempt() AttemptRepository
	DB() *gorm.DB
	Health(ctx context.Context) error
	Close() error
}
