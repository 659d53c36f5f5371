package services

import (
	"context"
	"time"

	"github.com/quizlab/quiz-service/internal/models"
	"github.com/quizlab/quiz-service/internal/repositories"
	"github.com/quizlab/quiz-service/internal/validator"
)

// ===== Quiz read models =====

// QuizSummary is the listing row for quiz selection.
type QuizSummary struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

// QuizForTaking is a quiz stripped of its answer key.
type QuizForTaking struct {
	ID        uint                `json:"id"`
	Title     string              `json:"title"`
	Questions []QuestionForTaking `json:"questions"`
}

type QuestionForTaking struct {
	ID       uint               `json:"id"`
	Text     string             `json:"text"`
	ImageURL *string            `json:"image_url,omitempty"`
	Options  []OptionForTaking  `json:"options"`
}

type OptionForTaking struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// ===== Attempt read models =====

// AttemptResponse is one row of an attempt listing.
type AttemptResponse struct {
	QuizResultID    uint      `json:"quiz_result_id"`
	QuizID          uint      `json:"quiz_id"`
	QuizTitle       string    `json:"quiz_title"`
	UserName        string    `json:"user_name"`
	Score           int       `json:"score"`
	TotalQuestions  int       `json:"total_questions"`
	Percentage      float64   `json:"percentage"`
	SubmittedAt     time.Time `json:"submitted_at"`
	TimeUsedSeconds int       `json:"time_used_seconds"`
}

// AttemptListResponse is one page plus the total the pagination UI
// needs. Total counts matches before paging, scoped to what the
// caller may see.
type AttemptListResponse struct {
	Attempts []AttemptResponse `json:"attempts"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// AttemptDetail is the per-question review view of one attempt.
type AttemptDetail struct {
	QuizResultID    uint                    `json:"quiz_result_id"`
	QuizID          uint                    `json:"quiz_id"`
	QuizTitle       string                  `json:"quiz_title"`
	UserName        string                  `json:"user_name"`
	Score           int                     `json:"score"`
	TotalQuestions  int                     `json:"total_questions"`
	CorrectAnswers  int                     `json:"correct_answers"`
	SubmittedAt     time.Time               `json:"submitted_at"`
	TimeUsedSeconds int                     `json:"time_used_seconds"`
	Questions       []AttemptDetailQuestion `json:"questions"`
}

type AttemptDetailQuestion struct {
	QuestionID uint                  `json:"question_id"`
	Text       string                `json:"text"`
	ImageURL   *string               `json:"image_url,omitempty"`
	Options    []AttemptDetailOption `json:"options"`
}

type AttemptDetailOption struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
	Selected  bool   `json:"selected"`
}

// ScoreResponse is the stateless score check result.
type ScoreResponse struct {
	QuizID         uint `json:"quiz_id"`
	Score          int  `json:"score"`
	TotalQuestions int  `json:"total_questions"`
}

// ===== Service contracts =====

type QuizService interface {
	Create(ctx context.Context, req *validator.QuizCreateRequest, principal models.Principal) (*models.Quiz, error)
	Update(ctx context.Context, id uint, req *validator.QuizUpdateRequest, principal models.Principal) (*models.Quiz, error)
	Delete(ctx context.Context, id uint, principal models.Principal) error
	List(ctx context.Context) ([]QuizSummary, error)
	GetForTaking(ctx context.Context, id uint) (*QuizForTaking, error)
}

type AttemptService interface {
	// Score evaluates a submission without persisting anything.
	Score(ctx context.Context, req *validator.QuizSubmissionRequest) (*ScoreResponse, error)

	// SaveAttempt scores and persists a submission for the caller.
	SaveAttempt(ctx context.Context, req *validator.SaveAttemptRequest, principal models.Principal) (*AttemptResponse, error)

	// ListAttempts serves the filtered, sorted, role-scoped page of
	// attempts for a quiz.
	ListAttempts(ctx context.Context, quizID uint, params repositories.AttemptQueryParams, principal models.Principal) (*AttemptListResponse, error)

	// GetAttemptDetail reconstructs the review view of one attempt.
	GetAttemptDetail(ctx context.Context, id uint, principal models.Principal) (*AttemptDetail, error)

	// DeleteAttempt removes an attempt and its answers.
	DeleteAttempt(ctx context.Context, id uint, principal models.Principal) error
}

type ExportService interface {
	// ExportAttempts renders a filtered attempt listing as an xlsx
	// workbook, returned as raw bytes.
	ExportAttempts(ctx context.Context, quizID uint, params repositories.AttemptQueryParams, principal models.Principal) ([]byte, string, error)
}

// ServiceManager bundles the services handed to the handler layer.
type ServiceManager interface {
	Quiz() QuizService
	Attempt() AttemptService
	Export() ExportService
}
