package models

import (
	"time"
)

// Quiz is the authored read model consumed by scoring and review:
// an ordered list of questions, each with an ordered set of answer
// options and exactly one option flagged correct (enforced at
// authoring time, assumed by the scoring core).
type Quiz struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`

	CreatedBy string    `json:"created_by" gorm:"index;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []Question   `json:"questions" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Attempts  []QuizResult `json:"-" gorm:"foreignKey:QuizID"`
}

type Question struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	QuizID uint `json:"quiz_id" gorm:"not null;index"`

	Text     string  `json:"text" gorm:"type:text;not null" validate:"required,max=200"`
	ImageURL *string `json:"image_url" gorm:"size:500" validate:"omitempty,image_url"`
	Order    int     `json:"order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	AnswerOptions []AnswerOption `json:"answer_options" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

// AnswerOption is immutable once an attempt references its ID;
// scoring and review depend on the identifier staying stable.
type AnswerOption struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	QuestionID uint `json:"question_id" gorm:"not null;index"`

	Text      string `json:"text" gorm:"type:text;not null" validate:"required"`
	IsCorrect bool   `json:"is_correct" gorm:"not null;default:false"`
	Order     int    `json:"order" gorm:"default:0"`
}

// CorrectOption returns the option flagged correct, or nil when the
// question carries none (data anomaly, scored as a non-match).
func (q *Question) CorrectOption() *AnswerOption {
	for i := range q.AnswerOptions {
		if q.AnswerOptions[i].IsCorrect {
			return &q.AnswerOptions[i]
		}
	}
	return nil
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (Question) TableName() string {
	return "questions"
}

func (AnswerOption) TableName() string {
	return "answer_options"
}
