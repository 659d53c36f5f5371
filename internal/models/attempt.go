package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuizResult is a persisted attempt: who took which quiz, the
// server-computed score, and the raw selections that produced it.
type QuizResult struct {
	ID     uint `json:"quiz_result_id" gorm:"primaryKey"`
	QuizID uint `json:"quiz_id" gorm:"not null;index"`

	UserName    string    `json:"user_name" gorm:"not null;size:100;index" validate:"required,user_name"`
	Score       int       `json:"score" gorm:"not null;default:0"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"not null;index"`

	TimeUsedSeconds int `json:"time_used_seconds" gorm:"default:0"`

	// ClientMeta holds opaque client context captured at submit time
	// (user agent, session hints). Never read by scoring or listing.
	ClientMeta datatypes.JSON `json:"client_meta,omitempty" gorm:"type:jsonb"`

	// Relations
	Quiz    *Quiz              `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	Answers []QuizResultAnswer `json:"answers" gorm:"foreignKey:QuizResultID;constraint:OnDelete:CASCADE"`
}

// QuizResultAnswer records one selection: the question answered and
// the option chosen. Option IDs are kept even if authoring later
// mutates the quiz, so details degrade instead of erroring.
type QuizResultAnswer struct {
	ID             uint `json:"id" gorm:"primaryKey"`
	QuizResultID   uint `json:"quiz_result_id" gorm:"not null;index"`
	QuestionID     uint `json:"question_id" gorm:"not null"`
	AnswerOptionID uint `json:"answer_option_id" gorm:"not null"`
}

// SelectedOption returns the chosen option ID for a question, with
// ok=false when the attempt carries no answer for it.
func (r *QuizResult) SelectedOption(questionID uint) (uint, bool) {
	for i := range r.Answers {
		if r.Answers[i].QuestionID == questionID {
			return r.Answers[i].AnswerOptionID, true
		}
	}
	return 0, false
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

func (QuizResultAnswer) TableName() string {
	return "quiz_result_answers"
}
