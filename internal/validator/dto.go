package validator

import "encoding/json"

// QuizSubmissionRequest carries a candidate's selections, keyed by
// question ID. Used both for the stateless score check and the
// persisted attempt.
type QuizSubmissionRequest struct {
	QuizID  uint          `json:"quiz_id" validate:"required"`
	Answers map[uint]uint `json:"answers" validate:"required"`
}

// SaveAttemptRequest persists a scored attempt. The username and the
// score never come from the client.
type SaveAttemptRequest struct {
	QuizID          uint            `json:"quiz_id" validate:"required"`
	Answers         map[uint]uint   `json:"answers" validate:"required"`
	TimeUsedSeconds int             `json:"time_used_seconds" validate:"gte=0"`
	ClientMeta      json.RawMessage `json:"client_meta,omitempty"`
}

// QuizCreateRequest is the authoring payload: a quiz with its full
// question/option tree in one request.
type QuizCreateRequest struct {
	Title     string                  `json:"title" validate:"required,min=1,max=200"`
	Questions []QuestionCreateRequest `json:"questions" validate:"required,min=1,dive"`
}

type QuestionCreateRequest struct {
	Text          string                `json:"text" validate:"required,max=200"`
	ImageURL      *string               `json:"image_url" validate:"omitempty,image_url"`
	Order         int                   `json:"order" validate:"gte=0"`
	AnswerOptions []OptionCreateRequest `json:"answer_options" validate:"required,min=2,dive"`
}

type OptionCreateRequest struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
	Order     int    `json:"order" validate:"gte=0"`
}

// QuizUpdateRequest replaces the quiz tree wholesale, matching how
// the authoring UI edits a quiz as a single document.
type QuizUpdateRequest struct {
	Title     string                  `json:"title" validate:"required,min=1,max=200"`
	Questions []QuestionCreateRequest `json:"questions" validate:"required,min=1,dive"`
}
