package services

import (
	"github.com/quizlab/quiz-service/internal/models"
)

// BuildAttemptDetail reconstructs the review view of a persisted
// attempt. Students may only open their own attempts; teachers may
// open any. CorrectAnswers is recomputed from the stored selections
// against the current quiz definition rather than trusted from the
// stored score, so authoring drift is visible in review.
func BuildAttemptDetail(attempt *models.QuizResult, principal models.Principal) (*AttemptDetail, error) {
	if !principal.IsTeacher() && !principal.Owns(attempt.UserName) {
		return nil, NewPermissionError(principal.Username, "attempt", attempt.ID, "view", "attempt belongs to another user")
	}

	detail := &AttemptDetail{
		QuizResultID:    attempt.ID,
		QuizID:          attempt.QuizID,
		UserName:        attempt.UserName,
		Score:           attempt.Score,
		SubmittedAt:     attempt.SubmittedAt,
		TimeUsedSeconds: attempt.TimeUsedSeconds,
	}

	if attempt.Quiz == nil {
		return detail, nil
	}

	detail.QuizTitle = attempt.Quiz.Title
	detail.TotalQuestions = len(attempt.Quiz.Questions)
	detail.Questions = make([]AttemptDetailQuestion, 0, len(attempt.Quiz.Questions))

	for i := range attempt.Quiz.Questions {
		q := &attempt.Quiz.Questions[i]
		selectedID, answered := attempt.SelectedOption(q.ID)

		dq := AttemptDetailQuestion{
			QuestionID: q.ID,
			Text:       q.Text,
			ImageURL:   q.ImageURL,
			Options:    make([]AttemptDetailOption, 0, len(q.AnswerOptions)),
		}
		for j := range q.AnswerOptions {
			opt := &q.AnswerOptions[j]
			selected := answered && opt.ID == selectedID
			dq.Options = append(dq.Options, AttemptDetailOption{
				ID:        opt.ID,
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
				Selected:  selected,
			})
			if selected && opt.IsCorrect {
				detail.CorrectAnswers++
			}
		}
		detail.Questions = append(detail.Questions, dq)
	}

	return detail, nil
}
