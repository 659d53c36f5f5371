package services

import "github.com/quizlab/quiz-service/internal/models"

// ScoreSubmission counts questions whose selected option is the
// correct one. One point per question, no partial credit.
//
// Questions with no answer in the map and questions with no option
// flagged correct both contribute zero. The result is always within
// [0, len(quiz.Questions)].
func ScoreSubmission(quiz *models.Quiz, answers map[uint]uint) int {
	if quiz == nil {
		return 0
	}

	score := 0
	for i := range quiz.Questions {
		q := &quiz.Questions[i]

		selected, ok := answers[q.ID]
		if !ok {
			continue
		}

		correct := q.CorrectOption()
		if correct == nil {
			continue
		}

		if selected == correct.ID {
			score++
		}
	}
	return score
}
