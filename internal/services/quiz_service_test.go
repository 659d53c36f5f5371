package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/quizlab/quiz-service/internal/validator"
)

func newTestQuizService(repo *fakeRepoManager) QuizService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewQuizService(repo, nil, logger, validator.New())
}

func TestQuizService_Create(t *testing.T) {
	repo := newFakeRepoManager()
	svc := newTestQuizService(repo)

	req := &validator.QuizCreateRequest{
		Title: "Fractions",
		Questions: []validator.QuestionCreateRequest{
			{
				Text: "1/2 + 1/4?",
				AnswerOptions: []validator.OptionCreateRequest{
					{Text: "3/4", IsCorrect: true},
					{Text: "2/6"},
				},
			},
		},
	}

	quiz, err := svc.Create(context.Background(), req, teacher)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if quiz.CreatedBy != teacher.Username {
		t.Errorf("createdBy = %q, want %q", quiz.CreatedBy, teacher.Username)
	}
	if len(quiz.Questions) != 1 || len(quiz.Questions[0].AnswerOptions) != 2 {
		t.Errorf("quiz tree not built: %+v", quiz)
	}
}

func TestQuizService_Create_StudentForbidden(t *testing.T) {
	svc := newTestQuizService(newFakeRepoManager())

	req := &validator.QuizCreateRequest{
		Title: "Fractions",
		Questions: []validator.QuestionCreateRequest{
			{Text: "q", AnswerOptions: []validator.OptionCreateRequest{{Text: "a", IsCorrect: true}, {Text: "b"}}},
		},
	}

	_, err := svc.Create(context.Background(), req, alice)
	var pe *PermissionError
	if !errors.As(err, &pe) {
		t.Errorf("expected PermissionError, got %v", err)
	}
}

func TestQuizService_Create_ValidationFailure(t *testing.T) {
	svc := newTestQuizService(newFakeRepoManager())

	_, err := svc.Create(context.Background(), &validator.QuizCreateRequest{Title: ""}, teacher)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationErrors, got %v", err)
	}
}

func TestQuizService_GetForTaking_StripsAnswerKey(t *testing.T) {
	repo := newFakeRepoManager()
	quiz := seedQuiz(repo)
	svc := newTestQuizService(repo)

	taking, err := svc.GetForTaking(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("GetForTaking: %v", err)
	}
	if len(taking.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(taking.Questions))
	}
	for _, q := range taking.Questions {
		if len(q.Options) == 0 {
			t.Errorf("question %d lost its options", q.ID)
		}
	}
	// The taking view carries no correctness flags at all; the
	// option type has no such field by construction.
}

func TestQuizService_GetForTaking_NotFound(t *testing.T) {
	svc := newTestQuizService(newFakeRepoManager())

	_, err := svc.GetForTaking(context.Background(), 99)
	if !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestQuizService_List(t *testing.T) {
	repo := newFakeRepoManager()
	seedQuiz(repo)
	svc := newTestQuizService(repo)

	summaries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if summaries[0].QuestionCount != 3 {
		t.Errorf("questionCount = %d, want 3", summaries[0].QuestionCount)
	}
}

func TestQuizService_Delete(t *testing.T) {
	repo := newFakeRepoManager()
	quiz := seedQuiz(repo)
	svc := newTestQuizService(repo)
	ctx := context.Background()

	if err := svc.Delete(ctx, quiz.ID, alice); !IsPermissionError(err) {
		t.Errorf("student delete should be forbidden, got %v", err)
	}

	if err := svc.Delete(ctx, quiz.ID, teacher); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, quiz.ID, teacher); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("expected ErrQuizNotFound on repeat delete, got %v", err)
	}

	if _, ok := repo.store.quizzes[quiz.ID]; ok {
		t.Error("quiz still stored after delete")
	}
}
