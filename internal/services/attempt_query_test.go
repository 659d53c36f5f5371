package services

import (
	"testing"
	"time"

	"github.com/quizlab/quiz-service/internal/models"
	"github.com/quizlab/quiz-service/internal/repositories"
)

var (
	teacher = models.Principal{UserID: "t1", Username: "mr.chips", Role: models.RoleTeacher}
	alice   = models.Principal{UserID: "s1", Username: "alice", Role: models.RoleStudent}
)

func attempt(id uint, user string, score int, submitted time.Time) *models.QuizResult {
	return &models.QuizResult{ID: id, QuizID: 1, UserName: user, Score: score, SubmittedAt: submitted}
}

func sampleAttempts() []*models.QuizResult {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []*models.QuizResult{
		attempt(1, "alice", 3, base),
		attempt(2, "bob", 5, base.Add(1*time.Hour)),
		attempt(3, "alice", 5, base.Add(2*time.Hour)),
		attempt(4, "carol", 1, base.Add(3*time.Hour)),
		attempt(5, "dave", 4, base.Add(4*time.Hour)),
	}
}

func ids(items []*models.QuizResult) []uint {
	out := make([]uint, len(items))
	for i, a := range items {
		out[i] = a.ID
	}
	return out
}

func equalIDs(a []uint, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPlanAttemptPage_Defaults(t *testing.T) {
	page := PlanAttemptPage(sampleAttempts(), repositories.AttemptQueryParams{}, teacher)

	if page.Page != 1 || page.PageSize != repositories.DefaultPageSize {
		t.Errorf("page=%d size=%d, want 1/%d", page.Page, page.PageSize, repositories.DefaultPageSize)
	}
	if page.Total != 5 {
		t.Errorf("total = %d, want 5", page.Total)
	}
	// Default sort: submitted_at descending, newest first.
	if got := ids(page.Items); !equalIDs(got, []uint{5, 4, 3, 2, 1}) {
		t.Errorf("default order = %v", got)
	}
}

func TestPlanAttemptPage_RoleScopedTotal(t *testing.T) {
	attempts := sampleAttempts()

	asTeacher := PlanAttemptPage(attempts, repositories.AttemptQueryParams{}, teacher)
	if asTeacher.Total != 5 || len(asTeacher.Items) != 5 {
		t.Errorf("teacher sees total=%d items=%d, want 5/5", asTeacher.Total, len(asTeacher.Items))
	}

	asAlice := PlanAttemptPage(attempts, repositories.AttemptQueryParams{}, alice)
	if asAlice.Total != 2 || len(asAlice.Items) != 2 {
		t.Errorf("student sees total=%d items=%d, want 2/2", asAlice.Total, len(asAlice.Items))
	}
	for _, a := range asAlice.Items {
		if a.UserName != "alice" {
			t.Errorf("student page leaked attempt of %q", a.UserName)
		}
	}
}

func TestPlanAttemptPage_Search(t *testing.T) {
	params := repositories.AttemptQueryParams{Search: "  ALI  "}
	page := PlanAttemptPage(sampleAttempts(), params, teacher)

	if page.Total != 2 {
		t.Errorf("total = %d, want 2", page.Total)
	}
	for _, a := range page.Items {
		if a.UserName != "alice" {
			t.Errorf("search matched %q", a.UserName)
		}
	}
}

func TestPlanAttemptPage_DateRangeInclusive(t *testing.T) {
	attempts := sampleAttempts()
	from := attempts[1].SubmittedAt // exactly bob's timestamp
	to := attempts[3].SubmittedAt   // exactly carol's timestamp

	params := repositories.AttemptQueryParams{FromDate: &from, ToDate: &to, SortOrder: repositories.SortAsc}
	page := PlanAttemptPage(attempts, params, teacher)

	if got := ids(page.Items); !equalIDs(got, []uint{2, 3, 4}) {
		t.Errorf("inclusive range = %v, want [2 3 4]", got)
	}
}

func TestPlanAttemptPage_ScoreRangeInclusive(t *testing.T) {
	min, max := 3, 5
	params := repositories.AttemptQueryParams{MinScore: &min, MaxScore: &max}
	page := PlanAttemptPage(sampleAttempts(), params, teacher)

	if page.Total != 4 {
		t.Errorf("total = %d, want 4", page.Total)
	}
	for _, a := range page.Items {
		if a.Score < min || a.Score > max {
			t.Errorf("attempt %d score %d outside [%d,%d]", a.ID, a.Score, min, max)
		}
	}
}

func TestPlanAttemptPage_SortByScoreTieBreak(t *testing.T) {
	params := repositories.AttemptQueryParams{SortBy: repositories.SortByScore}
	page := PlanAttemptPage(sampleAttempts(), params, teacher)

	// bob and alice share score 5; the later submission wins under
	// the descending tie-break.
	if got := ids(page.Items); !equalIDs(got, []uint{3, 2, 5, 1, 4}) {
		t.Errorf("score desc order = %v, want [3 2 5 1 4]", got)
	}

	params.SortOrder = repositories.SortAsc
	page = PlanAttemptPage(sampleAttempts(), params, teacher)
	if got := ids(page.Items); !equalIDs(got, []uint{4, 1, 5, 2, 3}) {
		t.Errorf("score asc order = %v, want [4 1 5 2 3]", got)
	}
}

func TestPlanAttemptPage_Paging(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	attempts := make([]*models.QuizResult, 0, 7)
	for i := 1; i <= 7; i++ {
		attempts = append(attempts, attempt(uint(i), "user", i, base.Add(time.Duration(i)*time.Minute)))
	}

	params := repositories.AttemptQueryParams{PageSize: 3, SortOrder: repositories.SortAsc}

	sizes := []int{3, 3, 1}
	for p := 1; p <= 3; p++ {
		params.Page = p
		page := PlanAttemptPage(attempts, params, teacher)
		if page.Total != 7 {
			t.Errorf("page %d: total = %d, want 7", p, page.Total)
		}
		if len(page.Items) != sizes[p-1] {
			t.Errorf("page %d: %d items, want %d", p, len(page.Items), sizes[p-1])
		}
	}

	params.Page = 4
	page := PlanAttemptPage(attempts, params, teacher)
	if len(page.Items) != 0 || page.Total != 7 {
		t.Errorf("beyond-last page: items=%d total=%d, want 0/7", len(page.Items), page.Total)
	}
}

func TestPlanAttemptPage_UnknownSortKeyFallsBack(t *testing.T) {
	if key := repositories.ParseSortKey("nonsense"); key != repositories.SortBySubmittedAt {
		t.Errorf("ParseSortKey fell back to %v, want SortBySubmittedAt", key)
	}
	if key := repositories.ParseSortKey("SCORE"); key != repositories.SortByScore {
		t.Errorf("ParseSortKey(SCORE) = %v, want SortByScore", key)
	}
	if dir := repositories.ParseSortDirection("Asc"); dir != repositories.SortAsc {
		t.Errorf("ParseSortDirection(Asc) = %v, want SortAsc", dir)
	}
	if dir := repositories.ParseSortDirection("descending"); dir != repositories.SortDesc {
		t.Errorf("ParseSortDirection(descending) = %v, want SortDesc", dir)
	}
}
