package services

import (
	"sort"
	"strings"

	"github.com/quizlab/quiz-service/internal/models"
	"github.com/quizlab/quiz-service/internal/repositories"
)

// AttemptPage is one materialized page of attempts plus the total
// that the caller is allowed to know about.
type AttemptPage struct {
	Items    []*models.QuizResult
	Total    int
	Page     int
	PageSize int
}

// PlanAttemptPage runs the listing pipeline over a quiz's candidate
// attempts. The stages run in a fixed order: username search, date
// range, score range, total count, sort, ownership scoping for
// non-teachers (which re-derives the total), then paging.
//
// The pipeline is deterministic and side-effect free, so every stage
// is testable without a database.
func PlanAttemptPage(attempts []*models.QuizResult, params repositories.AttemptQueryParams, principal models.Principal) AttemptPage {
	params.Normalize()

	filtered := make([]*models.QuizResult, 0, len(attempts))
	term := strings.ToLower(strings.TrimSpace(params.Search))
	for _, a := range attempts {
		if term != "" && !strings.Contains(strings.ToLower(a.UserName), term) {
			continue
		}
		if params.FromDate != nil && a.SubmittedAt.Before(*params.FromDate) {
			continue
		}
		if params.ToDate != nil && a.SubmittedAt.After(*params.ToDate) {
			continue
		}
		if params.MinScore != nil && a.Score < *params.MinScore {
			continue
		}
		if params.MaxScore != nil && a.Score > *params.MaxScore {
			continue
		}
		filtered = append(filtered, a)
	}

	total := len(filtered)

	asc := params.SortOrder == repositories.SortAsc
	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if params.SortBy == repositories.SortByScore {
			if a.Score != b.Score {
				if asc {
					return a.Score < b.Score
				}
				return a.Score > b.Score
			}
		}
		if a.SubmittedAt.Equal(b.SubmittedAt) {
			return false
		}
		if asc {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
		return a.SubmittedAt.After(b.SubmittedAt)
	})

	// Students only ever see their own attempts, and the total they
	// see reflects that scope.
	if !principal.IsTeacher() {
		own := filtered[:0]
		for _, a := range filtered {
			if principal.Owns(a.UserName) {
				own = append(own, a)
			}
		}
		filtered = own
		total = len(filtered)
	}

	start := (params.Page - 1) * params.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + params.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return AttemptPage{
		Items:    filtered[start:end],
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
}
