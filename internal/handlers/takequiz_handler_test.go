package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizlab/quiz-service/internal/repositories"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/takequiz/attempts/1?"+rawQuery, nil)
	c.Request = req
	return c
}

func TestParseAttemptQueryParams_Full(t *testing.T) {
	c := queryContext(t, "search=ali&from_date=2026-03-01T00:00:00Z&to_date=2026-03-31T23:59:59Z&min_score=1&max_score=5&sort_by=score&sort_order=asc&page=2&page_size=10")

	params, err := parseAttemptQueryParams(c)
	if err != nil {
		t.Fatalf("parseAttemptQueryParams: %v", err)
	}

	if params.Search != "ali" {
		t.Errorf("search = %q", params.Search)
	}
	if params.FromDate == nil || !params.FromDate.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("fromDate = %v", params.FromDate)
	}
	if params.ToDate == nil {
		t.Error("toDate not parsed")
	}
	if params.MinScore == nil || *params.MinScore != 1 {
		t.Errorf("minScore = %v", params.MinScore)
	}
	if params.MaxScore == nil || *params.MaxScore != 5 {
		t.Errorf("maxScore = %v", params.MaxScore)
	}
	if params.SortBy != repositories.SortByScore {
		t.Errorf("sortBy = %v", params.SortBy)
	}
	if params.SortOrder != repositories.SortAsc {
		t.Errorf("sortOrder = %v", params.SortOrder)
	}
	if params.Page != 2 || params.PageSize != 10 {
		t.Errorf("page=%d size=%d", params.Page, params.PageSize)
	}
}

func TestParseAttemptQueryParams_Defaults(t *testing.T) {
	c := queryContext(t, "")

	params, err := parseAttemptQueryParams(c)
	if err != nil {
		t.Fatalf("parseAttemptQueryParams: %v", err)
	}

	if params.FromDate != nil || params.ToDate != nil || params.MinScore != nil || params.MaxScore != nil {
		t.Errorf("expected unset filters, got %+v", params)
	}
	if params.SortBy != repositories.SortBySubmittedAt || params.SortOrder != repositories.SortDesc {
		t.Errorf("defaults: sortBy=%v sortOrder=%v", params.SortBy, params.SortOrder)
	}
	if params.Page != 0 || params.PageSize != 0 {
		t.Errorf("paging should stay zero for the planner to clamp, got page=%d size=%d", params.Page, params.PageSize)
	}
}

func TestParseAttemptQueryParams_BadDate(t *testing.T) {
	c := queryContext(t, "from_date=03/01/2026")

	if _, err := parseAttemptQueryParams(c); err == nil {
		t.Error("expected error for non-RFC3339 date")
	}
}

func TestParseAttemptQueryParams_BadNumbers(t *testing.T) {
	for _, q := range []string{"min_score=high", "page=one", "page_size=ten"} {
		c := queryContext(t, q)
		if _, err := parseAttemptQueryParams(c); err == nil {
			t.Errorf("expected error for %q", q)
		}
	}
}
