package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizlab/quiz-service/internal/repositories"
	"github.com/quizlab/quiz-service/internal/services"
	"github.com/quizlab/quiz-service/internal/utils"
	"github.com/quizlab/quiz-service/internal/validator"
)

// TakeQuizHandler serves the quiz-taking flow: browsing quizzes,
// scoring, persisting attempts, and reviewing them.
type TakeQuizHandler struct {
	BaseHandler
	quizService    services.QuizService
	attemptService services.AttemptService
	exportService  services.ExportService
	validator      *validator.Validator
}

func NewTakeQuizHandler(
	quizService services.QuizService,
	attemptService services.AttemptService,
	exportService services.ExportService,
	v *validator.Validator,
	logger utils.Logger,
) *TakeQuizHandler {
	return &TakeQuizHandler{
		BaseHandler:    NewBaseHandler(logger),
		quizService:    quizService,
		attemptService: attemptService,
		exportService:  exportService,
		validator:      v,
	}
}

// ListQuizzes returns the quizzes available for taking.
// @Router /takequiz/list [get]
func (h *TakeQuizHandler) ListQuizzes(c *gin.Context) {
	h.LogRequest(c, "Listing quizzes")

	quizzes, err := h.quizService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// GetQuiz returns one quiz without its answer key.
// @Router /takequiz/{id} [get]
func (h *TakeQuizHandler) GetQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	quiz, err := h.quizService.GetForTaking(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// Submit scores a submission without persisting it.
// @Router /takequiz/submit [post]
func (h *TakeQuizHandler) Submit(c *gin.Context) {
	h.LogRequest(c, "Scoring submission")

	var req validator.QuizSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	result, err := h.attemptService.Score(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SaveAttempt scores and persists a submission for the caller.
// @Router /takequiz/saveattempt [post]
func (h *TakeQuizHandler) SaveAttempt(c *gin.Context) {
	h.LogRequest(c, "Saving attempt")

	var req validator.SaveAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	principal, ok := GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	attempt, err := h.attemptService.SaveAttempt(c.Request.Context(), &req, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attempt)
}

// ListAttempts serves the filtered, sorted, paged attempt listing for
// a quiz, scoped to what the caller may see.
// @Router /takequiz/attempts/{quiz_id} [get]
func (h *TakeQuizHandler) ListAttempts(c *gin.Context) {
	quizID := h.parseIDParam(c, "quiz_id")
	if quizID == 0 {
		return
	}

	principal, ok := GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	params, err := parseAttemptQueryParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid query parameters", Details: err.Error()})
		return
	}

	list, err := h.attemptService.ListAttempts(c.Request.Context(), quizID, params, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetAttemptDetail serves the per-question review of one attempt.
// @Router /takequiz/attempt/{id} [get]
func (h *TakeQuizHandler) GetAttemptDetail(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	principal, ok := GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	detail, err := h.attemptService.GetAttemptDetail(c.Request.Context(), id, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// DeleteAttempt removes an attempt and its answers. Teacher only.
// @Router /takequiz/attempt/{id} [delete]
func (h *TakeQuizHandler) DeleteAttempt(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	principal, ok := GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	if err := h.attemptService.DeleteAttempt(c.Request.Context(), id, principal); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Attempt deleted"})
}

// ExportAttempts streams the filtered attempt listing as xlsx.
// @Router /takequiz/attempts/{quiz_id}/export [get]
func (h *TakeQuizHandler) ExportAttempts(c *gin.Context) {
	quizID := h.parseIDParam(c, "quiz_id")
	if quizID == 0 {
		return
	}

	principal, ok := GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	params, err := parseAttemptQueryParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid query parameters", Details: err.Error()})
		return
	}

	data, filename, err := h.exportService.ExportAttempts(c.Request.Context(), quizID, params, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// parseAttemptQueryParams reads the listing controls from the query
// string. Dates are RFC3339; malformed values are errors rather than
// silently dropped filters.
func parseAttemptQueryParams(c *gin.Context) (repositories.AttemptQueryParams, error) {
	params := repositories.AttemptQueryParams{
		Search:    c.Query("search"),
		SortBy:    repositories.ParseSortKey(c.Query("sort_by")),
		SortOrder: repositories.ParseSortDirection(c.Query("sort_order")),
	}

	var err error
	if params.FromDate, err = parseTimeQuery(c, "from_date"); err != nil {
		return params, err
	}
	if params.ToDate, err = parseTimeQuery(c, "to_date"); err != nil {
		return params, err
	}
	if params.MinScore, err = parseIntQuery(c, "min_score"); err != nil {
		return params, err
	}
	if params.MaxScore, err = parseIntQuery(c, "max_score"); err != nil {
		return params, err
	}

	if page := c.Query("page"); page != "" {
		if params.Page, err = strconv.Atoi(page); err != nil {
			return params, err
		}
	}
	if size := c.Query("page_size"); size != "" {
		if params.PageSize, err = strconv.Atoi(size); err != nil {
			return params, err
		}
	}

	return params, nil
}

func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	utc := t.UTC()
	return &utc, nil
}

func parseIntQuery(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
