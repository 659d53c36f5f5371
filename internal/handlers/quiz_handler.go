package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizlab/quiz-service/internal/services"
	"github.com/quizlab/quiz-service/internal/utils"
	"github.com/quizlab/quiz-service/internal/validator"
)

// QuizHandler covers authoring: creating, replacing, and removing
// quizzes. All routes are teacher-gated in the router.
type QuizHandler struct {
	BaseHandler
	quizService services.QuizService
	validator   *validator.Validator
}

func NewQuizHandler(quizService services.QuizService, v *validator.Validator, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
		validator:   v,
	}
}

// CreateQuiz creates a quiz with its full question tree.
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	h.LogRequest(c, "Creating quiz")

	var req validator.QuizCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	principal, ok := GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), &req, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// UpdateQuiz replaces a quiz's question tree.
// @Router /quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.QuizUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	principal, ok := GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), id, &req, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz removes a quiz and everything under it.
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	principal, ok := GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), id, principal); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Quiz deleted"})
}
