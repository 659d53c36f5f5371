package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizlab/quiz-service/internal/config"
	"github.com/quizlab/quiz-service/internal/models"
	"github.com/quizlab/quiz-service/internal/services"
	"github.com/quizlab/quiz-service/internal/utils"
	"github.com/quizlab/quiz-service/internal/validator"
)

type HandlerManager struct {
	takeQuizHandler *TakeQuizHandler
	quizHandler     *QuizHandler
	authMiddleware  *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	v *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
) *HandlerManager {
	return &HandlerManager{
		takeQuizHandler: NewTakeQuizHandler(
			serviceManager.Quiz(),
			serviceManager.Attempt(),
			serviceManager.Export(),
			v,
			logger,
		),
		quizHandler:    NewQuizHandler(serviceManager.Quiz(), v, logger),
		authMiddleware: NewCasdoorAuthMiddleware(casdoorConfig),
	}
}

// SetupRoutes registers the API surface.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	teacherOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin)

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		takequiz := v1.Group("/takequiz")
		{
			takequiz.GET("/list", hm.takeQuizHandler.ListQuizzes)
			takequiz.GET("/:id", hm.takeQuizHandler.GetQuiz)
			takequiz.POST("/submit", hm.takeQuizHandler.Submit)
			takequiz.POST("/saveattempt", hm.takeQuizHandler.SaveAttempt)

			takequiz.GET("/attempts/:quiz_id", hm.takeQuizHandler.ListAttempts)
			takequiz.GET("/attempts/:quiz_id/export", teacherOnly, hm.takeQuizHandler.ExportAttempts)
			takequiz.GET("/attempt/:id", hm.takeQuizHandler.GetAttemptDetail)
			takequiz.DELETE("/attempt/:id", teacherOnly, hm.takeQuizHandler.DeleteAttempt)
		}

		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("", teacherOnly, hm.quizHandler.CreateQuiz)
			quizzes.PUT("/:id", teacherOnly, hm.quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", teacherOnly, hm.quizHandler.DeleteQuiz)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "quiz-service",
	})
}
