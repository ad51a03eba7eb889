package handler

import (
	"quizzify/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Quiz       *QuizHandler
	Documents  *DocumentHandler
	Health     *HealthHandler
	Validation *middleware.ValidationMiddleware
}

// RegisterRoutes mounts the API under router (normally the /api group).
func RegisterRoutes(router fiber.Router, h Handlers) {
	router.Get("/health", h.Health.Health)

	router.Post("/documents", h.Documents.IndexDocuments)
	router.Get("/documents/search", h.Documents.Search)

	router.Post("/quizzes", h.Quiz.CreateQuiz)

	quizzes := router.Group("/quizzes")
	quizzes.Get("/:id", h.Validation.ValidateSessionID(), h.Quiz.GetQuiz)
	quizzes.Post("/:id/navigate", h.Validation.ValidateSessionID(), h.Quiz.Navigate)
	quizzes.Get("/:id/questions/:index",
		h.Validation.ValidateSessionID(),
		h.Validation.ValidateQuestionIndex(),
		h.Quiz.GetQuestion,
	)
}
