package handler

import (
	"errors"
	"strings"

	"quizzify/internal/domain"
	"quizzify/internal/dto"
	"quizzify/internal/logger"
	"quizzify/internal/middleware"
	"quizzify/internal/service"
	"quizzify/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service      service.QuizService
	sessions     *SessionStore
	validator    *validation.Validator
	defaultTopic string
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(svc service.QuizService, sessions *SessionStore, v *validation.Validator, defaultTopic string) *QuizHandler {
	return &QuizHandler{
		service:      svc,
		sessions:     sessions,
		validator:    v,
		defaultTopic: defaultTopic,
	}
}

// CreateQuiz handles POST /api/quizzes. Generation runs inside the request.
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is not valid JSON")
	}
	if err := h.validator.ValidateCreateQuiz(req.Topic, req.NumQuestions); err != nil {
		return err
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = h.defaultTopic
	}

	bank, err := h.service.CreateQuiz(c.UserContext(), topic, req.NumQuestions)
	if err != nil {
		return err
	}

	session := h.sessions.Create(topic, bank)
	logger.Get().Info("Quiz session created",
		zap.String("session_id", session.ID),
		zap.String("topic", topic),
		zap.Int("requested", bank.Requested()),
		zap.Int("generated", bank.Len()),
	)
	return c.Status(fiber.StatusCreated).JSON(sessionResponse(session))
}

// GetQuiz handles GET /api/quizzes/:id and returns the question under the cursor.
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	session, err := h.sessions.Get(sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(sessionResponse(session))
}

// Navigate handles POST /api/quizzes/:id/navigate.
func (h *QuizHandler) Navigate(c *fiber.Ctx) error {
	var req dto.NavigateRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is not valid JSON")
	}
	if err := h.validator.ValidateDirection(req.Direction); err != nil {
		return err
	}

	session, err := h.sessions.MoveCursor(sessionID(c), func(cursor, total int) (int, error) {
		return service.Advance(cursor, total, req.Direction)
	})
	if err != nil {
		return err
	}
	return c.JSON(sessionResponse(session))
}

// GetQuestion handles GET /api/quizzes/:id/questions/:index. Any integer index
// is accepted and wrapped into range; the cursor does not move.
func (h *QuizHandler) GetQuestion(c *fiber.Ctx) error {
	session, err := h.sessions.Get(sessionID(c))
	if err != nil {
		return err
	}

	requested, _ := c.Locals(middleware.LocalQuestionIndex).(int)
	index, err := service.IndexAt(requested, session.Bank.Len())
	if err != nil {
		return err
	}
	q, err := service.GetQuestionAt(session.Bank, index)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuestionResponse(q, index, session.Bank.Len()))
}

func sessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.LocalSessionID).(string); ok {
		return id
	}
	return c.Params("id")
}

func sessionResponse(s QuizSession) dto.QuizSessionResponse {
	resp := dto.QuizSessionResponse{
		ID:           s.ID,
		Topic:        s.Topic,
		Requested:    s.Bank.Requested(),
		Generated:    s.Bank.Len(),
		Shortfall:    s.Bank.Shortfall(),
		Slots:        dto.NewSlotResponses(s.Bank.Slots()),
		CurrentIndex: s.Cursor,
	}

	q, err := service.GetQuestionAt(s.Bank, s.Cursor)
	switch {
	case err == nil:
		resp.Question = dto.NewQuestionResponse(q, s.Cursor, s.Bank.Len())
	case errors.Is(err, domain.ErrEmptyBank):
		// an exhausted run still yields a session; there is just nothing to show
	default:
		logger.Get().Error("Failed to read question under cursor",
			zap.String("session_id", s.ID),
			zap.Int("cursor", s.Cursor),
			zap.Error(err))
	}
	return resp
}
