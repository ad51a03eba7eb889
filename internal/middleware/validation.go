package middleware

import (
	"strconv"

	"quizzify/internal/domain"
	"quizzify/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalSessionID     = "validated_session_id"
	LocalQuestionIndex = "validated_question_index"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: v}
}

// ValidateSessionID validates the :id path parameter
func (vm *ValidationMiddleware) ValidateSessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := vm.validator.ValidateSessionID(id); err != nil {
			return err // handled by ErrorHandler
		}
		c.Locals(LocalSessionID, id)
		return c.Next()
	}
}

// ValidateQuestionIndex parses the :index path parameter as an integer.
// Negative and out-of-range values are legal; the navigator wraps them.
func (vm *ValidationMiddleware) ValidateQuestionIndex() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Params("index")
		index, err := strconv.Atoi(raw)
		if err != nil {
			return domain.NewInvalidInputError("question index must be an integer").
				WithContext("field", "index").
				WithContext("value", raw)
		}
		c.Locals(LocalQuestionIndex, index)
		return c.Next()
	}
}
