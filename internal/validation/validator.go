package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"quizzify/internal/domain"

	"github.com/oklog/ulid/v2"
)

const (
	// MaxTopicLength bounds the topic accepted from API callers.
	MaxTopicLength = 200
	MaxPageLength  = 1 << 20
)

// Validator provides request validation functionality
type Validator struct {
	maxQuestions int
}

// NewValidator creates a new validator instance
func NewValidator(maxQuestions int) *Validator {
	return &Validator{maxQuestions: maxQuestions}
}

func fieldError(field, message string) *domain.DomainError {
	return domain.NewInvalidInputError(message).WithContext("field", field)
}

// ValidateCreateQuiz checks the topic length and the requested question count.
// An out-of-range count is INVALID_CONFIGURATION, as the quiz service reports it.
func (v *Validator) ValidateCreateQuiz(topic string, numQuestions int) error {
	if utf8.RuneCountInString(strings.TrimSpace(topic)) > MaxTopicLength {
		return fieldError("topic", fmt.Sprintf("topic must be at most %d characters", MaxTopicLength))
	}
	if numQuestions < 1 || numQuestions > v.maxQuestions {
		return domain.NewInvalidConfigurationError(fmt.Sprintf("num_questions must be between 1 and %d", v.maxQuestions)).
			WithContext("field", "num_questions").
			WithContext("value", numQuestions)
	}
	return nil
}

// ValidateSessionID checks that id is a ULID.
func (v *Validator) ValidateSessionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fieldError("id", "session id is required")
	}
	if !isValidULID(id) {
		return fieldError("id", "session id is not a valid ULID").WithContext("value", id)
	}
	return nil
}

// ValidateDirection accepts only one step backward or forward.
func (v *Validator) ValidateDirection(direction int) error {
	if direction != -1 && direction != 1 {
		return fieldError("direction", "direction must be -1 or 1").WithContext("value", direction)
	}
	return nil
}

// ValidatePages rejects empty uploads and oversized pages.
func (v *Validator) ValidatePages(pages []domain.RawPage) error {
	if len(pages) == 0 {
		return fieldError("pages", "at least one page is required")
	}
	for i, p := range pages {
		if len(p.Text) > MaxPageLength {
			return fieldError("pages", fmt.Sprintf("page %d exceeds %d bytes", i, MaxPageLength))
		}
	}
	return nil
}

func isValidULID(s string) bool {
	_, err := ulid.ParseStrict(strings.ToUpper(s))
	return err == nil
}
