package service

import (
	"fmt"

	"quizzify/internal/domain"
)

// IndexAt maps any integer onto [0,total). It fails with EMPTY_BANK when total <= 0.
func IndexAt(requestedIndex, total int) (int, error) {
	if total <= 0 {
		return 0, domain.NewEmptyBankError()
	}
	m := requestedIndex % total
	if m < 0 {
		m += total
	}
	return m, nil
}

// Advance moves current one step in direction (+1 or -1), wrapping at both ends.
func Advance(current, total, direction int) (int, error) {
	if direction != 1 && direction != -1 {
		return 0, domain.NewInvalidInputError(fmt.Sprintf("direction must be +1 or -1, got %d", direction))
	}
	c, err := IndexAt(current, total)
	if err != nil {
		return 0, err
	}
	if direction == 1 && c == total-1 {
		return 0, nil
	}
	if direction == -1 && c == 0 {
		return total - 1, nil
	}
	return c + direction, nil
}

// GetQuestionAt returns the question at index, wrapped into the bank's range.
func GetQuestionAt(bank *domain.QuestionBank, index int) (domain.Question, error) {
	if bank == nil {
		return domain.Question{}, domain.NewEmptyBankError()
	}
	i, err := IndexAt(index, bank.Len())
	if err != nil {
		return domain.Question{}, err
	}
	return bank.At(i)
}
