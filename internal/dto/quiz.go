package dto

import "quizzify/internal/domain"

// CreateQuizRequest is the body of POST /api/quizzes.
type CreateQuizRequest struct {
	Topic        string `json:"topic"`
	NumQuestions int    `json:"num_questions"`
}

// ChoiceResponse is one answer option.
type ChoiceResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// QuestionResponse represents a quiz question in the API response
type QuestionResponse struct {
	Index       int              `json:"index"`
	Total       int              `json:"total"`
	Question    string           `json:"question"`
	Choices     []ChoiceResponse `json:"choices"`
	Answer      string           `json:"answer"`
	Explanation string           `json:"explanation"`
}

// SlotResponse reports how one slot of the run ended.
type SlotResponse struct {
	Slot      int    `json:"slot"`
	Attempts  int    `json:"attempts"`
	Outcome   string `json:"outcome"`
	LastError string `json:"last_error,omitempty"`
}

// QuizSessionResponse describes a generated quiz and the session cursor.
type QuizSessionResponse struct {
	ID           string            `json:"id"`
	Topic        string            `json:"topic"`
	Requested    int               `json:"requested"`
	Generated    int               `json:"generated"`
	Shortfall    int               `json:"shortfall"`
	Slots        []SlotResponse    `json:"slots"`
	CurrentIndex int               `json:"current_index"`
	Question     *QuestionResponse `json:"question,omitempty"`
}

// NavigateRequest moves the session cursor by one step.
type NavigateRequest struct {
	Direction int `json:"direction"`
}

// PageRequest is one page of pre-extracted text.
type PageRequest struct {
	Source string `json:"source"`
	Page   int    `json:"page"`
	Text   string `json:"text"`
}

// IndexDocumentsRequest is the JSON form of POST /api/documents.
type IndexDocumentsRequest struct {
	Pages []PageRequest `json:"pages"`
}

// IndexDocumentsResponse reports what was indexed.
type IndexDocumentsResponse struct {
	Files  []string `json:"files,omitempty"`
	Pages  int      `json:"pages"`
	Chunks int      `json:"chunks"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Indexed int    `json:"indexed"`
}

// NewQuestionResponse maps a question at position index of total.
func NewQuestionResponse(q domain.Question, index, total int) *QuestionResponse {
	choices := make([]ChoiceResponse, 0, len(q.Choices))
	for _, c := range q.Choices {
		choices = append(choices, ChoiceResponse{Key: string(c.Key), Value: c.Value})
	}
	return &QuestionResponse{
		Index:       index,
		Total:       total,
		Question:    q.Text,
		Choices:     choices,
		Answer:      string(q.AnswerKey),
		Explanation: q.Explanation,
	}
}

// NewSlotResponses maps slot reports in slot order.
func NewSlotResponses(reports []domain.SlotReport) []SlotResponse {
	out := make([]SlotResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, SlotResponse{
			Slot:      r.Slot,
			Attempts:  r.Attempts,
			Outcome:   string(r.Outcome),
			LastError: r.LastError,
		})
	}
	return out
}

// ToRawPages converts request pages, defaulting missing page numbers to their position.
func (r IndexDocumentsRequest) ToRawPages() []domain.RawPage {
	pages := make([]domain.RawPage, 0, len(r.Pages))
	for i, p := range r.Pages {
		page := p.Page
		if page <= 0 {
			page = i + 1
		}
		pages = append(pages, domain.RawPage{Source: p.Source, Page: page, Text: p.Text})
	}
	return pages
}
