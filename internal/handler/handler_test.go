package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizzify/internal/domain"
	"quizzify/internal/dto"
	"quizzify/internal/middleware"
	"quizzify/internal/util"
	"quizzify/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app      *fiber.App
	quiz     *MockQuizService
	indexing *MockIndexingService
	ingestor *MockIngestor
	index    *MockVectorIndex
	sessions *SessionStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		quiz:     new(MockQuizService),
		indexing: new(MockIndexingService),
		ingestor: new(MockIngestor),
		index:    new(MockVectorIndex),
		sessions: NewSessionStore(0),
	}
	v := validation.NewValidator(10)

	ts.app = fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	RegisterRoutes(ts.app.Group("/api"), Handlers{
		Quiz:       NewQuizHandler(ts.quiz, ts.sessions, v, "General Knowledge"),
		Documents:  NewDocumentHandler(ts.indexing, ts.ingestor, v),
		Health:     NewHealthHandler(ts.index),
		Validation: middleware.NewValidationMiddleware(v),
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreateQuiz(t *testing.T) {
	ts := newTestServer(t)
	bank := sealedBank(3, "Which pigment absorbs light?", "What sugar is produced?", "Which gas is released?")
	ts.quiz.On("CreateQuiz", mock.Anything, "Photosynthesis", 3).Return(bank, nil).Once()

	resp := ts.do(t, http.MethodPost, "/api/quizzes", dto.CreateQuizRequest{Topic: "Photosynthesis", NumQuestions: 3})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decode[dto.QuizSessionResponse](t, resp)
	assert.NoError(t, validation.NewValidator(10).ValidateSessionID(body.ID))
	assert.Equal(t, "Photosynthesis", body.Topic)
	assert.Equal(t, 3, body.Requested)
	assert.Equal(t, 3, body.Generated)
	assert.Zero(t, body.Shortfall)
	assert.Len(t, body.Slots, 3)
	assert.Zero(t, body.CurrentIndex)
	require.NotNil(t, body.Question)
	assert.Equal(t, "Which pigment absorbs light?", body.Question.Question)
	assert.Len(t, body.Question.Choices, 4)
	assert.Equal(t, 1, ts.sessions.Len())
	ts.quiz.AssertExpectations(t)
}

func TestCreateQuiz_DefaultTopic(t *testing.T) {
	ts := newTestServer(t)
	ts.quiz.On("CreateQuiz", mock.Anything, "General Knowledge", 1).Return(sealedBank(1, "What is water made of?"), nil).Once()

	resp := ts.do(t, http.MethodPost, "/api/quizzes", dto.CreateQuizRequest{Topic: "  ", NumQuestions: 1})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decode[dto.QuizSessionResponse](t, resp)
	assert.Equal(t, "General Knowledge", body.Topic)
}

func TestCreateQuiz_Shortfall(t *testing.T) {
	ts := newTestServer(t)
	ts.quiz.On("CreateQuiz", mock.Anything, "Cells", 2).Return(sealedBank(2, "What powers the cell?"), nil).Once()

	resp := ts.do(t, http.MethodPost, "/api/quizzes", dto.CreateQuizRequest{Topic: "Cells", NumQuestions: 2})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decode[dto.QuizSessionResponse](t, resp)
	assert.Equal(t, 1, body.Generated)
	assert.Equal(t, 1, body.Shortfall)
	require.Len(t, body.Slots, 2)
	assert.Equal(t, string(domain.SlotExhausted), body.Slots[1].Outcome)
}

func TestCreateQuiz_EmptyBankStillCreatesSession(t *testing.T) {
	ts := newTestServer(t)
	ts.quiz.On("CreateQuiz", mock.Anything, "Cells", 2).Return(sealedBank(2), nil).Once()

	resp := ts.do(t, http.MethodPost, "/api/quizzes", dto.CreateQuizRequest{Topic: "Cells", NumQuestions: 2})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decode[dto.QuizSessionResponse](t, resp)
	assert.Zero(t, body.Generated)
	assert.Nil(t, body.Question)

	nav := ts.do(t, http.MethodPost, "/api/quizzes/"+body.ID+"/navigate", dto.NavigateRequest{Direction: 1})
	assert.Equal(t, fiber.StatusConflict, nav.StatusCode)
	errBody := decode[middleware.ErrorResponse](t, nav)
	assert.Equal(t, string(domain.CodeEmptyBank), errBody.Code)
}

func TestCreateQuiz_Validation(t *testing.T) {
	ts := newTestServer(t)

	for _, n := range []int{0, 11} {
		resp := ts.do(t, http.MethodPost, "/api/quizzes", dto.CreateQuizRequest{Topic: "Cells", NumQuestions: n})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		body := decode[middleware.ErrorResponse](t, resp)
		assert.Equal(t, string(domain.CodeInvalidConfiguration), body.Code)
		assert.Equal(t, "num_questions", body.Details["field"])
	}

	req := httptest.NewRequest(http.MethodPost, "/api/quizzes", bytes.NewBufferString("{not json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	ts.quiz.AssertNotCalled(t, "CreateQuiz", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateQuiz_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not ready", err: domain.NewNotReadyError("vector index is empty", nil), status: fiber.StatusConflict},
		{name: "invalid configuration", err: domain.NewInvalidConfigurationError("too many"), status: fiber.StatusBadRequest},
		{name: "backend", err: domain.NewBackendError(errors.New("connection refused")), status: fiber.StatusServiceUnavailable},
		{name: "unknown", err: errors.New("boom"), status: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.quiz.On("CreateQuiz", mock.Anything, "Cells", 1).Return(nil, tt.err).Once()

			resp := ts.do(t, http.MethodPost, "/api/quizzes", dto.CreateQuizRequest{Topic: "Cells", NumQuestions: 1})
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Zero(t, ts.sessions.Len())
		})
	}
}

func TestGetQuiz(t *testing.T) {
	ts := newTestServer(t)
	session := ts.sessions.Create("Cells", sealedBank(2, "What powers the cell?", "What holds the DNA?"))

	resp := ts.do(t, http.MethodGet, "/api/quizzes/"+session.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[dto.QuizSessionResponse](t, resp)
	assert.Equal(t, session.ID, body.ID)
	require.NotNil(t, body.Question)
	assert.Equal(t, "What powers the cell?", body.Question.Question)
	assert.Equal(t, 2, body.Question.Total)

	resp = ts.do(t, http.MethodGet, "/api/quizzes/"+util.NewULID(), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/quizzes/not-a-session", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestNavigate_WrapsAtBothEnds(t *testing.T) {
	ts := newTestServer(t)
	session := ts.sessions.Create("Cells", sealedBank(3, "Q1?", "Q2?", "Q3?"))
	path := "/api/quizzes/" + session.ID + "/navigate"

	resp := ts.do(t, http.MethodPost, path, dto.NavigateRequest{Direction: -1})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[dto.QuizSessionResponse](t, resp)
	assert.Equal(t, 2, body.CurrentIndex)
	assert.Equal(t, "Q3?", body.Question.Question)

	resp = ts.do(t, http.MethodPost, path, dto.NavigateRequest{Direction: 1})
	body = decode[dto.QuizSessionResponse](t, resp)
	assert.Equal(t, 0, body.CurrentIndex)
	assert.Equal(t, "Q1?", body.Question.Question)

	resp = ts.do(t, http.MethodPost, path, dto.NavigateRequest{Direction: 1})
	body = decode[dto.QuizSessionResponse](t, resp)
	assert.Equal(t, 1, body.CurrentIndex)

	stored, err := ts.sessions.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Cursor)
}

func TestNavigate_InvalidDirection(t *testing.T) {
	ts := newTestServer(t)
	session := ts.sessions.Create("Cells", sealedBank(2, "Q1?", "Q2?"))

	resp := ts.do(t, http.MethodPost, "/api/quizzes/"+session.ID+"/navigate", dto.NavigateRequest{Direction: 2})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	stored, err := ts.sessions.Get(session.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Cursor)
}

func TestGetQuestion_WrapsIndex(t *testing.T) {
	ts := newTestServer(t)
	session := ts.sessions.Create("Cells", sealedBank(3, "Q1?", "Q2?", "Q3?"))

	tests := []struct {
		index string
		want  int
		text  string
	}{
		{index: "0", want: 0, text: "Q1?"},
		{index: "3", want: 0, text: "Q1?"},
		{index: "-1", want: 2, text: "Q3?"},
		{index: "7", want: 1, text: "Q2?"},
	}
	for _, tt := range tests {
		t.Run(tt.index, func(t *testing.T) {
			resp := ts.do(t, http.MethodGet, "/api/quizzes/"+session.ID+"/questions/"+tt.index, nil)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			body := decode[dto.QuestionResponse](t, resp)
			assert.Equal(t, tt.want, body.Index)
			assert.Equal(t, tt.text, body.Question)
		})
	}

	resp := ts.do(t, http.MethodGet, "/api/quizzes/"+session.ID+"/questions/first", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	stored, err := ts.sessions.Get(session.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Cursor, "reading by index does not move the cursor")
}

func TestGetQuestion_EmptyBank(t *testing.T) {
	ts := newTestServer(t)
	session := ts.sessions.Create("Cells", sealedBank(1))

	resp := ts.do(t, http.MethodGet, "/api/quizzes/"+session.ID+"/questions/0", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestIndexDocuments_JSON(t *testing.T) {
	ts := newTestServer(t)
	expected := []domain.RawPage{
		{Source: "notes.txt", Page: 1, Text: "Chlorophyll absorbs light."},
		{Source: "notes.txt", Page: 2, Text: "Glucose is produced."},
	}
	ts.indexing.On("IndexPages", mock.Anything, expected).Return(2, nil).Once()

	resp := ts.do(t, http.MethodPost, "/api/documents", dto.IndexDocumentsRequest{Pages: []dto.PageRequest{
		{Source: "notes.txt", Text: "Chlorophyll absorbs light."},
		{Source: "notes.txt", Page: 2, Text: "Glucose is produced."},
	}})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decode[dto.IndexDocumentsResponse](t, resp)
	assert.Equal(t, 2, body.Pages)
	assert.Equal(t, 2, body.Chunks)
	ts.indexing.AssertExpectations(t)
}

func TestIndexDocuments_NoPages(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/api/documents", dto.IndexDocumentsRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	ts.indexing.AssertNotCalled(t, "IndexPages", mock.Anything, mock.Anything)
}

func TestIndexDocuments_Multipart(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(MultipartField, "biology.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Mitochondria produce energy."))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	pages := []domain.RawPage{{Source: "biology.txt", Page: 1, Text: "Mitochondria produce energy."}}
	ts.ingestor.On("Ingest", mock.Anything, "biology.txt", mock.Anything, int64(len("Mitochondria produce energy."))).Return(pages, nil).Once()
	ts.indexing.On("IndexPages", mock.Anything, pages).Return(1, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decode[dto.IndexDocumentsResponse](t, resp)
	assert.Equal(t, []string{"biology.txt"}, body.Files)
	assert.Equal(t, 1, body.Chunks)
	ts.ingestor.AssertExpectations(t)
	ts.indexing.AssertExpectations(t)
}

func TestIndexDocuments_MultipartUnsupported(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(MultipartField, "slides.pptx")
	require.NoError(t, err)
	_, err = part.Write([]byte("binary"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	ts.ingestor.On("Ingest", mock.Anything, "slides.pptx", mock.Anything, mock.Anything).
		Return(nil, domain.NewInvalidInputError("unsupported document type")).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	ts.indexing.AssertNotCalled(t, "IndexPages", mock.Anything, mock.Anything)
}

func TestSearchDocuments(t *testing.T) {
	ts := newTestServer(t)
	ts.indexing.On("Query", mock.Anything, "light").
		Return(domain.Passage{Content: "Chlorophyll absorbs light.", Source: "notes.txt", Page: 1, Score: 0.9}, nil).Once()
	ts.indexing.On("Query", mock.Anything, "volcano").
		Return(domain.Passage{}, domain.NewNotFoundError("no matching passage")).Once()

	resp := ts.do(t, http.MethodGet, "/api/documents/search?q=light", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[domain.Passage](t, resp)
	assert.Equal(t, "notes.txt", body.Source)

	resp = ts.do(t, http.MethodGet, "/api/documents/search?q=volcano", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	ts.index.On("Size", mock.Anything).Return(12, nil).Once()
	ts.index.On("Size", mock.Anything).Return(0, errors.New("redis down")).Once()

	body := decode[dto.HealthResponse](t, ts.do(t, http.MethodGet, "/api/health", nil))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 12, body.Indexed)

	resp := ts.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decode[dto.HealthResponse](t, resp)
	assert.Equal(t, "degraded", body.Status)
}
