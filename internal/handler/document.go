package handler

import (
	"strings"

	"quizzify/internal/domain"
	"quizzify/internal/dto"
	"quizzify/internal/logger"
	"quizzify/internal/service"
	"quizzify/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MultipartField is the form field that carries uploaded documents.
const MultipartField = "files"

// DocumentHandler indexes uploaded documents.
type DocumentHandler struct {
	indexing  service.IndexingService
	ingestor  domain.DocumentIngestor
	validator *validation.Validator
}

func NewDocumentHandler(indexing service.IndexingService, ingestor domain.DocumentIngestor, v *validation.Validator) *DocumentHandler {
	return &DocumentHandler{indexing: indexing, ingestor: ingestor, validator: v}
}

// IndexDocuments handles POST /api/documents. It accepts either multipart
// uploads under "files" or a JSON body of pre-extracted pages.
func (h *DocumentHandler) IndexDocuments(c *fiber.Ctx) error {
	var (
		pages []domain.RawPage
		files []string
		err   error
	)
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		pages, files, err = h.ingestMultipart(c)
	} else {
		var req dto.IndexDocumentsRequest
		if perr := c.BodyParser(&req); perr != nil {
			return domain.NewInvalidInputError("request body is not valid JSON")
		}
		pages = req.ToRawPages()
	}
	if err != nil {
		return err
	}
	if err := h.validator.ValidatePages(pages); err != nil {
		return err
	}

	chunks, err := h.indexing.IndexPages(c.UserContext(), pages)
	if err != nil {
		return err
	}

	logger.Get().Info("Documents indexed",
		zap.Strings("files", files),
		zap.Int("pages", len(pages)),
		zap.Int("chunks", chunks),
	)
	return c.Status(fiber.StatusCreated).JSON(dto.IndexDocumentsResponse{
		Files:  files,
		Pages:  len(pages),
		Chunks: chunks,
	})
}

func (h *DocumentHandler) ingestMultipart(c *fiber.Ctx) ([]domain.RawPage, []string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, domain.NewInvalidInputError("invalid multipart form")
	}
	headers := form.File[MultipartField]
	if len(headers) == 0 {
		return nil, nil, domain.NewInvalidInputError("no files uploaded").WithContext("field", MultipartField)
	}

	var (
		pages []domain.RawPage
		files = make([]string, 0, len(headers))
	)
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, nil, domain.NewInternalError("failed to open upload", err).WithContext("file", fh.Filename)
		}
		filePages, err := h.ingestor.Ingest(c.UserContext(), fh.Filename, f, fh.Size)
		f.Close()
		if err != nil {
			return nil, nil, err
		}
		pages = append(pages, filePages...)
		files = append(files, fh.Filename)
	}
	return pages, files, nil
}

// Search handles GET /api/documents/search?q= and returns the closest passage.
func (h *DocumentHandler) Search(c *fiber.Ctx) error {
	passage, err := h.indexing.Query(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(passage)
}
