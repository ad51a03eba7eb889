package handler

import (
	"quizzify/internal/domain"
	"quizzify/internal/dto"
	"quizzify/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type HealthHandler struct {
	index domain.VectorIndex
}

func NewHealthHandler(index domain.VectorIndex) *HealthHandler {
	return &HealthHandler{index: index}
}

// Health handles GET /api/health. A failing index reports "degraded"
// rather than an error status.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	size, err := h.index.Size(c.UserContext())
	if err != nil {
		logger.Get().Warn("Vector index size check failed", zap.Error(err))
		return c.JSON(dto.HealthResponse{Status: "degraded"})
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Indexed: size})
}
