package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/pkg/utils"
	"github.com/tryggaplatser/locator/internal/usecase"
)

type SearchHandler struct {
	searchUC usecase.SearchUseCase
	logger   *zap.Logger
}

func NewSearchHandler(searchUC usecase.SearchUseCase, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchUC: searchUC,
		logger:   logger,
	}
}

// Search godoc
// @Summary Free-text search over titles and descriptions
// @Tags search
// @Produce json
// @Param q query string true "Query, minimum 3 characters"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /search [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	locations, err := h.searchUC.Search(c.Context(), c.Query("q"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, locations, &utils.Meta{
		Total: len(locations),
	})
}
