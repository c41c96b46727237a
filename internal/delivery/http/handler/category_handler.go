package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/pkg/errors"
	"github.com/tryggaplatser/locator/internal/pkg/utils"
	"github.com/tryggaplatser/locator/internal/usecase"
)

type CategoryHandler struct {
	categoryUC usecase.CategoryUseCase
	logger     *zap.Logger
}

func NewCategoryHandler(categoryUC usecase.CategoryUseCase, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryUC: categoryUC,
		logger:     logger,
	}
}

// GetTop godoc
// @Summary List the browseable top-level categories
// @Tags categories
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /categories [get]
func (h *CategoryHandler) GetTop(c *fiber.Ctx) error {
	categories, err := h.categoryUC.TopCategories(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, categories, &utils.Meta{
		Total: len(categories),
	})
}

// GetPosts godoc
// @Summary List a category's member locations
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /categories/{id}/posts [get]
func (h *CategoryHandler) GetPosts(c *fiber.Ctx) error {
	catID, err := c.ParamsInt("id")
	if err != nil || catID <= 0 {
		return utils.SendError(c, errors.ErrInvalidCategoryID)
	}

	locations, err := h.categoryUC.CategoryPosts(c.Context(), int64(catID))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, locations, &utils.Meta{
		Total: len(locations),
	})
}

// GetSubcategories godoc
// @Summary List a category's subcategories
// @Tags categories
// @Produce json
// @Param id path int true "Parent category ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /categories/{id}/subcategories [get]
func (h *CategoryHandler) GetSubcategories(c *fiber.Ctx) error {
	parentID, err := c.ParamsInt("id")
	if err != nil || parentID <= 0 {
		return utils.SendError(c, errors.ErrInvalidCategoryID)
	}

	list, err := h.categoryUC.Subcategories(c.Context(), int64(parentID))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, list, &utils.Meta{
		Total: len(list.Subcategories),
	})
}

// GetSubcategoryPosts godoc
// @Summary List the union of members across subcategories
// @Tags categories
// @Produce json
// @Param ids query string true "Comma-separated subcategory IDs"
// @Success 200 {object} utils.SuccessResponse
// @Router /subcategories/posts [get]
func (h *CategoryHandler) GetSubcategoryPosts(c *fiber.Ctx) error {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidCategoryID)
	}

	locations, err := h.categoryUC.SubcategoryPostsMultiple(c.Context(), ids)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, locations, &utils.Meta{
		Total: len(locations),
	})
}

func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, errors.ErrInvalidCategoryID
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.ErrInvalidCategoryID
		}
		ids = append(ids, id)
	}
	return ids, nil
}
