package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/pkg/errors"
	"github.com/tryggaplatser/locator/internal/pkg/utils"
	"github.com/tryggaplatser/locator/internal/usecase"
)

type LocationHandler struct {
	locationUC usecase.LocationUseCase
	logger     *zap.Logger
}

func NewLocationHandler(locationUC usecase.LocationUseCase, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		locationUC: locationUC,
		logger:     logger,
	}
}

// GetAll godoc
// @Summary List all placeable locations
// @Description Every service with usable coordinates, for the homepage map
// @Tags locations
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /locations [get]
func (h *LocationHandler) GetAll(c *fiber.Ctx) error {
	locations, err := h.locationUC.AllLocations(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, locations, &utils.Meta{
		Total: len(locations),
	})
}

// GetByID godoc
// @Summary Get one location
// @Tags locations
// @Produce json
// @Param id path int true "Post ID"
// @Param cat_id query int false "Category to attach"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /posts/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil || postID <= 0 {
		return utils.SendError(c, errors.ErrInvalidPostID)
	}
	catID := c.QueryInt("cat_id", 0)

	loc, err := h.locationUC.SinglePost(c.Context(), int64(postID), int64(catID))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, loc, nil)
}

// GetDetails godoc
// @Summary Get one location with facilities and group schedules
// @Tags locations
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /posts/{id}/details [get]
func (h *LocationHandler) GetDetails(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil || postID <= 0 {
		return utils.SendError(c, errors.ErrInvalidPostID)
	}

	loc, err := h.locationUC.LocationDetails(c.Context(), int64(postID))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, loc, nil)
}
