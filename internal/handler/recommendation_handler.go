package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"uniapply/internal/service"
)

type RecommendationHandler struct {
	svc service.RecommendationService
}

func NewRecommendationHandler(svc service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// RecommendRequest holds the student's free-text preferences. Both may be blank.
type RecommendRequest struct {
	InterestedIn string `json:"interested_in"`
	GoodAt       string `json:"good_at"`
}

// Recommend godoc
// @Summary Recommend up to five faculties
// @Tags recommendations
// @Accept json
// @Produce json
// @Param request body RecommendRequest true "Preferences"
// @Success 200 {array} string
// @Failure 502 {object} errors.ErrorResponse
// @Router /recommend/ [post]
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	picks, err := h.svc.Recommend(c.Request().Context(), req.InterestedIn, req.GoodAt)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, picks)
}
