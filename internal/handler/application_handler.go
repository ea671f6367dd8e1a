package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"uniapply/internal/model"
	"uniapply/internal/service"
)

type ApplicationHandler struct {
	svc service.ApplicationService
}

func NewApplicationHandler(svc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

// ApplicationRequest carries client-writable application fields. There is no owner field:
// a "user" key in the body is ignored. Enum values are normalized before validation.
type ApplicationRequest struct {
	University            *uint   `json:"university"`
	Essay                 *string `json:"essay"`
	PriorHighestEducation *string `json:"prior_highest_education" validate:"omitempty,prior_education"`
	TargetProgram         *string `json:"target_program" validate:"omitempty,target_program"`
	Status                *string `json:"status" validate:"omitempty,application_status"`
}

// normalize maps free-text enum input onto canonical values where one matches.
func (r *ApplicationRequest) normalize() {
	normalizeField(r.PriorHighestEducation, model.PriorEducations)
	normalizeField(r.TargetProgram, model.TargetPrograms)
	normalizeField(r.Status, model.ApplicationStatuses)
}

func normalizeField(v *string, choices []string) {
	if v != nil {
		*v = model.NormalizeChoice(*v, choices)
	}
}

// List godoc
// @Summary List the caller's applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Success 200 {object} ApplicationListResponse
// @Router /applications/ [get]
func (h *ApplicationHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	result, err := h.svc.List(c.Request().Context(), principal(c), page, pageSize)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newApplicationListResponse(result))
}

// Create godoc
// @Summary Submit an application
// @Tags applications
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body ApplicationRequest true "Application"
// @Success 201 {object} ApplicationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /applications/ [post]
func (h *ApplicationHandler) Create(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}
	in, err := h.readInput(c)
	if err != nil {
		return err
	}

	application, err := h.svc.Create(c.Request().Context(), caller, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newApplicationResponse(application))
}

// Get godoc
// @Summary Get one of the caller's applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} ApplicationResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /applications/{id}/ [get]
func (h *ApplicationHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	application, err := h.svc.Get(c.Request().Context(), principal(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newApplicationResponse(application))
}

// Update godoc
// @Summary Partially update an application
// @Description Only staff may change status.
// @Tags applications
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body ApplicationRequest true "Fields to change"
// @Success 200 {object} ApplicationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /applications/{id}/ [patch]
func (h *ApplicationHandler) Update(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	// ownership is checked before the body is parsed
	if _, err := h.svc.Get(c.Request().Context(), caller, id); err != nil {
		return respondError(c, err)
	}
	in, err := h.readInput(c)
	if err != nil {
		return err
	}

	application, err := h.svc.Update(c.Request().Context(), caller, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newApplicationResponse(application))
}

// Delete godoc
// @Summary Withdraw an application
// @Tags applications
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /applications/{id}/ [delete]
func (h *ApplicationHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), principal(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ApplicationHandler) readInput(c echo.Context) (service.ApplicationInput, error) {
	var (
		req                      ApplicationRequest
		document, recommendation *service.Upload
	)

	if isMultipart(c) {
		form, err := parseMultipart(c)
		if err != nil {
			return service.ApplicationInput{}, err
		}
		req.University = form.Uint("university")
		req.Essay = form.String("essay")
		req.PriorHighestEducation = form.String("prior_highest_education")
		req.TargetProgram = form.String("target_program")
		req.Status = form.String("status")
		if document, err = form.File("education_document"); err != nil {
			return service.ApplicationInput{}, formError(c, err)
		}
		if recommendation, err = form.File("recommendation_letter"); err != nil {
			return service.ApplicationInput{}, formError(c, err)
		}
		if err := form.Err(); err != nil {
			return service.ApplicationInput{}, respondError(c, err)
		}
	} else if err := c.Bind(&req); err != nil {
		return service.ApplicationInput{}, badRequest("invalid request body")
	}

	req.normalize()
	if err := c.Validate(&req); err != nil {
		return service.ApplicationInput{}, respondError(c, err)
	}

	return service.ApplicationInput{
		University:            req.University,
		Essay:                 req.Essay,
		PriorHighestEducation: req.PriorHighestEducation,
		TargetProgram:         req.TargetProgram,
		Status:                req.Status,
		EducationDocument:     document,
		RecommendationLetter:  recommendation,
	}, nil
}
