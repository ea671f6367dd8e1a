package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"uniapply/internal/auth"
	"uniapply/internal/service"
)

// UniversityHandler serves the catalog and its staff-only admin endpoints.
type UniversityHandler struct {
	svc service.UniversityService
}

func NewUniversityHandler(svc service.UniversityService) *UniversityHandler {
	return &UniversityHandler{svc: svc}
}

// UniversityRequest carries writable university fields. Multipart requests may add a thumbnail file.
type UniversityRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	Established *int    `json:"established" validate:"omitempty,gte=0"`
	Students    *int    `json:"students" validate:"omitempty,gte=0"`
	Ranking     *int    `json:"ranking" validate:"omitempty,gte=0"`
}

// NameRequest names a faculty or division.
type NameRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// List godoc
// @Summary List universities
// @Tags universities
// @Produce json
// @Success 200 {array} UniversityResponse
// @Router /universities/ [get]
func (h *UniversityHandler) List(c echo.Context) error {
	universities, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	resp := make([]UniversityResponse, 0, len(universities))
	for i := range universities {
		resp = append(resp, newUniversityResponse(&universities[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a university
// @Tags universities
// @Produce json
// @Param id path int true "University ID"
// @Success 200 {object} UniversityResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /universities/{id}/ [get]
func (h *UniversityHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	university, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newUniversityResponse(university))
}

// Create godoc
// @Summary Create a university
// @Tags universities
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body UniversityRequest true "University"
// @Success 201 {object} UniversityResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /universities/ [post]
func (h *UniversityHandler) Create(c echo.Context) error {
	caller, err := requireStaff(c)
	if err != nil {
		return err
	}
	in, err := h.readInput(c)
	if err != nil {
		return err
	}

	university, err := h.svc.Create(c.Request().Context(), caller, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newUniversityResponse(university))
}

// Update godoc
// @Summary Partially update a university
// @Tags universities
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "University ID"
// @Param request body UniversityRequest true "Fields to change"
// @Success 200 {object} UniversityResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /universities/{id}/ [patch]
func (h *UniversityHandler) Update(c echo.Context) error {
	caller, err := requireStaff(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	in, err := h.readInput(c)
	if err != nil {
		return err
	}

	university, err := h.svc.Update(c.Request().Context(), caller, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newUniversityResponse(university))
}

// Delete godoc
// @Summary Delete a university with its faculties, divisions, gallery and applications
// @Tags universities
// @Security BearerAuth
// @Param id path int true "University ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /universities/{id}/ [delete]
func (h *UniversityHandler) Delete(c echo.Context) error {
	caller, err := requireStaff(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), caller, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddFaculty godoc
// @Summary Add a faculty to a university
// @Tags universities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "University ID"
// @Param request body NameRequest true "Faculty"
// @Success 201 {object} FacultyResponse
// @Router /universities/{id}/faculties/ [post]
func (h *UniversityHandler) AddFaculty(c echo.Context) error {
	caller, err := requireStaff(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req NameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	faculty, err := h.svc.AddFaculty(c.Request().Context(), caller, id, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, FacultyResponse{ID: faculty.ID, Name: faculty.Name})
}

// AddDivision godoc
// @Summary Add a division to a university
// @Tags universities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "University ID"
// @Param request body NameRequest true "Division"
// @Success 201 {object} DivisionResponse
// @Router /universities/{id}/divisions/ [post]
func (h *UniversityHandler) AddDivision(c echo.Context) error {
	caller, err := requireStaff(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req NameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	division, err := h.svc.AddDivision(c.Request().Context(), caller, id, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, DivisionResponse{ID: division.ID, Name: division.Name})
}

// AddGalleryImage godoc
// @Summary Upload a gallery image
// @Tags universities
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "University ID"
// @Param image formData file true "Image"
// @Success 201 {object} GalleryResponse
// @Router /universities/{id}/gallery/ [post]
func (h *UniversityHandler) AddGalleryImage(c echo.Context) error {
	caller, err := requireStaff(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var image *service.Upload
	if isMultipart(c) {
		form, err := parseMultipart(c)
		if err != nil {
			return err
		}
		if image, err = form.File("image"); err != nil {
			return formError(c, err)
		}
	}

	gallery, err := h.svc.AddGalleryImage(c.Request().Context(), caller, id, image)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, GalleryResponse{ID: gallery.ID, Image: gallery.Image})
}

// DeleteFaculty godoc
// @Summary Remove a faculty
// @Tags universities
// @Security BearerAuth
// @Param id path int true "University ID"
// @Param child path int true "Faculty ID"
// @Success 204
// @Router /universities/{id}/faculties/{child}/ [delete]
func (h *UniversityHandler) DeleteFaculty(c echo.Context) error {
	return h.deleteChild(c, h.svc.DeleteFaculty)
}

// DeleteDivision godoc
// @Summary Remove a division
// @Tags universities
// @Security BearerAuth
// @Param id path int true "University ID"
// @Param child path int true "Division ID"
// @Success 204
// @Router /universities/{id}/divisions/{child}/ [delete]
func (h *UniversityHandler) DeleteDivision(c echo.Context) error {
	return h.deleteChild(c, h.svc.DeleteDivision)
}

// DeleteGalleryImage godoc
// @Summary Remove a gallery image
// @Tags universities
// @Security BearerAuth
// @Param id path int true "University ID"
// @Param child path int true "Gallery image ID"
// @Success 204
// @Router /universities/{id}/gallery/{child}/ [delete]
func (h *UniversityHandler) DeleteGalleryImage(c echo.Context) error {
	return h.deleteChild(c, h.svc.DeleteGalleryImage)
}

type deleteChildFunc func(ctx context.Context, caller *auth.Principal, universityID, id uint) error

func (h *UniversityHandler) deleteChild(c echo.Context, del deleteChildFunc) error {
	caller, err := requireStaff(c)
	if err != nil {
		return err
	}
	universityID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	id, err := parseID(c, "child")
	if err != nil {
		return err
	}
	if err := del(c.Request().Context(), caller, universityID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// readInput reads a university payload from JSON or multipart.
func (h *UniversityHandler) readInput(c echo.Context) (service.UniversityInput, error) {
	var (
		req       UniversityRequest
		thumbnail *service.Upload
	)

	if isMultipart(c) {
		form, err := parseMultipart(c)
		if err != nil {
			return service.UniversityInput{}, err
		}
		req.Name = form.String("name")
		req.Location = form.String("location")
		req.Established = form.Int("established")
		req.Students = form.Int("students")
		req.Ranking = form.Int("ranking")
		if thumbnail, err = form.File("thumbnail"); err != nil {
			return service.UniversityInput{}, formError(c, err)
		}
		if err := form.Err(); err != nil {
			return service.UniversityInput{}, respondError(c, err)
		}
		if err := c.Validate(&req); err != nil {
			return service.UniversityInput{}, respondError(c, err)
		}
	} else if err := bindAndValidate(c, &req); err != nil {
		return service.UniversityInput{}, err
	}

	return service.UniversityInput{
		Name:        req.Name,
		Location:    req.Location,
		Established: req.Established,
		Students:    req.Students,
		Ranking:     req.Ranking,
		Thumbnail:   thumbnail,
	}, nil
}
