package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"uniapply/internal/service"
)

// UserHandler serves registration and the caller's own profile.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type ProfileRequest struct {
	Bio string `json:"bio"`
}

// RegisterRequest is the registration payload. Multipart requests may also send profile.avatar.
type RegisterRequest struct {
	Email     string          `json:"email" validate:"required,email,max=254"`
	FirstName string          `json:"first_name" validate:"max=150"`
	LastName  string          `json:"last_name" validate:"max=150"`
	Password  string          `json:"password" validate:"required,min=8"`
	Profile   *ProfileRequest `json:"profile" validate:"required"`
}

type ProfilePatchRequest struct {
	Bio *string `json:"bio"`
}

// UpdateProfileRequest is a partial update; absent fields are left alone.
type UpdateProfileRequest struct {
	Email     *string              `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string              `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string              `json:"last_name" validate:"omitempty,max=150"`
	Password  *string              `json:"password" validate:"omitempty,min=8"`
	Profile   *ProfilePatchRequest `json:"profile"`
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json,mpfd
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /register/ [post]
func (h *UserHandler) Register(c echo.Context) error {
	var (
		req    RegisterRequest
		avatar *service.Upload
	)

	if isMultipart(c) {
		form, err := parseMultipart(c)
		if err != nil {
			return err
		}
		req.Email = deref(form.String("email"))
		req.FirstName = deref(form.String("first_name"))
		req.LastName = deref(form.String("last_name"))
		req.Password = deref(form.String("password"))
		bio := form.String("profile.bio", "bio")
		if avatar, err = form.File("profile.avatar", "avatar"); err != nil {
			return formError(c, err)
		}
		if bio != nil || avatar != nil {
			req.Profile = &ProfileRequest{Bio: deref(bio)}
		}
		if err := c.Validate(&req); err != nil {
			return respondError(c, err)
		}
	} else if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Bio:       req.Profile.Bio,
		Avatar:    avatar,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, newUserResponse(user))
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/profile/ [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	user, err := h.svc.GetProfile(c.Request().Context(), caller.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

// UpdateProfile godoc
// @Summary Partially update the caller's user and profile
// @Tags users
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/profile/ [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var (
		req    UpdateProfileRequest
		avatar *service.Upload
	)

	if isMultipart(c) {
		form, err := parseMultipart(c)
		if err != nil {
			return err
		}
		req.Email = form.String("email")
		req.FirstName = form.String("first_name")
		req.LastName = form.String("last_name")
		req.Password = form.String("password")
		if bio := form.String("profile.bio", "bio"); bio != nil {
			req.Profile = &ProfilePatchRequest{Bio: bio}
		}
		if avatar, err = form.File("profile.avatar", "avatar"); err != nil {
			return formError(c, err)
		}
		if err := c.Validate(&req); err != nil {
			return respondError(c, err)
		}
	} else if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch := service.ProfilePatch{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Avatar:    avatar,
	}
	if req.Profile != nil {
		patch.Bio = req.Profile.Bio
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), caller.UserID, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
