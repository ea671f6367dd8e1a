package handler

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"uniapply/internal/auth"
	apperrors "uniapply/internal/errors"
	"uniapply/internal/service"
)

// ContextKeyClaims is where the JWT middleware stores *auth.Claims.
const ContextKeyClaims = "user"

// principal returns the authenticated caller, or nil for anonymous requests.
func principal(c echo.Context) *auth.Principal {
	claims, ok := c.Get(ContextKeyClaims).(*auth.Claims)
	if !ok || claims == nil {
		return nil
	}
	p := claims.Principal()
	return &p
}

// respondError converts a service error into the JSON error envelope. The cause is kept
// as the internal error so the request logger records it.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// requireCaller rejects anonymous requests before the body is read.
func requireCaller(c echo.Context) (*auth.Principal, error) {
	caller := principal(c)
	if caller == nil {
		return nil, respondError(c, apperrors.ErrUnauthenticated)
	}
	return caller, nil
}

// requireStaff rejects anonymous and non-staff requests before the body is read.
func requireStaff(c echo.Context) (*auth.Principal, error) {
	caller, err := requireCaller(c)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff {
		return nil, respondError(c, apperrors.ErrForbidden)
	}
	return caller, nil
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: message,
		Code:  "INVALID_REQUEST",
	})
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return respondError(c, err)
	}
	return nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, apperrors.ErrorResponse{
			Error: apperrors.ErrNotFound.Error(),
			Code:  "NOT_FOUND",
		})
	}
	return uint(id), nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// multipartForm is the parsed form of a multipart request with typed accessors.
type multipartForm struct {
	form *multipart.Form
	verr *apperrors.ValidationError
}

func parseMultipart(c echo.Context) (*multipartForm, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, badRequest("invalid multipart body")
	}
	return &multipartForm{form: form, verr: &apperrors.ValidationError{}}, nil
}

// String returns the first value of the first present key, or nil when none is sent.
func (f *multipartForm) String(keys ...string) *string {
	for _, k := range keys {
		if vs, ok := f.form.Value[k]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
	}
	return nil
}

func (f *multipartForm) Int(key string) *int {
	s := f.String(key)
	if s == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		f.verr.Add(key, "A valid integer is required.")
		return nil
	}
	return &n
}

func (f *multipartForm) Uint(key string) *uint {
	n := f.Int(key)
	if n == nil {
		return nil
	}
	if *n < 0 {
		f.verr.Add(key, "A valid integer is required.")
		return nil
	}
	u := uint(*n)
	return &u
}

// File reads the first uploaded file found under keys into memory.
func (f *multipartForm) File(keys ...string) (*service.Upload, error) {
	for _, k := range keys {
		headers := f.form.File[k]
		if len(headers) == 0 {
			continue
		}
		return readUpload(headers[0])
	}
	return nil, nil
}

// Err reports conversion failures collected by the accessors.
func (f *multipartForm) Err() error {
	return f.verr.Err()
}

func readUpload(fh *multipart.FileHeader) (*service.Upload, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return &service.Upload{Filename: fh.Filename, Content: bytes.NewReader(data)}, nil
}

// formError turns a multipart read failure into a response.
func formError(c echo.Context, err error) error {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return respondError(c, err)
	}
	return badRequest("could not read uploaded file")
}
