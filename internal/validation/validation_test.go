package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "uniapply/internal/errors"
)

type profileInput struct {
	Bio string `json:"bio" validate:"max=10"`
}

type sample struct {
	Email     string       `json:"email" validate:"required,email"`
	Password  string       `json:"password" validate:"required,min=8"`
	Education string       `json:"prior_highest_education" validate:"prior_education"`
	Program   string       `form:"target_program" validate:"omitempty,target_program"`
	Profile   profileInput `json:"profile"`
}

func TestValidate_FieldErrors(t *testing.T) {
	v := New()

	err := v.Validate(&sample{
		Email:     "nope",
		Education: "kindergarten",
		Program:   "MBA",
		Profile:   profileInput{Bio: "far too long for ten"},
	})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Enter a valid email address."}, verr.Fields["email"])
	assert.Equal(t, []string{"This field is required."}, verr.Fields["password"])
	assert.Contains(t, verr.Fields["prior_highest_education"][0], "kindergarten")
	assert.Contains(t, verr.Fields, "target_program")
	assert.Contains(t, verr.Fields, "profile.bio")
}

func TestValidate_OK(t *testing.T) {
	v := New()
	err := v.Validate(&sample{
		Email:     "ada@example.com",
		Password:  "password123",
		Education: "BACHELOR",
		Program:   "",
	})
	assert.NoError(t, err)
}
