package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "uniapply/internal/errors"
	"uniapply/internal/model"
)

// Validator wraps the go-playground validator and implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that reports fields by their json (or form) name
// and knows the application enums.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = v.RegisterValidation("prior_education", choice(model.PriorEducations))
	_ = v.RegisterValidation("target_program", choice(model.TargetPrograms))
	_ = v.RegisterValidation("application_status", choice(model.ApplicationStatuses))

	return &Validator{validate: v}
}

func choice(choices []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return model.IsChoice(fl.Field().String(), choices)
	}
}

// Validate implements echo.Validator. Failures come back as *errors.ValidationError.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return FormatValidationErrors(verrs)
}

// FormatValidationErrors converts validator errors into per-field messages.
func FormatValidationErrors(verrs validator.ValidationErrors) *apperrors.ValidationError {
	out := &apperrors.ValidationError{}
	for _, e := range verrs {
		out.Add(fieldPath(e), message(e))
	}
	return out
}

// fieldPath drops the top-level struct name: "RegisterRequest.profile.bio" -> "profile.bio".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", e.Param())
	case "prior_education", "target_program", "application_status":
		return fmt.Sprintf("%q is not a valid choice.", e.Value())
	default:
		return "Invalid value."
	}
}
