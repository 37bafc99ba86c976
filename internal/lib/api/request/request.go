package request

import (
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"imageResizer/internal/variant"
	"net/http"
)

var (
	ErrInvalidID   = errors.New("invalid image ID")
	ErrInvalidSize = errors.New("invalid size")
)

// ImageVariant is the {id} route param plus the size query param.
type ImageVariant struct {
	ID   string `validate:"required"`
	Size string `validate:"required,variant"`
}

type Validator struct {
	validate *validator.Validate
	policy   *variant.Policy
}

func NewValidator(policy *variant.Policy) *Validator {
	validate := validator.New()

	// registering a fresh tag on a new instance cannot fail
	_ = validate.RegisterValidation("variant", func(fl validator.FieldLevel) bool {
		_, err := policy.Resolve(fl.Field().String())
		return err == nil
	})

	return &Validator{
		validate: validate,
		policy:   policy,
	}
}

// ImageVariant extracts and validates the image id and size of r. The size is
// checked first.
func (v *Validator) ImageVariant(r *http.Request) (ImageVariant, error) {
	req := ImageVariant{
		ID:   chi.URLParam(r, "id"),
		Size: r.URL.Query().Get("size"),
	}

	err := v.validate.Struct(req)
	if err == nil {
		return req, nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return req, err
	}

	for _, fe := range validateErrs {
		if fe.Field() == "Size" {
			return req, ErrInvalidSize
		}
	}

	return req, ErrInvalidID
}

// InvalidSizeMessage lists the accepted sizes for the client.
func (v *Validator) InvalidSizeMessage() string {
	return "Invalid size. Available sizes are " + v.policy.String()
}
