package validate

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return hexColor.MatchString(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
