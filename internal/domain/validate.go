package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// Report fields by their persisted names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks user input before a problem is created.
func (f Fields) Validate() error {
	return toValidationError(validate.Struct(f))
}

// ValidateRecord checks a decoded record before it is trusted.
func ValidateRecord(p Problem) error {
	return toValidationError(validate.Struct(p))
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fieldErrs := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrs = append(fieldErrs, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return NewValidationErrors(fieldErrs)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "oneof":
		return "must be one of " + fe.Param()
	case "url":
		return "must be an absolute URL"
	case "gt":
		return "must be greater than " + fe.Param()
	}
	return "failed " + fe.Tag() + " check"
}
