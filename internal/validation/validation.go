// Package validation checks request payloads against their validate:"..."
// struct tags and reports failures as *apperr.ValidationError.
//
// Validation is an explicit step run by the service layer after the
// body has been decoded. Decoding only establishes the shape.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sorting-waste-app/services/internal/apperr"
	"github.com/sorting-waste-app/services/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their JSON names, not the Go ones.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Patch members validate as their carried value. Unset and Null yield
	// a nil pointer, which omitnil skips; a carried "" is still checked.
	v.RegisterCustomTypeFunc(fieldValue[string], types.Field[string]{})
	v.RegisterCustomTypeFunc(fieldValue[int], types.Field[int]{})

	// max counts runes, bcrypt counts bytes.
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}

	return v
}

// fieldValue returns a typed pointer so the validator sees a nil Ptr
// rather than an invalid value for members that carry nothing.
func fieldValue[T any](v reflect.Value) any {
	f, ok := v.Interface().(types.Field[T])
	if !ok {
		return (*T)(nil)
	}
	if val, set := f.Get(); set {
		return &val
	}
	return (*T)(nil)
}

func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

// Struct validates s. It returns nil or an *apperr.ValidationError
// listing every failing field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation: %w", err)
	}
	return FromValidator(verrs)
}

// FromValidator converts validator field errors into the shared
// taxonomy.
func FromValidator(errs validator.ValidationErrors) *apperr.ValidationError {
	out := &apperr.ValidationError{Fields: make([]apperr.FieldError, 0, len(errs))}
	for _, e := range errs {
		out.Fields = append(out.Fields, apperr.FieldError{
			Field:   e.Field(),
			Message: message(e),
		})
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is required", e.Field())
	case "email":
		return fmt.Sprintf("field %s must be a valid email address", e.Field())
	case "lte", "max":
		return fmt.Sprintf("field %s must be at most %s", e.Field(), e.Param())
	case "maxbytes":
		return fmt.Sprintf("field %s must be at most %s bytes", e.Field(), e.Param())
	case "min":
		if e.Param() == "1" && e.Kind() == reflect.String {
			return fmt.Sprintf("field %s must not be empty", e.Field())
		}
		return fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("field %s must be one of [%s]", e.Field(), e.Param())
	default:
		return fmt.Sprintf("field %s is invalid", e.Field())
	}
}
