// internal/app/system/inputval/inputval.go

// Package inputval validates request structs with go-playground/validator.
// Field rules live on `validate` tags; the first failure is reported with
// the field's json name so the message matches what the caller sent.
package inputval

import (
	"reflect"
	"strings"

	"github.com/communa-dev/communa/internal/app/system/apierr"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Check validates a request struct and converts the first violation into an
// apierr.Invalid error.
func Check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return apierr.Wrap(apierr.Invalid, "invalid input", err)
	}
	fe := errs[0]
	return apierr.E(apierr.Invalid, message(fe))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
