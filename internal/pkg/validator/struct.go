package validator

import (
	"errors"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

var structValidator = newStructValidator()

func newStructValidator() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())
	// Report json field names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct runs the `validate` struct tags of s and converts failures into ValidationErrors.
func Struct(s interface{}) error {
	err := structValidator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fieldPath(fe),
			Message: tagMessage(fe),
		})
	}
	return errs
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe playground.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func tagMessage(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without", "required_with":
		return fe.Field() + " is required"
	case "email":
		return "invalid email format"
	case "uuid", "uuid4":
		return fe.Field() + " must be a valid UUID"
	case "oneof":
		return fe.Field() + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must be greater than or equal to " + fe.Param()
	case "lte":
		return fe.Field() + " must be less than or equal to " + fe.Param()
	case "datetime":
		return fe.Field() + " must match format " + fe.Param()
	case "latitude":
		return fe.Field() + " must be a valid latitude"
	case "longitude":
		return fe.Field() + " must be a valid longitude"
	case "unique":
		return fe.Field() + " must not contain duplicates"
	default:
		return fe.Field() + " is invalid"
	}
}

// Collect runs Struct on s and appends its field failures to errs.
func Collect(errs ValidationErrors, s interface{}) ValidationErrors {
	err := Struct(s)
	if err == nil {
		return errs
	}
	var fieldErrs ValidationErrors
	if errors.As(err, &fieldErrs) {
		return append(errs, fieldErrs...)
	}
	return append(errs, ValidationError{Field: "request", Message: err.Error()})
}
