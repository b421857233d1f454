// Package validation holds the request validator shared by gin binding and
// the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"supacoach/coach-api/internal/apperr"
)

// Validator implements binding.StructValidator on top of validator/v10.
type Validator struct {
	once     sync.Once
	validate *validator.Validate
}

var defaultValidator = &Validator{}

// Default returns the process-wide validator.
func Default() *Validator {
	return defaultValidator
}

// Install makes gin use the shared validator for ShouldBind* calls.
func Install() {
	binding.Validator = defaultValidator
}

func (v *Validator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New(validator.WithRequiredStructEnabled())
		v.validate.SetTagName("binding")
		v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// ValidateStruct validates structs, pointers to structs and slices of them.
// Other values are accepted as-is.
func (v *Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		return v.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		v.lazyinit()
		return v.validate.Struct(obj)
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			if err := v.ValidateStruct(value.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *Validator) Engine() any {
	v.lazyinit()
	return v.validate
}

// Struct validates obj and returns a VALIDATION_ERROR with per-field details.
func (v *Validator) Struct(obj any) error {
	if err := v.ValidateStruct(obj); err != nil {
		return FromError(err)
	}
	return nil
}

// Struct validates obj with the shared validator.
func Struct(obj any) error {
	return defaultValidator.Struct(obj)
}

// FromError converts a binding or validation failure into an apperr.Error.
func FromError(err error) *apperr.Error {
	if err == nil {
		return nil
	}
	if typed := apperr.As(err); typed != nil {
		return typed
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		return apperr.Validation("validation failed", Details(errs))
	}
	return apperr.Wrap(apperr.CodeValidation, err, "invalid request body").
		WithDetails(map[string]string{"body": err.Error()})
}

// Details maps JSON field paths to human readable messages.
func Details(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fieldPath(fe)] = message(fe)
	}
	return details
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "startswith":
		return fmt.Sprintf("must start with %q", fe.Param())
	}
	return "is invalid"
}
