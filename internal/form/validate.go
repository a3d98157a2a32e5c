package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/alfredjeanlab/dateadmin/internal/apierr"
)

// Validator checks draft structs against their `validate` tags and renders
// failures with the field's `label` tag, e.g. "Title is required".
// FieldErrors are keyed by the `form` tag so they line up with SetField.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a Validator that understands decimal fields.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return &Validator{v: v}
}

// Struct validates s, which must be a struct or a pointer to one. The
// result is empty when s is valid.
func (v *Validator) Struct(s any) apierr.FieldErrors {
	out := apierr.FieldErrors{}
	err := v.v.Struct(s)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out[FormErrorKey] = err.Error()
		return out
	}
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe, label(t, fe))
	}
	return out
}

// FormErrorKey holds errors that belong to the form rather than a field.
const FormErrorKey = "_form"

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func label(t reflect.Type, fe validator.FieldError) string {
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
		}
	}
	return fe.Field()
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func message(fe validator.FieldError, label string) string {
	p := fe.Param()
	numeric := isNumeric(fe.Kind())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "gte", "min":
		if numeric {
			return fmt.Sprintf("%s must be %s or greater", label, p)
		}
		return fmt.Sprintf("%s must be at least %s characters", label, p)
	case "lte", "max":
		if numeric {
			return fmt.Sprintf("%s must be %s or less", label, p)
		}
		return fmt.Sprintf("%s must be at most %s characters", label, p)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, p)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", label, p)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, p)
	case "email":
		return label + " must be a valid email address"
	case "url":
		return label + " must be a valid URL"
	case "startswith":
		return fmt.Sprintf("%s must start with %q", label, p)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(p), ", "))
	}
	return label + " is invalid"
}
