// Package apierr turns the errors returned by the API client into what the
// console shows: either inline field messages or a single toast message.
package apierr

import (
	"errors"
	"sort"

	"github.com/alfredjeanlab/dateadmin/internal/client"
)

// FallbackMessage is shown when an error carries no usable text.
const FallbackMessage = "Something went wrong"

// FieldErrors maps a form field name to its error message.
type FieldErrors map[string]string

// Clone returns a copy of fe. The copy of a nil map is an empty map.
func (fe FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(fe))
	for k, v := range fe {
		out[k] = v
	}
	return out
}

// Outcome is the normalized form of an error. Exactly one of ToastMessage
// and FieldErrors is set for a non-nil error.
type Outcome struct {
	ToastMessage string
	FieldErrors  FieldErrors
}

// HasFieldErrors reports whether the outcome should be rendered inline.
func (o Outcome) HasFieldErrors() bool {
	return len(o.FieldErrors) > 0
}

// Kind classifies a service-layer result.
type Kind int

const (
	KindOK Kind = iota
	KindValidation
	KindGeneral
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindValidation:
		return "validation"
	default:
		return "general"
	}
}

// Classify reports which branch of the result union err belongs to.
func Classify(err error) Kind {
	if err == nil {
		return KindOK
	}
	var ve *client.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		return KindValidation
	}
	return KindGeneral
}

// Normalize maps err to an Outcome. A validation error with named fields
// becomes FieldErrors, the last entry winning for a repeated field.
// Anything else becomes a ToastMessage taken from the API message, then
// the error text, then FallbackMessage.
func Normalize(err error) Outcome {
	if err == nil {
		return Outcome{}
	}

	var ve *client.ValidationError
	if errors.As(err, &ve) {
		if len(ve.Fields) > 0 {
			fields := make(FieldErrors, len(ve.Fields))
			for _, f := range ve.Fields {
				fields[f.Field] = f.Message
			}
			return Outcome{FieldErrors: fields}
		}
		if ve.Message != "" {
			return Outcome{ToastMessage: ve.Message}
		}
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return Outcome{ToastMessage: apiErr.Message}
	}

	if msg := safeText(err); msg != "" {
		return Outcome{ToastMessage: msg}
	}
	return Outcome{ToastMessage: FallbackMessage}
}

// Message is shorthand for the toast text of err, used where field errors
// have nowhere to be shown.
func Message(err error) string {
	o := Normalize(err)
	if o.ToastMessage != "" {
		return o.ToastMessage
	}
	if len(o.FieldErrors) > 0 {
		fields := make([]string, 0, len(o.FieldErrors))
		for field := range o.FieldErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		return o.FieldErrors[fields[0]]
	}
	return ""
}

// safeText returns err.Error(), recovering from a panicking Error method so
// that normalization never fails.
func safeText(err error) (msg string) {
	defer func() {
		if recover() != nil {
			msg = ""
		}
	}()
	return err.Error()
}
