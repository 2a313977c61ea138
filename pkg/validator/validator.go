package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Decoding errors returned by DecodeAndValidate.
var (
	ErrMalformedBody = errors.New("invalid JSON body")
	ErrBodyTooLarge  = errors.New("request body too large")
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// notblank: strings must contain something other than whitespace.
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("validator: register notblank: %v", err))
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		// ignore unexported or explicitly ignored
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// FieldErrors maps a JSON field name to a human-readable message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for k := range f {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, k := range fields {
		parts[i] = k + ": " + f[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name → human-readable message.
func FormatValidationErrors(err error) FieldErrors {
	errs := make(FieldErrors)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs[e.Field()] = formatFieldError(e)
	}
	return errs
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "notblank":
		return "Must not be blank"
	case "min":
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", e.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// DecodeAndValidate decodes the JSON request body into T and validates it.
//
// An empty body decodes as the zero value of T and is then validated. Errors:
//   - ErrBodyTooLarge when the body exceeds the RequestBodyLimit cap
//   - ErrMalformedBody for syntactically invalid JSON or data after the first value
//   - FieldErrors when a value has the wrong JSON type or fails a validate tag
func DecodeAndValidate[T any](r *http.Request) (*T, error) {
	var req T
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&req)
	switch {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, decodeError(err)
	default:
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			if err == nil {
				err = errTrailingData
			}
			return nil, decodeError(err)
		}
	}
	if err := Validate(&req); err != nil {
		return nil, FormatValidationErrors(err)
	}
	return &req, nil
}

var errTrailingData = errors.New("unexpected data after JSON value")

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &maxErr):
		return ErrBodyTooLarge
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return FieldErrors{field: fmt.Sprintf("Must be of type %s", typeErr.Type)}
	default:
		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
}
