package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/task-manager-api/internal/domain"
)

// MaxJSONBodyBytes caps JSON request bodies.
const MaxJSONBodyBytes = 1 << 20

// ErrInvalidRequest is returned when a request body is not the expected JSON.
var ErrInvalidRequest = errors.New("invalid request format")

// Global validator instance for reuse. Field names are reported as their
// JSON keys.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxJSONBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrInvalidRequest, err)
	}
	return nil
}

// DecodeObject decodes a JSON object body keeping each value raw, so callers
// can inspect the keys before decoding any field.
func DecodeObject(r *http.Request) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := DecodeJSON(r, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrInvalidRequest
	}
	return raw, nil
}

// ValidateRequest validates the given struct using the validator package.
// Tag failures are reported as a domain.ValidationError for the first
// offending field.
func ValidateRequest(v interface{}) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	err := validate.Struct(v)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return domain.NewValidationError(fe.Field(), validationTagMessage(fe.Tag()), nil)
	}
	return err
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "is invalid"
	case "gte", "min":
		return "is too small"
	case "lte", "max":
		return "is too large"
	default:
		return "is invalid"
	}
}
