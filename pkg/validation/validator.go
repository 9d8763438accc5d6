package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator. Field names in errors come from the form
// tag, falling back to the json tag.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(fieldName)
		// Aliases for common semantics
		v.RegisterAlias("personname", "min=1,max=100")
		v.RegisterAlias("nonzero", "required")
		instance = v
	})
	return instance
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Struct validates v and returns a field → message map, or nil when v is valid.
func Struct(v any) map[string]string {
	if err := Validator().Struct(v); err != nil {
		return ToDetails(err)
	}
	return nil
}

// ToDetails converts validation/binding errors into a map[field]message suitable for
// re-rendering a form or an API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	// ===== PRESENCE/REQUIRED VALIDATIONS =====
	case "required", "nonzero":
		return "is required"
	case "required_with":
		return "is required when " + param + " is present"
	case "required_without":
		return "is required when " + param + " is not present"

	// ===== STRING FORMAT VALIDATIONS =====
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"

	// ===== CHARACTER SET VALIDATIONS =====
	case "printascii":
		return "must contain printable ASCII characters only"
	case "excludesall":
		return "must not contain any of '" + param + "'"

	// ===== SIZE/LENGTH VALIDATIONS =====
	case "len":
		if param != "" {
			return fmt.Sprintf("must be exactly %s characters long", param)
		}
		return "invalid length"
	case "min":
		if param != "" {
			if isNumberKind(kind) {
				return "must be at least " + param
			}
			return "must be at least " + param + " characters long"
		}
		return "too small"
	case "max":
		if param != "" {
			if isNumberKind(kind) {
				return "must be at most " + param
			}
			return "must be at most " + param + " characters long"
		}
		return "too large"

	// ===== INCLUSION/EXCLUSION VALIDATIONS =====
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")

	// ===== CUSTOM ALIASES =====
	case "personname":
		return "must be between 1 and 100 characters long"

	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
