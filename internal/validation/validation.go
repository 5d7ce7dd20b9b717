package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\(\d{3}\)\s\d{3}-\d{4}$`)
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	// Registration only fails on empty tags or nil funcs.
	_ = validate.RegisterValidation("required_trimmed", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = validate.RegisterValidation("storefront_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("storefront_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}

// FieldError is a single field validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Struct validates v against its `validate` tags
func Struct(v interface{}) error {
	return validate.Struct(v)
}

// Fields validates v and returns every failing field, one entry per field.
// A nil result means v is valid.
func Fields(v interface{}) []FieldError {
	return Format(validate.Struct(v))
}

// Format converts validator errors to field errors. Non-validation errors yield nil.
func Format(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   e.Field(),
			Message: message(e),
		})
	}
	return fieldErrors
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_trimmed":
		return "This field is required"
	case "email", "storefront_email":
		return "Please enter a valid email address"
	case "storefront_phone":
		return "Please enter phone as (123) 456-7890"
	case "min":
		return "Value is too short"
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	case "oneof":
		return "Value must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}

// jsonFieldName reports fields by their json name so errors match the request payload
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return lowerFirst(fld.Name)
	}
	return name
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
