package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sweet-layers/internal/validation"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// ErrMalformedBody is returned when a request body is not the expected JSON
var ErrMalformedBody = errors.New("malformed request body")

// DecodeAndValidate decodes the JSON request body into v and validates it.
// Unknown fields are rejected.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := Decode(r, v); err != nil {
		return err
	}
	return validation.Struct(v)
}

// Decode decodes the JSON request body into v without validating it
func Decode(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return nil
}

// FormatValidationErrors converts validator errors to field errors
func FormatValidationErrors(err error) []validation.FieldError {
	return validation.Format(err)
}

// RespondWithDecodeError answers a failed DecodeAndValidate call
func RespondWithDecodeError(w http.ResponseWriter, err error) {
	if fieldErrors := FormatValidationErrors(err); len(fieldErrors) > 0 {
		RespondWithValidationErrors(w, fieldErrors)
		return
	}
	RespondWithError(w, http.StatusBadRequest, "invalid request body")
}
