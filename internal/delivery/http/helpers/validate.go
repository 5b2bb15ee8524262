package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Validator is implemented by request DTOs that support validation.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the request body into dest (with DisallowUnknownFields)
// and, if dest implements Validator, runs Validate(). On decode failure it writes a 400
// bad_request, on validation failure a 400 validation_error, and returns false.
// Callers should return immediately when DecodeAndValidate returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := DecodeStrict(r.Body, dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "malformed request body: "+err.Error())
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeValidation, strings.Join(errs, "; "))
			return false
		}
	}
	return true
}

// DecodeStrict decodes one JSON value from body into dest, rejecting unknown fields.
func DecodeStrict(body io.Reader, dest any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}
