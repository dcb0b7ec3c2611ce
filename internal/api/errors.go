package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joestump/studyshelf/internal/validation"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest           = "BAD_REQUEST"
	codeValidation           = "VALIDATION"
	codeNotFound             = "NOT_FOUND"
	codeConflict             = "CONFLICT"
	codeSubmissionIncomplete = "SUBMISSION_INCOMPLETE"
	codeInternal             = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeValidationError writes 400 with per-field details when err is a
// *validation.Error, or a plain bad-request otherwise.
func writeValidationError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    codeValidation,
			Details: verr.Fields,
		})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error(), codeBadRequest)
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func isValidation(err error) bool {
	var verr *validation.Error
	return errors.As(err, &verr)
}
