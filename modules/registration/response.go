package registration

import (
	"encoding/json"
	"net/http"

	"github.com/willvault/registry/pkg/validator"
)

type jsonResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *jsonError `json:"error,omitempty"`
}

type jsonError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body jsonResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, jsonResponse{Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, jsonResponse{Error: &jsonError{Message: message}})
}

// writeValidationError renders field-level messages with a 422 so the
// form can annotate its inputs.
func writeValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, seen := fields[e.Field]; !seen {
			fields[e.Field] = e.Message
		}
	}
	writeJSON(w, http.StatusUnprocessableEntity, jsonResponse{
		Error: &jsonError{Message: "validation failed", Fields: fields},
	})
}
