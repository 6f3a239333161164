package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// APIError is one entry in the errors array of the response envelope.
type APIError struct {
	Detail string `json:"detail"`
}

// APIResponse is the envelope every endpoint answers with. Successes carry
// the result in Data and an empty errors array; failures carry an empty Data
// array and at least one error entry.
type APIResponse struct {
	StatusCode int        `json:"status_code"`
	Data       any        `json:"data"`
	Errors     []APIError `json:"errors"`
}

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, APIResponse{
		StatusCode: statusCode,
		Data:       data,
		Errors:     []APIError{},
	})
}

// RespondError sends a standardized JSON error response. ServiceError kinds
// select the status code; anything else reports as an internal error.
func RespondError(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	code := HTTPStatus(kind)

	detail := err.Error()
	if kind == ErrInternal {
		detail = "Internal server error"
	}

	writeJSON(w, code, APIResponse{
		StatusCode: code,
		Data:       []any{},
		Errors:     []APIError{{Detail: detail}},
	})
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("JSON encode failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
