package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorPayload is the body of every failed API response.
type ErrorPayload struct {
	Error string `json:"error"`
}

// JSONResponse sends v as JSON with the given status
func JSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorResponse sends {"error": message} with the given status
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, ErrorPayload{Error: message})
}
