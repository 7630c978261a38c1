package common

import (
	"encoding/json"
	"net/http"
)

// ErrorInfo contains error details rendered to clients
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondEmptyObject sends the neutral "{}" body used for absent records
func RespondEmptyObject(w http.ResponseWriter) {
	RespondJSON(w, http.StatusOK, struct{}{})
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, map[string]ErrorInfo{
		"error": {Code: code, Message: message},
	})
}

// ParseJSONBody parses a JSON request body with a size limit
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
