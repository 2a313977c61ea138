package httpx

import (
	"encoding/json"
	"net/http"
)

// internalErrorBody is sent when a response value cannot be encoded.
const internalErrorBody = `{"error":"internal server error"}`

// JSON writes v as JSON with the given status code. The value is encoded
// before any header is written, so an encoding failure becomes a 500 instead
// of a truncated body.
func JSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(internalErrorBody)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// JSONError writes a standard {"error": message} JSON response.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
