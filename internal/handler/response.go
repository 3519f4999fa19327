package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20 // 1MB

// decodeJSON reads a JSON body into v. An empty body leaves v untouched when
// allowEmpty is set. On failure it writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	if r.Body == nil || r.Body == http.NoBody {
		if allowEmpty {
			return true
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("request body required"))
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
	case allowEmpty && errors.Is(err, io.EOF):
		return true
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}
