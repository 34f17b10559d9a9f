package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/oqulab/virtlab/internal/middleware"
	"github.com/oqulab/virtlab/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps ServiceError codes to HTTP statuses. Anything that is not
// a ServiceError is an internal failure: logged in full, generic to the
// caller.
func writeError(w http.ResponseWriter, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		slog.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	switch se.Code {
	case services.ErrorInvalid:
		writeValidationError(w, se.Message)
	case services.ErrorUnauthorized:
		middleware.Unauthenticated(w)
	case services.ErrorForbidden:
		writeJSON(w, http.StatusForbidden, map[string]string{"error": se.Message})
	case services.ErrorNotFound:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": se.Message})
	case services.ErrorConflict:
		writeJSON(w, http.StatusConflict, map[string]string{"error": se.Message})
	default:
		slog.Error("unmapped service error", "code", se.Code, "error", se.Message)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func writeValidationError(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
		"error":  "validation_error",
		"detail": detail,
	})
}

// decodeJSON parses the request body, rejecting malformed payloads
// uniformly for every handler.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		writeValidationError(w, "malformed JSON body: "+err.Error())
		return false
	}
	return true
}
