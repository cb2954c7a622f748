package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/sladica/internal/validate"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// jsonMessage writes a JSON body carrying only a message.
func jsonMessage(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"message": message})
}

// noContent writes an empty 204 response.
func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

type validationResponse struct {
	Message string          `json:"message"`
	Errors  validate.Errors `json:"errors"`
}

// validationError writes the 422 report for errs.
func validationError(w http.ResponseWriter, errs validate.Errors) {
	jsonResponse(w, http.StatusUnprocessableEntity, validationResponse{
		Message: errs.Message(),
		Errors:  errs,
	})
}

// serverError logs err and writes a 500 response.
func serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	slog.Error(message, "method", r.Method, "path", r.URL.Path, "error", err)
	jsonError(w, http.StatusInternalServerError, message)
}

// requestError writes the response for a failure to read the request body.
func requestError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		jsonError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, errBadRequest):
		jsonError(w, http.StatusBadRequest, "invalid request body")
	default:
		serverError(w, r, "failed to read request", err)
	}
}
