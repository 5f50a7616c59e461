// Package api defines the HTTP contracts for the retrieval engine and
// helpers for writing standardized JSON responses.
package api

import (
	"encoding/json"
	"net/http"

	apperrors "contextgraph/pkg/errors"
)

// Success sends a standardized successful HTTP response with optional JSON data.
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error sends a standardized error response with consistent JSON format.
func Error(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ErrorFromApp maps application error types to HTTP status codes.
func ErrorFromApp(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsInvalidArgument(err):
		Error(w, http.StatusBadRequest, err.Error())
	case apperrors.IsNotFound(err):
		Error(w, http.StatusNotFound, err.Error())
	case apperrors.IsPermissionDenied(err):
		Error(w, http.StatusForbidden, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}
