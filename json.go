package main

import (
	"encoding/json"
	"net/http"
)

// Helpers for sending standardized JSON responses.

// respondWithError logs the underlying error (if any) and sends a JSON error
// body with the given status code.
func (cfg *appConfig) respondWithError(w http.ResponseWriter, code int, msg string, err error) {
	if err != nil {
		cfg.logger.Error(msg, "error", err)
	}
	cfg.respondWithJSON(w, code, ErrorResponse{Error: msg})
}

// respondWithJSON marshals a payload, sets the content type and writes the
// response with the given status code.
func (cfg *appConfig) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		cfg.logger.Error("error marshalling JSON", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		cfg.logger.Error("error writing response", "error", err)
	}
}
