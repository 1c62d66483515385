// Package handlers exposes the opportunity API over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"propmgmt/domain/access"
	"propmgmt/domain/contracts"
	"propmgmt/interfaces/web/middleware"
	"propmgmt/logging"
)

// maxBodyBytes bounds request bodies; opportunities carry their full content.
const maxBodyBytes = 4 << 20

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Default().Error("Failed to encode response", "error", err.Error())
	}
}

// WriteError maps err onto a status code and a JSON error body.
func WriteError(w http.ResponseWriter, err error) {
	status, code := StatusFor(err)
	WriteJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: err.Error()}})
}

// StatusFor classifies err by its sentinel.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, contracts.ErrAccessDenied):
		return http.StatusForbidden, "access_denied"
	case errors.Is(err, contracts.ErrNoItemsFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, contracts.ErrInvalidTransition):
		return http.StatusBadRequest, "invalid_transition"
	case errors.Is(err, contracts.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty request body: %w", contracts.ErrInvalidArgument)
		}
		return fmt.Errorf("decode request body: %v: %w", err, contracts.ErrInvalidArgument)
	}
	return nil
}

// callerFrom returns the authenticated caller or writes 401.
func callerFrom(w http.ResponseWriter, r *http.Request) (access.Caller, bool) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, errorBody{Error: errorDetail{Code: "unauthorized", Message: "no authenticated caller"}})
		return access.Caller{}, false
	}
	return caller, true
}
