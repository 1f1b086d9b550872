package utils

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/femtrack/forum/internal/api"
	"github.com/femtrack/forum/internal/errors"
	"github.com/femtrack/forum/internal/logger"
)

// WriteJSON writes v with the given status. All responses on this API are
// application/json, including errors.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// WriteErrorAndStatusCode maps err onto the wire contract: business errors
// keep their kind's status and message, anything else is a 500 with a
// generic body so internals never leak.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *errors.Error
	if stderrors.As(err, &e) && errors.IsBusiness(e) {
		WriteJSON(w, e.StatusCode(), api.ErrorResponse{Error: e.Message})
		return
	}
	logger.Log.Error("unexpected error", "error", err)
	WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error."})
}

// Decode parses a JSON request body. Empty bodies decode into the zero
// request; malformed JSON and oversized bodies are validation errors.
func Decode(r io.ReadCloser, body any) error {
	err := json.NewDecoder(r).Decode(body)
	if err == nil || err == io.EOF {
		return nil
	}
	var maxBytesErr *http.MaxBytesError
	if stderrors.As(err, &maxBytesErr) {
		return errors.NewValidation("Payload too large.")
	}
	return errors.NewValidation("Invalid JSON body")
}
