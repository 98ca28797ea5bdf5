package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/fundpool-labs/fundpool-ledger/internal/types"
)

type errorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}
}

// writeError maps a *types.Error onto the wire; anything else becomes a 500.
func writeError(w http.ResponseWriter, err error) {
	var typedErr *types.Error
	if !errors.As(err, &typedErr) {
		typedErr = types.NewInternalServiceError(err)
	}

	writeJSON(w, typedErr.StatusCode, errorResponse{
		ErrorCode: typedErr.ErrorCode.String(),
		Message:   typedErr.Error(),
	})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		ErrorCode: types.ValidationError.String(),
		Message:   msg,
	})
}
