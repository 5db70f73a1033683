package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// clientIDHeader identifies the browser/session owning cart and wishlist
// state. When a request arrives without one, a fresh ID is minted and echoed
// back so the client can persist it.
const clientIDHeader = "X-Client-ID"

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// The status line is already out; nothing useful left to do.
		return
	}
}

// writeError writes a standardised error response.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("code", code).Str("message", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a domain error onto the right HTTP status.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusBadRequest
		switch domainErr.Code {
		case model.ErrCodeProductNotFound, model.ErrCodeItemNotInCart:
			status = http.StatusNotFound
		}
		writeError(w, status, domainErr.Code, domainErr.Message, logger)
		return
	}
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal error", logger)
}

// clientID resolves the requesting client's identity, minting one when the
// header is absent. The resolved ID is always echoed in the response.
func clientID(w http.ResponseWriter, r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(clientIDHeader))
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(clientIDHeader, id)
	return id
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent. A malformed value is an error, not a silent default.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
