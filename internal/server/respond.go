package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/julianstephens/shiftledger/internal/hours"
	"github.com/julianstephens/shiftledger/internal/ledger"
	"github.com/julianstephens/shiftledger/internal/logger"
	"github.com/julianstephens/shiftledger/internal/storage"
)

const maxBodyBytes = 8 << 20

type errorBody struct {
	Error string                  `json:"error"`
	Cap   *hours.CapExceededError `json:"cap,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := errorBody{Error: err.Error()}
	var capErr *hours.CapExceededError
	if errors.As(err, &capErr) {
		body.Cap = capErr
	}
	writeJSON(w, status, body)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func errorStatus(err error) int {
	var capErr *hours.CapExceededError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &capErr), errors.Is(err, ledger.ErrPlanPaidOff), errors.Is(err, ledger.ErrSetupDone):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

// writeOutcome answers a ledger mutation: status and v on commit, otherwise
// the error mapped to a client or service failure.
func writeOutcome(w http.ResponseWriter, out ledger.Outcome, status int, v any) {
	switch out.Status {
	case ledger.StatusCommitted:
		writeJSON(w, status, v)
	case ledger.StatusRolledBack:
		writeError(w, http.StatusServiceUnavailable, out.Err)
	default:
		writeError(w, errorStatus(out.Err), out.Err)
	}
}
