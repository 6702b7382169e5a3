package controllers

import (
	"errors"
	"fvm/internal/models"
	"fvm/internal/persistence"
	"fvm/internal/providers"
	"fvm/internal/services"
	"net/http"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorKind struct {
	err    error
	status int
	code   string
}

// errorKinds maps domain errors to responses. Order matters: the first match
// wins.
var errorKinds = []errorKind{
	{models.ErrUnknownRole, http.StatusNotFound, "unknown_role"},
	{services.ErrButtonNotFound, http.StatusNotFound, "button_not_found"},
	{models.ErrUnknownTheme, http.StatusBadRequest, "unknown_theme"},
	{models.ErrLimitReached, http.StatusConflict, "limit_reached"},
	{models.ErrNothingToClear, http.StatusConflict, "nothing_to_clear"},
	{models.ErrNameTooLong, http.StatusUnprocessableEntity, "name_too_long"},
	{models.ErrNoButtons, http.StatusConflict, "nothing_to_share"},
	{persistence.ErrInvalidEnvelope, http.StatusBadRequest, "invalid_envelope"},
	{services.ErrInvalidShare, http.StatusBadRequest, "invalid_share"},
	{persistence.ErrQuotaExceeded, http.StatusInsufficientStorage, "quota_exceeded"},
	{persistence.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Message: err.Error(),
	})
}

// writeDomainError answers with the status of a known error kind, or 500.
func writeDomainError(w http.ResponseWriter, logger providers.Logger, r *http.Request, err error) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			writeError(w, k.status, k.code, err)
			return
		}
	}
	logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s failed: %s", r.Method, r.URL.Path, err)
	writeError(w, http.StatusInternalServerError, "internal", err)
}

// decodeBody reads a JSON body into v, answering 400 itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return false
	}
	return true
}
