package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrEthical07/toxin"
	"github.com/sirupsen/logrus"
)

// Stable response codes.
const (
	CodeSucceeded          = "SUCCEEDED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeNotFound           = "NOT_FOUND"
	CodeBadRequest         = "BAD_REQUEST"
	CodeConflict           = "CONFLICT"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeInternalError      = "INTERNAL_ERROR"
)

const maxBodyBytes = 1 << 20

// Envelope is the body of every JSON response.
type Envelope struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Data      any    `json:"data"`
}

// StatusFor maps an engine error to its HTTP status and response code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, toxin.ErrInvalidCredentials):
		return http.StatusBadRequest, CodeInvalidCredentials
	case errors.Is(err, toxin.ErrUnauthenticated):
		return http.StatusUnauthorized, CodeUnauthenticated
	case errors.Is(err, toxin.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, CodeStoreUnavailable
	case errors.Is(err, toxin.ErrAccountNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, toxin.ErrAccountExists):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, toxin.ErrAccountInvalid):
		return http.StatusBadRequest, CodeBadRequest
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, code string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		RequestID: toxin.RequestIDFromContext(r.Context()),
		Code:      code,
		Data:      data,
	})
}

func writeSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSON(w, r, status, CodeSucceeded, data)
}

func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithFields(logrus.Fields{
			"request_id": toxin.RequestIDFromContext(r.Context()),
			"code":       code,
		}).WithError(err).Error("request failed")
	}
	writeJSON(w, r, status, code, nil)
}

// decodeJSON reads a bounded JSON body into v. It writes a BAD_REQUEST
// response and returns false when the body is unusable.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, r, http.StatusBadRequest, CodeBadRequest, nil)
		return false
	}
	return true
}
