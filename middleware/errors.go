package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/MrEthical07/toxin"
)

const (
	codeUnauthenticated  = "UNAUTHENTICATED"
	codeStoreUnavailable = "STORE_UNAVAILABLE"
	codeInternalError    = "INTERNAL_ERROR"
)

// writeJSONError renders the same {request_id, code, data} envelope the api
// package uses, with a null data member.
func writeJSONError(w http.ResponseWriter, r *http.Request, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		RequestID string `json:"request_id"`
		Code      string `json:"code"`
		Data      any    `json:"data"`
	}{
		RequestID: toxin.RequestIDFromContext(r.Context()),
		Code:      code,
	})
}
