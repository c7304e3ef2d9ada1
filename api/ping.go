package api

import (
	"encoding/json"
	"net/http"

	"github.com/MrEthical07/toxin"
)

const welcome = "Welcome to Toxin!"

func (h *handlers) root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(welcome))
}

type pingResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func (h *handlers) ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pingResponse{
		Message:   "pong!",
		RequestID: toxin.RequestIDFromContext(r.Context()),
	})
}
