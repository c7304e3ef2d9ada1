package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrEthical07/toxin"
	"github.com/google/uuid"
)

func runRequestID(t *testing.T, inbound string) (header, ctxID string) {
	t.Helper()
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = toxin.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if inbound != "" {
		req.Header.Set(RequestIDHeader, inbound)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Header().Get(RequestIDHeader), ctxID
}

func TestRequestIDGenerated(t *testing.T) {
	header, ctxID := runRequestID(t, "")
	if header == "" || header != ctxID {
		t.Fatalf("header %q and context %q must match and be set", header, ctxID)
	}
	if _, err := uuid.Parse(header); err != nil {
		t.Fatalf("expected uuid, got %q: %v", header, err)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	header, ctxID := runRequestID(t, "client-abc-123")
	if header != "client-abc-123" || ctxID != "client-abc-123" {
		t.Fatalf("expected inbound id to propagate, got header=%q ctx=%q", header, ctxID)
	}
}

func TestRequestIDRejectsUnsafeInbound(t *testing.T) {
	for _, inbound := range []string{
		"has space",
		"tab\tvalue",
		strings.Repeat("a", maxRequestIDLength+1),
	} {
		header, _ := runRequestID(t, inbound)
		if header == inbound {
			t.Fatalf("unsafe inbound id %q was propagated", inbound)
		}
		if _, err := uuid.Parse(header); err != nil {
			t.Fatalf("expected generated uuid for %q, got %q", inbound, header)
		}
	}
}
