package api

import (
	"net/http"

	"github.com/MrEthical07/toxin"
)

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signInData struct {
	Token string `json:"token"`
}

// signIn handles POST /api/v1/sign-in.
func (h *handlers) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.svc.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, signInData{Token: token})
}

// signOut handles POST /api/v1/sign-out.
func (h *handlers) signOut(w http.ResponseWriter, r *http.Request) {
	identity, ok := toxin.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, r, toxin.ErrUnauthenticated)
		return
	}

	if err := h.svc.SignOut(r.Context(), identity.Token); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, nil)
}

type identityData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// me handles GET /api/v1/me.
func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := toxin.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, r, toxin.ErrUnauthenticated)
		return
	}

	writeSuccess(w, r, http.StatusOK, identityData{ID: identity.ID, Username: identity.Username})
}
