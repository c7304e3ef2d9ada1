package api

import (
	"net/http"

	"github.com/MrEthical07/toxin"
	"github.com/gorilla/mux"
)

type accountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// accountData is the public view of an account. The stored credential is
// never included.
type accountData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type accountListData struct {
	Count   int           `json:"count"`
	Results []accountData `json:"results"`
}

type accountIDData struct {
	ID string `json:"id"`
}

func toAccountData(a *toxin.Account) accountData {
	return accountData{ID: a.ID, Username: a.Username}
}

// listAccounts handles GET /api/v1/accounts.
func (h *handlers) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	results := make([]accountData, 0, len(accounts))
	for i := range accounts {
		results = append(results, toAccountData(&accounts[i]))
	}
	writeSuccess(w, r, http.StatusOK, accountListData{Count: len(results), Results: results})
}

// createAccount handles POST /api/v1/accounts.
func (h *handlers) createAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.svc.CreateAccount(r.Context(), toxin.CreateAccountRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusCreated, accountIDData{ID: account.ID})
}

// getAccount handles GET /api/v1/accounts/{id}.
func (h *handlers) getAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.GetAccount(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, toAccountData(account))
}

// updateAccount handles PUT /api/v1/accounts/{id}.
func (h *handlers) updateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.svc.UpdateAccount(r.Context(), mux.Vars(r)["id"], toxin.UpdateAccountRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, accountIDData{ID: account.ID})
}

// deleteAccount handles DELETE /api/v1/accounts/{id}.
func (h *handlers) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAccount(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, nil)
}
