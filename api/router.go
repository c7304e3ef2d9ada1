package api

import (
	"context"
	"net/http"

	"github.com/MrEthical07/toxin"
	"github.com/MrEthical07/toxin/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Service is the engine surface the HTTP layer uses. *toxin.Engine
// satisfies it.
type Service interface {
	middleware.Resolver
	SignIn(ctx context.Context, username, password string) (string, error)
	SignOut(ctx context.Context, token string) error
	CreateAccount(ctx context.Context, req toxin.CreateAccountRequest) (*toxin.Account, error)
	GetAccount(ctx context.Context, id string) (*toxin.Account, error)
	ListAccounts(ctx context.Context) ([]toxin.Account, error)
	UpdateAccount(ctx context.Context, id string, req toxin.UpdateAccountRequest) (*toxin.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// Options configures [NewRouter].
type Options struct {
	// Logger receives access logs and 5xx failures. Defaults to the logrus
	// standard logger.
	Logger logrus.FieldLogger
	// Metrics, when set, is served publicly at /metrics.
	Metrics http.Handler
}

type handlers struct {
	svc    Service
	logger logrus.FieldLogger
}

// NewRouter builds the full route table with request ids, access logging
// and the session gate on protected routes.
func NewRouter(svc Service, opts Options) *mux.Router {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := &handlers{svc: svc, logger: logger}

	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.AccessLog(logger))
	r.NotFoundHandler = middleware.Chain(http.HandlerFunc(h.notFound),
		middleware.RequestID, middleware.AccessLog(logger))
	r.MethodNotAllowedHandler = middleware.Chain(http.HandlerFunc(h.methodNotAllowed),
		middleware.RequestID, middleware.AccessLog(logger))

	// Public routes.
	r.HandleFunc("/", h.root).Methods(http.MethodGet)
	r.HandleFunc("/ping", h.ping).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/sign-in", h.signIn).Methods(http.MethodPost)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics).Methods(http.MethodGet)
	}

	// Gated routes. They live on the root router, not a prefix subrouter,
	// so a method mismatch on any of them yields 405.
	gate := middleware.Gate(svc)
	gated := func(path string, fn http.HandlerFunc, method string) {
		r.Handle(path, gate(fn)).Methods(method)
	}
	gated("/api/v1/sign-out", h.signOut, http.MethodPost)
	gated("/api/v1/me", h.me, http.MethodGet)
	gated("/api/v1/accounts", h.listAccounts, http.MethodGet)
	gated("/api/v1/accounts", h.createAccount, http.MethodPost)
	gated("/api/v1/accounts/{id}", h.getAccount, http.MethodGet)
	gated("/api/v1/accounts/{id}", h.updateAccount, http.MethodPut)
	gated("/api/v1/accounts/{id}", h.deleteAccount, http.MethodDelete)

	return r
}

func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusNotFound, CodeNotFound, nil)
}

func (h *handlers) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusMethodNotAllowed, CodeMethodNotAllowed, nil)
}
