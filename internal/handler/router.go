package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Dan9191/credit-service/internal/auth"
	"github.com/Dan9191/credit-service/internal/middleware"
)

// NewRouter registers the public read routes and the token-protected
// mutating routes.
func NewRouter(h *Handler, authn auth.Authenticator) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(h.log), middleware.Recovery(h.log))
	protected := middleware.RequireToken(authn, h.log)

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/export/credits.xml", h.ExportCredits).Methods(http.MethodGet)

	r.HandleFunc("/credits", h.ListCredits).Methods(http.MethodGet)
	r.Handle("/credits", protected(http.HandlerFunc(h.CreateCredit))).Methods(http.MethodPost)
	r.HandleFunc("/credits/{key}", h.GetCredit).Methods(http.MethodGet)
	r.Handle("/credits/{key}", protected(http.HandlerFunc(h.UpdateCredit))).Methods(http.MethodPut)
	r.Handle("/credits/{key}", protected(http.HandlerFunc(h.DeleteCredit))).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	return r
}
