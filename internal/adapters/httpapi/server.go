// Package httpapi exposes the services over HTTP with a chi router. Handlers
// decode the request, delegate to a service, and serialize either the result
// or the structured application error; no business rules live here.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cashback-backend/internal/cashback"
	apperrors "cashback-backend/internal/common/errors"
	"cashback-backend/internal/common/logger"
	"cashback-backend/internal/models"
	"cashback-backend/internal/services/auth"
	"cashback-backend/internal/services/dealer"
	"cashback-backend/internal/services/purchase"
)

// DealerService registers dealers.
type DealerService interface {
	Register(ctx context.Context, in dealer.RegisterInput) (*models.DealerView, error)
}

// AuthService authenticates dealers.
type AuthService interface {
	Login(ctx context.Context, in auth.LoginInput) (*auth.LoginOutput, error)
}

// PurchaseService manages the purchase lifecycle.
type PurchaseService interface {
	Create(ctx context.Context, in purchase.CreateInput) (*models.Purchase, error)
	Update(ctx context.Context, in purchase.UpdateInput) (*models.Purchase, error)
	Remove(ctx context.Context, rawCPF, cod string) error
	FindAll(ctx context.Context, rawCPF string) ([]models.PurchaseView, error)
}

// CreditService proxies accumulated-credit lookups to the third-party API.
type CreditService interface {
	Lookup(ctx context.Context, rawCPF string) (*cashback.CreditResponse, error)
}

type Server struct {
	dealers   DealerService
	auth      AuthService
	purchases PurchaseService
	credit    CreditService
	logger    logger.Logger
}

func NewServer(dealers DealerService, authSvc AuthService, purchases PurchaseService, credit CreditService, log logger.Logger) *Server {
	return &Server{
		dealers:   dealers,
		auth:      authSvc,
		purchases: purchases,
		credit:    credit,
		logger:    log.WithFields(map[string]interface{}{"component": "httpapi"}),
	}
}

// Routes mounts all endpoints on a fresh router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/dealers", s.handleRegisterDealer)
	r.Post("/auth/login", s.handleLogin)

	r.Route("/purchases", func(r chi.Router) {
		r.Post("/", s.handleCreatePurchase)
		r.Put("/", s.handleUpdatePurchase)
		r.Get("/{cpf}", s.handleListPurchases)
		r.Delete("/{cpf}/{cod}", s.handleRemovePurchase)
	})

	r.Get("/cashback/{cpf}", s.handleCreditLookup)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleRegisterDealer(w http.ResponseWriter, r *http.Request) {
	var in dealer.RegisterInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	view, err := s.dealers.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in auth.LoginInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	var in purchase.CreateInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	created, err := s.purchases.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdatePurchase(w http.ResponseWriter, r *http.Request) {
	var in purchase.UpdateInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	updated, err := s.purchases.Update(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleRemovePurchase(w http.ResponseWriter, r *http.Request) {
	cpf := chi.URLParam(r, "cpf")
	cod := chi.URLParam(r, "cod")
	if err := s.purchases.Remove(r.Context(), cpf, cod); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	views, err := s.purchases.FindAll(r.Context(), chi.URLParam(r, "cpf"))
	if err != nil {
		writeError(w, err)
		return
	}
	if views == nil {
		views = []models.PurchaseView{}
	}
	writeJSON(w, http.StatusOK, views)
}

// handleCreditLookup relays the third-party reply unchanged, status code
// included. Only transport failures and local validation produce an error
// payload of our own.
func (s *Server) handleCreditLookup(w http.ResponseWriter, r *http.Request) {
	resp, err := s.credit.Lookup(r.Context(), chi.URLParam(r, "cpf"))
	if err != nil {
		writeError(w, err)
		return
	}
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Validation("invalid request body")
	}
	return nil
}
