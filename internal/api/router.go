package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/NourWarrag/topup-service/internal/api/httpx"
	"github.com/NourWarrag/topup-service/internal/api/validate"
	"github.com/NourWarrag/topup-service/internal/config"
	"github.com/NourWarrag/topup-service/internal/middleware"
	"github.com/NourWarrag/topup-service/internal/models"
	"github.com/NourWarrag/topup-service/internal/services"
)

func NewRouter(cfg config.Config, topUpSvc *services.TopUpService, benSvc *services.BeneficiaryService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- top-up ----------
		r.Get("/topup/options", func(w http.ResponseWriter, r *http.Request) {
			options, err := topUpSvc.Options(r.Context())
			if err != nil {
				writeServiceError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, options)
		})

		r.Post("/topup", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				UserID        string          `json:"user_id"`
				BeneficiaryID string          `json:"beneficiary_id"`
				Amount        decimal.Decimal `json:"amount"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.BeneficiaryID == "" {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "bad request", nil)
				return
			}
			if err := topUpSvc.TopUp(r.Context(), req.Amount, req.BeneficiaryID, req.UserID); err != nil {
				writeServiceError(w, err)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		// ---------- beneficiaries ----------
		r.Post("/beneficiaries", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				UserID      string `json:"user_id"`
				Nickname    string `json:"nickname"`
				PhoneNumber string `json:"phone_number"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "bad request", nil)
				return
			}
			b, err := benSvc.Add(r.Context(), models.Beneficiary{
				UserID:      req.UserID,
				Nickname:    req.Nickname,
				PhoneNumber: req.PhoneNumber,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusCreated, b)
		})

		r.Get("/beneficiaries/{id}", func(w http.ResponseWriter, r *http.Request) {
			b, err := benSvc.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, b)
		})

		r.Put("/beneficiaries/{id}", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Nickname    string `json:"nickname"`
				PhoneNumber string `json:"phone_number"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "bad request", nil)
				return
			}
			id := chi.URLParam(r, "id")
			existing, err := benSvc.Get(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			existing.Nickname = req.Nickname
			existing.PhoneNumber = req.PhoneNumber
			b, err := benSvc.Update(r.Context(), existing)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, b)
		})

		r.Delete("/beneficiaries/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := benSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeServiceError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/users/{userID}/beneficiaries", func(w http.ResponseWriter, r *http.Request) {
			list, err := benSvc.ListForUser(r.Context(), chi.URLParam(r, "userID"))
			if err != nil {
				writeServiceError(w, err)
				return
			}
			if list == nil {
				list = []models.Beneficiary{}
			}
			httpx.WriteJSON(w, http.StatusOK, list)
		})

		// ---------- transactions ----------
		r.Get("/transactions", func(w http.ResponseWriter, r *http.Request) {
			uid := r.URL.Query().Get("user_id")
			if uid == "" {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "user_id required", nil)
				return
			}

			limit := 50
			offset := 0
			if v := r.URL.Query().Get("limit"); v != "" {
				if n, err := strconv.Atoi(v); err == nil && n > 0 {
					limit = n
				}
			}
			if v := r.URL.Query().Get("offset"); v != "" {
				if n, err := strconv.Atoi(v); err == nil && n >= 0 {
					offset = n
				}
			}

			txs, err := topUpSvc.ListTransactions(r.Context(), uid, limit, offset)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			if txs == nil {
				txs = []models.Transaction{}
			}
			httpx.WriteJSON(w, http.StatusOK, txs)
		})
	})

	return r
}

// writeServiceError maps the service error taxonomy to client-facing
// statuses: missing entities are 404, policy and validation rejections are
// 400, an unreachable balance service is 502, anything else is 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var verrs validate.Errs
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user_not_found", err.Error(), nil)
	case errors.Is(err, services.ErrBeneficiaryNotFound):
		httpx.WriteError(w, http.StatusNotFound, "beneficiary_not_found", err.Error(), nil)
	case errors.Is(err, services.ErrUserBalanceNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user_balance_not_found", err.Error(), nil)
	case errors.Is(err, services.ErrTopUpOptionNotFound):
		httpx.WriteError(w, http.StatusNotFound, "topup_option_not_found", err.Error(), nil)
	case errors.Is(err, services.ErrInvalidAmount):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_amount", err.Error(), nil)
	case errors.Is(err, services.ErrBeneficiaryAlreadyExists):
		httpx.WriteError(w, http.StatusBadRequest, "beneficiary_already_exists", err.Error(), nil)
	case errors.Is(err, services.ErrBeneficiaryLimitExceeded):
		httpx.WriteError(w, http.StatusBadRequest, "beneficiary_limit_exceeded", err.Error(), nil)
	case errors.Is(err, services.ErrMonthlyLimitExceeded):
		httpx.WriteError(w, http.StatusBadRequest, "monthly_limit_exceeded", err.Error(), nil)
	case errors.Is(err, services.ErrInsufficientBalance):
		httpx.WriteError(w, http.StatusBadRequest, "insufficient_balance", err.Error(), nil)
	case errors.Is(err, services.ErrGatewayUnavailable):
		httpx.WriteError(w, http.StatusBadGateway, "gateway_unavailable", err.Error(), nil)
	case errors.As(err, &verrs):
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "validation failed", verrs)
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
