package handlers

import (
	"net/http"

	"homebanking/internal/middleware"
	"homebanking/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accounts, err := h.accounts.ListOwned(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	respondJSON(w, http.StatusOK, accounts)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	account, err := h.accounts.Get(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

type balanceResponse struct {
	AccountID string          `json:"accountId"`
	Currency  models.Currency `json:"currency"`
	Stored    decimal.Decimal `json:"stored"`
	Computed  decimal.Decimal `json:"computed"`
	Balanced  bool            `json:"balanced"`
}

// GetBalance reports the stored balance next to the one recomputed from the
// account's entries.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	account, err := h.accounts.Get(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	result, err := h.ledger.Reconcile(r.Context(), account.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balanceResponse{
		AccountID: result.AccountID,
		Currency:  result.Currency,
		Stored:    result.Stored,
		Computed:  result.Computed,
		Balanced:  result.Balanced,
	})
}

func (h *Handler) AccountTransactions(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	entries, err := h.statements.AccountActivity(r.Context(), identity, chi.URLParam(r, "id"),
		models.Direction(query.Get("direction")), query.Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondTransactions(w, entries)
}

func respondTransactions(w http.ResponseWriter, entries []models.Transaction) {
	if entries == nil {
		entries = []models.Transaction{}
	}
	respondJSON(w, http.StatusOK, entries)
}
