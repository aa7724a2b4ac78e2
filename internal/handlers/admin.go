package handlers

import (
	"context"
	"io"
	"log"
	"net/http"

	"homebanking/internal/auth"
	"homebanking/internal/models"
	"homebanking/internal/services"

	"github.com/go-chi/chi/v5"
)

const maxImportBytes = 10 << 20

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	users, err := h.users.List(r.Context(), identity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	respondJSON(w, http.StatusOK, out)
}

type createUserRequest struct {
	Username    string `json:"username" validate:"required,username"`
	Password    string `json:"password" validate:"required,min=4"`
	DisplayName string `json:"displayName" validate:"max=80"`
	IsAdmin     bool   `json:"isAdmin"`
}

func (h *Handler) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req createUserRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	user, err := h.users.Create(r.Context(), identity, services.NewUser{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		IsAdmin:     req.IsAdmin,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "id")
	if err := h.users.Delete(r.Context(), identity, userID); err != nil {
		respondServiceError(w, err)
		return
	}
	log.Printf("user %s deleted by %s", userID, identity.UserID)
	w.WriteHeader(http.StatusNoContent)
}

type createAccountRequest struct {
	OwnerUserID    string `json:"ownerUserId" validate:"required"`
	Kind           string `json:"kind" validate:"required,oneof=savingsLocal savingsForeign checking"`
	InitialBalance string `json:"initialBalance"`
}

func (h *Handler) AdminCreateAccount(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req createAccountRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	initial, err := parseBalance(req.InitialBalance)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	account, err := h.accounts.Create(r.Context(), identity, services.CreateAccountRequest{
		OwnerUserID:    req.OwnerUserID,
		Kind:           models.AccountKind(req.Kind),
		InitialBalance: initial,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

type adjustRequest struct {
	Amount      string `json:"amount" validate:"required,amount"`
	Direction   string `json:"direction" validate:"required,oneof=credit debit"`
	Description string `json:"description" validate:"max=140"`
}

func (h *Handler) AdminAdjustAccount(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req adjustRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	entry, err := h.accounts.Adjust(r.Context(), identity, services.AdjustmentRequest{
		AccountID:   chi.URLParam(r, "id"),
		Amount:      amount,
		Direction:   models.Direction(req.Direction),
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

type createCardRequest struct {
	OwnerUserID string `json:"ownerUserId" validate:"required"`
	Kind        string `json:"kind" validate:"required,oneof=credit debit"`
	DisplayName string `json:"displayName" validate:"max=80"`
}

func (h *Handler) AdminCreateCard(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req createCardRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	card, err := h.cards.Create(r.Context(), identity, services.CreateCardRequest{
		OwnerUserID: req.OwnerUserID,
		Kind:        models.CardKind(req.Kind),
		DisplayName: req.DisplayName,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, models.EncodeCard(card))
}

type cardMovementRequest struct {
	Amount      string `json:"amount" validate:"required,amount"`
	Description string `json:"description" validate:"max=140"`
	Date        string `json:"date"`
}

func (h *Handler) AdminCardExpense(w http.ResponseWriter, r *http.Request) {
	h.cardMovement(w, r, h.cards.RecordExpense)
}

func (h *Handler) AdminCardPayment(w http.ResponseWriter, r *http.Request) {
	h.cardMovement(w, r, h.cards.RecordPayment)
}

type cardMovementFunc func(ctx context.Context, identity auth.Identity, req services.CardMovementRequest) (models.Transaction, error)

func (h *Handler) cardMovement(w http.ResponseWriter, r *http.Request, record cardMovementFunc) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req cardMovementRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	entry, err := record(r.Context(), identity, services.CardMovementRequest{
		CardID:      chi.URLParam(r, "id"),
		Amount:      amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	results, err := h.ledger.ReconcileAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	mismatches := 0
	for _, result := range results {
		if !result.Balanced {
			mismatches++
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"accounts":   results,
		"mismatches": mismatches,
	})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.data.ExportAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="homebanking-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import replaces the whole store with the posted export. A rejected body
// leaves the store untouched.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "payload_too_large")
		return
	}
	if err := h.data.ImportAll(r.Context(), data); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.data.ResetToDefaults(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
