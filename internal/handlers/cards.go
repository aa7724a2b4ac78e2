package handlers

import (
	"net/http"

	"homebanking/internal/middleware"
	"homebanking/internal/models"

	"github.com/go-chi/chi/v5"
)

func cardRecords(cards []models.Card) []models.CardRecord {
	records := make([]models.CardRecord, 0, len(cards))
	for _, card := range cards {
		records = append(records, models.EncodeCard(card))
	}
	return records
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cards, err := h.cards.ListOwned(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cardRecords(cards))
}

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	card, err := h.cards.Get(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.EncodeCard(card))
}

func (h *Handler) CardTransactions(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	entries, err := h.statements.CardActivity(r.Context(), identity, chi.URLParam(r, "id"), r.URL.Query().Get("month"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondTransactions(w, entries)
}
