package handlers

import (
	"net/http"

	"homebanking/internal/apperr"
	"homebanking/internal/models"
	"homebanking/internal/statement"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	kind := models.EntityKind(chi.URLParam(r, "kind"))
	if kind != models.EntityAccount && kind != models.EntityCard {
		respondServiceError(w, apperr.ErrInvalidInput)
		return
	}
	window, err := statement.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		respondServiceError(w, apperr.Wrap(apperr.ErrInvalidInput, err))
		return
	}
	result, err := h.statements.Build(r.Context(), identity, kind, chi.URLParam(r, "id"), window, h.now())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if result.Transactions == nil {
		result.Transactions = []models.Transaction{}
	}
	if result.Groups == nil {
		result.Groups = []statement.DateGroup{}
	}
	respondJSON(w, http.StatusOK, result)
}
