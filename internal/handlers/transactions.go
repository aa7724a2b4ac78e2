package handlers

import (
	"log"
	"net/http"

	"homebanking/internal/middleware"
	"homebanking/internal/services"
)

type transferRequest struct {
	OriginAccountID string `json:"originAccountId" validate:"required"`
	DestinationKind string `json:"destinationKind" validate:"required,oneof=alias routingAlias accountId"`
	Destination     string `json:"destination" validate:"required"`
	Amount          string `json:"amount" validate:"required,decimal2"`
	Note            string `json:"note" validate:"max=140"`
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req transferRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	amount, err := parseDecimal(req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	receipt, err := h.transfers.Transfer(r.Context(), services.TransferRequest{
		UserID:          userID,
		OriginAccountID: req.OriginAccountID,
		Destination: services.Destination{
			Kind:  services.DestinationKind(req.DestinationKind),
			Value: req.Destination,
		},
		Amount: amount,
		Note:   req.Note,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	log.Printf("transfer %s committed by user %s", receipt.CorrelationID, userID)
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) TransferHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	entries, err := h.transfers.History(r.Context(), userID, services.HistoryFilter(r.URL.Query().Get("filter")))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondTransactions(w, entries)
}
