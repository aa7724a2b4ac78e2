package handlers

import (
	"net/http"
	"testing"

	"homebanking/internal/models"
)

func TestListAccountsReturnsOwnedOnly(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serveWithAuth(t, handler, http.MethodGet, "/accounts", "2", "")
	expectStatus(t, rr, http.StatusOK)
	accounts := decodeBody[[]models.Account](t, rr)
	if len(accounts) != 1 || accounts[0].ID != "acc4" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
}

func TestGetAccountHidesForeignAccounts(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serveWithAuth(t, handler, http.MethodGet, "/accounts/acc1", "2", "")
	expectError(t, rr, http.StatusNotFound, "not_found")

	rr = serveWithAuth(t, handler, http.MethodGet, "/accounts/acc4", "1", "")
	expectStatus(t, rr, http.StatusOK)
}

func TestGetBalanceReportsStoredAndComputed(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serveWithAuth(t, handler, http.MethodGet, "/accounts/acc1/balance", "1", "")
	expectStatus(t, rr, http.StatusOK)
	body := decodeBody[balanceResponse](t, rr)
	if body.Stored.StringFixed(2) != "75000.50" || !body.Computed.Equal(body.Stored) || !body.Balanced {
		t.Fatalf("unexpected balance: %+v", body)
	}
}

func TestAccountTransactionsFilters(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serveWithAuth(t, handler, http.MethodGet, "/accounts/acc1/transactions?direction=credit", "1", "")
	expectStatus(t, rr, http.StatusOK)
	credits := decodeBody[[]models.Transaction](t, rr)
	if len(credits) != 2 || credits[0].ID != "trx9" || credits[1].ID != "trx5" {
		t.Fatalf("unexpected credits: %+v", credits)
	}

	rr = serveWithAuth(t, handler, http.MethodGet, "/accounts/acc1/transactions?q=MELANIA", "1", "")
	expectStatus(t, rr, http.StatusOK)
	if matches := decodeBody[[]models.Transaction](t, rr); len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %+v", matches)
	}

	rr = serveWithAuth(t, handler, http.MethodGet, "/accounts/acc1/transactions?direction=sideways", "1", "")
	expectError(t, rr, http.StatusBadRequest, "invalid_input")
}

func TestCardsAndCardTransactions(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serveWithAuth(t, handler, http.MethodGet, "/cards", "1", "")
	expectStatus(t, rr, http.StatusOK)
	cards := decodeBody[[]models.CardRecord](t, rr)
	if len(cards) != 2 || cards[0].Kind != models.CardCredit || cards[0].DueDate != "2023-11-15" {
		t.Fatalf("unexpected cards: %+v", cards)
	}

	rr = serveWithAuth(t, handler, http.MethodGet, "/cards/card1/transactions?month=2023-10", "1", "")
	expectStatus(t, rr, http.StatusOK)
	if entries := decodeBody[[]models.Transaction](t, rr); len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %+v", entries)
	}

	rr = serveWithAuth(t, handler, http.MethodGet, "/cards/card1/transactions?month=2023-13", "1", "")
	expectError(t, rr, http.StatusBadRequest, "invalid_input")

	rr = serveWithAuth(t, handler, http.MethodGet, "/cards/card1", "2", "")
	expectError(t, rr, http.StatusNotFound, "not_found")
}
