package handlers

import (
	"net/http"
	"testing"

	"homebanking/internal/services"
)

func TestStatementDefaultsToLast30Days(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serveWithAuth(t, handler, http.MethodGet, "/statements/account/acc1", "1", "")
	expectStatus(t, rr, http.StatusOK)
	result := decodeBody[services.Statement](t, rr)
	if result.Summary.Count != 2 || len(result.Groups) != 1 {
		t.Fatalf("unexpected statement: %+v", result)
	}
	if result.Summary.TotalCredits.StringFixed(2) != "100000.00" || result.Summary.Net.StringFixed(2) != "50000.00" {
		t.Fatalf("unexpected summary: %+v", result.Summary)
	}
}

func TestStatementEmptyWindowStillResponds(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serveWithAuth(t, handler, http.MethodGet, "/statements/card/card1?window=last90Days", "1", "")
	expectStatus(t, rr, http.StatusOK)
	result := decodeBody[services.Statement](t, rr)
	if result.Summary.Count != 0 || result.Transactions == nil {
		t.Fatalf("unexpected statement: %+v", result)
	}
}

func TestStatementRejectsBadInput(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serveWithAuth(t, handler, http.MethodGet, "/statements/account/acc1?window=lastWeek", "1", "")
	expectError(t, rr, http.StatusBadRequest, "invalid_input")
	rr = serveWithAuth(t, handler, http.MethodGet, "/statements/loan/acc1", "1", "")
	expectError(t, rr, http.StatusBadRequest, "invalid_input")
	rr = serveWithAuth(t, handler, http.MethodGet, "/statements/account/acc1", "2", "")
	expectError(t, rr, http.StatusNotFound, "not_found")
}
