package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"homebanking/internal/auth"
	"homebanking/internal/config"
	"homebanking/internal/db"
	"homebanking/internal/services"
	"homebanking/internal/store"
	"homebanking/internal/websocket"
)

var testNow = time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

// newTestHandler wires the real services over a seeded in-memory store.
func newTestHandler(t *testing.T) (*Handler, *store.Store) {
	t.Helper()
	st := store.New(db.NewMemoryBackend(), "")
	if err := st.InitializeDefaults(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	users := store.NewUserStore(st)
	accounts := store.NewAccountStore(st)
	cards := store.NewCardStore(st)
	transactions := store.NewTransactionStore(st)
	hub := websocket.NewHub()
	handler := New(config.Config{
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
	}, Deps{
		Users:      services.NewUserService(st, users),
		Accounts:   services.NewAccountService(st, users, accounts, transactions, hub),
		Cards:      services.NewCardService(st, users, cards, transactions),
		Transfers:  services.NewTransferService(st, accounts, transactions, hub),
		Ledger:     services.NewLedgerService(st),
		Statements: services.NewStatementService(st),
		Data:       st,
		Admins:     users,
	}, hub)
	handler.now = func() time.Time { return testNow }
	return handler, st
}

func serve(t *testing.T, handler *Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return serveWithAuth(t, handler, method, path, "", body)
}

// serveWithAuth sends the request through the full router, signed as userID
// when it is not empty.
func serveWithAuth(t *testing.T, handler *Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := auth.GenerateToken("secret", userID, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rr.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	expectStatus(t, rr, status)
	body := decodeBody[map[string]any](t, rr)
	if body["error"] != message {
		t.Fatalf("expected error %q, got %v", message, body["error"])
	}
}

func balanceOf(t *testing.T, st *store.Store, accountID string) string {
	t.Helper()
	account, err := store.NewAccountStore(st).GetByID(context.Background(), accountID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return account.Balance.StringFixed(2)
}

