package handlers

import (
	"net/http"
	"testing"
)

func TestHealth(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serve(t, handler, http.MethodGet, "/health", "")
	expectStatus(t, rr, http.StatusOK)
}

func TestLoginSuccess(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serve(t, handler, http.MethodPost, "/auth/login", `{"username":"farana","password":"1234"}`)
	expectStatus(t, rr, http.StatusOK)
	body := decodeBody[struct {
		Token string       `json:"token"`
		User  userResponse `json:"user"`
	}](t, rr)
	if body.Token == "" || body.User.ID != "1" || !body.User.IsAdmin {
		t.Fatalf("unexpected login response: %+v", body)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serve(t, handler, http.MethodPost, "/auth/login", `{"username":"farana","password":"nope"}`)
	expectError(t, rr, http.StatusUnauthorized, "invalid_credentials")
	rr = serve(t, handler, http.MethodPost, "/auth/login", `{"username":"ghost","password":"1234"}`)
	expectError(t, rr, http.StatusUnauthorized, "invalid_credentials")
}

func TestLoginInvalidPayload(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serve(t, handler, http.MethodPost, "/auth/login", `{"username":`)
	expectError(t, rr, http.StatusBadRequest, "invalid_payload")
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serve(t, handler, http.MethodPost, "/auth/register", `{"username":"jperez","password":"secret","isAdmin":true}`)
	expectStatus(t, rr, http.StatusCreated)
	body := decodeBody[struct {
		User userResponse `json:"user"`
	}](t, rr)
	if body.User.IsAdmin || body.User.Username != "jperez" || body.User.DisplayName != "jperez" {
		t.Fatalf("unexpected user: %+v", body.User)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serve(t, handler, http.MethodPost, "/auth/register", `{"username":"mmiranda","password":"secret"}`)
	expectError(t, rr, http.StatusConflict, "duplicate")
}

func TestRegisterValidatesFields(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serve(t, handler, http.MethodPost, "/auth/register", `{"username":"a b","password":"12"}`)
	expectStatus(t, rr, http.StatusBadRequest)
	body := decodeBody[struct {
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}](t, rr)
	if len(body.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %+v", body.Fields)
	}
}

func TestMe(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serveWithAuth(t, handler, http.MethodGet, "/auth/me", "2", "")
	expectStatus(t, rr, http.StatusOK)
	user := decodeBody[userResponse](t, rr)
	if user.Username != "mmiranda" || user.IsAdmin {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestMeRequiresToken(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serve(t, handler, http.MethodGet, "/auth/me", "")
	expectStatus(t, rr, http.StatusUnauthorized)
}

func TestWSBalancesMissingToken(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serve(t, handler, http.MethodGet, "/ws/balances", "")
	expectError(t, rr, http.StatusUnauthorized, "missing token")
}

func TestWSBalancesInvalidToken(t *testing.T) {
	handler, _ := newTestHandler(t)
	rr := serve(t, handler, http.MethodGet, "/ws/balances?token=invalid", "")
	expectError(t, rr, http.StatusUnauthorized, "invalid token")
}
