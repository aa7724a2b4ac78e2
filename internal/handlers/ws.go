package handlers

import (
	"net/http"

	"homebanking/internal/auth"
	"homebanking/internal/middleware"
	"homebanking/internal/websocket"
)

// WSBalances upgrades to a websocket that receives the caller's balance
// updates. Browsers cannot set headers on the upgrade so the token may come
// in the query string.
func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token, _ = middleware.BearerToken(r)
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.upgrader, h.hub, claims.UserID)
}
