package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"homebanking/internal/apperr"
	"homebanking/internal/auth"
	"homebanking/internal/middleware"
	"homebanking/internal/validator"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a classified error to its status and reports its
// code as the message.
func respondServiceError(w http.ResponseWriter, err error) {
	code := apperr.CodeOf(err)
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		respondError(w, http.StatusNotFound, code)
	case apperr.KindValidation:
		if errors.Is(err, apperr.ErrDuplicate) {
			respondError(w, http.StatusConflict, code)
			return
		}
		if errors.Is(err, apperr.ErrBadCredentials) {
			respondError(w, http.StatusUnauthorized, code)
			return
		}
		respondError(w, http.StatusBadRequest, code)
	case apperr.KindBusinessRule:
		if errors.Is(err, apperr.ErrAdminRequired) {
			respondError(w, http.StatusForbidden, code)
			return
		}
		respondError(w, http.StatusUnprocessableEntity, code)
	default:
		log.Printf("request failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error")
	}
}

// decodeRequest reads a JSON body into dst and runs its validate tags.
// It writes the 400 response itself and reports whether to continue.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return false
	}
	if fieldErrs := validator.Struct(dst); fieldErrs != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "invalid_payload",
			"fields": fieldErrs,
		})
		return false
	}
	return true
}

// identity resolves the authenticated caller. Admin status is read from the
// store on every request so a demotion takes effect immediately.
func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return auth.Identity{}, false
	}
	isAdmin, err := h.admins.IsAdmin(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return auth.Identity{}, false
	}
	return auth.Identity{UserID: userID, IsAdmin: isAdmin}, true
}
