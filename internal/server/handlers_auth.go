package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/investsync/internal/models"
)

// handleAuthLogin handles POST /api/auth/login.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Phone string `json:"phone"`
		Name  string `json:"name"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, token, err := s.app.AuthService.Login(r.Context(), req.Phone, req.Name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// handleAuthMe handles GET /api/auth/me.
func (s *Server) handleAuthMe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// requireUser resolves the bearer token to a user. On failure it writes a 401
// and returns ok=false.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		WriteError(w, http.StatusUnauthorized, "Missing bearer token")
		return nil, false
	}

	user, err := s.app.AuthService.Authenticate(r.Context(), strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		WriteServiceError(w, err)
		return nil, false
	}
	return user, true
}
