package server

import (
	"fmt"
	"net/http"

	"github.com/bobmcallan/investsync/internal/models"
)

// handleHoldings handles GET and POST /api/holdings.
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleHoldingList(w, r)
	case http.MethodPost:
		s.handleHoldingAdd(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleHoldingList handles GET /api/holdings?scope=mine|room&roomCode=.
func (s *Server) handleHoldingList(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	scope, err := parseScope(r)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	holdings, err := s.app.HoldingService.List(r.Context(), user.ID, scope)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if holdings == nil {
		holdings = []*models.Holding{}
	}
	WriteJSON(w, http.StatusOK, holdings)
}

// handleHoldingAdd handles POST /api/holdings.
func (s *Server) handleHoldingAdd(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var draft models.HoldingDraft
	if !DecodeJSON(w, r, &draft) {
		return
	}

	holding, err := s.app.HoldingService.Add(r.Context(), user.ID, draft)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, holding)
}

// handleHoldingBatch handles POST /api/holdings/batch.
func (s *Server) handleHoldingBatch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	// Pointer slice distinguishes an absent field from an empty array: an
	// empty batch is a valid no-op import.
	var req struct {
		Holdings *[]models.HoldingDraft `json:"holdings"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Holdings == nil {
		WriteError(w, http.StatusBadRequest, "holdings array is required")
		return
	}

	imported, err := s.app.HoldingService.BatchImport(r.Context(), user.ID, *req.Holdings)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, imported)
}

// routeHoldings dispatches /api/holdings/{id} to update or delete.
func (s *Server) routeHoldings(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/holdings/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "holding id is required in path")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handleHoldingUpdate(w, r, id)
	case http.MethodDelete:
		s.handleHoldingDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) handleHoldingUpdate(w http.ResponseWriter, r *http.Request, id string) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var patch models.HoldingPatch
	if !DecodeJSON(w, r, &patch) {
		return
	}

	holding, err := s.app.HoldingService.Update(r.Context(), user.ID, id, patch)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, holding)
}

func (s *Server) handleHoldingDelete(w http.ResponseWriter, r *http.Request, id string) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	if err := s.app.HoldingService.Remove(r.Context(), user.ID, id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Holding deleted"})
}

// parseScope reads the scope and roomCode query parameters.
func parseScope(r *http.Request) (models.HoldingScope, error) {
	switch scope := r.URL.Query().Get("scope"); scope {
	case "", "mine":
		return models.HoldingScope{Kind: models.ScopeMine}, nil
	case "room":
		code := r.URL.Query().Get("roomCode")
		if code == "" {
			return models.HoldingScope{}, fmt.Errorf("roomCode is required for room scope: %w", models.ErrValidation)
		}
		return models.HoldingScope{Kind: models.ScopeRoom, RoomCode: code}, nil
	default:
		return models.HoldingScope{}, fmt.Errorf("unknown scope %q: %w", scope, models.ErrValidation)
	}
}
