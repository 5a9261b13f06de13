package server

import (
	"encoding/base64"
	"net/http"

	"github.com/bobmcallan/investsync/internal/models"
)

// handleAIExtract handles POST /api/ai/extract. The image is base64-encoded
// in the JSON body; extraction failures propagate as errors so the client can
// retry with a clearer screenshot.
func (s *Server) handleAIExtract(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	if s.app.TrendService == nil {
		WriteError(w, http.StatusServiceUnavailable, "AI features are not configured")
		return
	}

	var req struct {
		Image    string `json:"image"`
		MimeType string `json:"mimeType"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Image == "" {
		WriteError(w, http.StatusBadRequest, "image is required")
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "image must be base64-encoded")
		return
	}

	drafts, err := s.app.TrendService.ExtractFromImage(r.Context(), image, req.MimeType)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"holdings": drafts})
}

// handleAITrends handles POST /api/ai/trends. When the body omits holdings,
// the caller's stored holdings are analyzed instead.
func (s *Server) handleAITrends(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if s.app.TrendService == nil {
		WriteError(w, http.StatusServiceUnavailable, "AI features are not configured")
		return
	}

	// The body is optional: a bare POST analyzes the caller's stored holdings.
	var req struct {
		Holdings []*models.Holding `json:"holdings"`
	}
	if !DecodeJSONOptional(w, r, &req) {
		return
	}

	holdings := req.Holdings
	if len(holdings) == 0 {
		stored, err := s.app.HoldingService.List(r.Context(), user.ID, models.HoldingScope{Kind: models.ScopeMine})
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		holdings = stored
	}

	trends, err := s.app.TrendService.MarketTrends(r.Context(), holdings)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"trends": trends})
}
