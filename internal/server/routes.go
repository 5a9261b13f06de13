package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/investsync/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/me", s.handleAuthMe)

	// Rooms
	mux.HandleFunc("/api/rooms", s.handleRoomCreate)
	mux.HandleFunc("/api/rooms/join", s.handleRoomJoin)
	mux.HandleFunc("/api/rooms/active", s.handleRoomActive)
	mux.HandleFunc("/api/rooms/leave", s.handleRoomLeave)
	mux.HandleFunc("/api/rooms/kick", s.handleRoomKick)

	// Holdings
	mux.HandleFunc("/api/holdings/batch", s.handleHoldingBatch)
	mux.HandleFunc("/api/holdings/", s.routeHoldings)
	mux.HandleFunc("/api/holdings", s.handleHoldings)

	// AI
	mux.HandleFunc("/api/ai/extract", s.handleAIExtract)
	mux.HandleFunc("/api/ai/trends", s.handleAITrends)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       s.app.Config.Environment,
		"storage_driver":    s.app.Config.Storage.Driver,
		"storage_address":   s.app.Config.Storage.Address,
		"storage_namespace": s.app.Config.Storage.Namespace,
		"storage_database":  s.app.Config.Storage.Database,
		"logging_level":     s.app.Config.Logging.Level,
		"gemini_configured": s.app.GeminiClient != nil,
		"gemini_model":      s.app.Config.Clients.Gemini.Model,
		"gemini_api_key":    maskSecret(s.app.Config.Clients.Gemini.APIKey),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
