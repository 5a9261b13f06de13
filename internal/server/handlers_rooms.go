package server

import (
	"net/http"
)

// handleRoomCreate handles POST /api/rooms.
func (s *Server) handleRoomCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	room, err := s.app.RoomService.Create(r.Context(), user.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, room)
}

// handleRoomJoin handles POST /api/rooms/join.
func (s *Server) handleRoomJoin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	room, err := s.app.RoomService.Join(r.Context(), user.ID, req.Code)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, room)
}

// handleRoomActive handles GET /api/rooms/active. Returns JSON null when the
// caller is in no room.
func (s *Server) handleRoomActive(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	detail, err := s.app.RoomService.Active(r.Context(), user.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if detail == nil {
		WriteJSON(w, http.StatusOK, nil)
		return
	}
	WriteJSON(w, http.StatusOK, detail)
}

// handleRoomLeave handles POST /api/rooms/leave.
func (s *Server) handleRoomLeave(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.RoomService.Leave(r.Context(), user.ID, req.Code); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Left room"})
}

// handleRoomKick handles POST /api/rooms/kick.
func (s *Server) handleRoomKick(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Code         string `json:"code"`
		UserIDToKick string `json:"userIdToKick"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	room, err := s.app.RoomService.Kick(r.Context(), user.ID, req.Code, req.UserIDToKick)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, room)
}
