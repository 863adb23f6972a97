package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxBodySize = 1 << 20

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /games", s.handleListGames)
	mux.HandleFunc("POST /games", s.handleCreateGame)
	mux.HandleFunc("POST /games/{id}", s.handleCreateGame)
	mux.HandleFunc("GET /games/{id}", s.handleGetState)
	mux.HandleFunc("DELETE /games/{id}", s.handleDiscardGame)
	mux.HandleFunc("POST /games/{id}/join", s.handleJoin)
	mux.HandleFunc("POST /games/{id}/leave", s.handleLeave)
	mux.HandleFunc("POST /games/{id}/deal", s.handleDeal)
	mux.HandleFunc("POST /games/{id}/reset", s.handleReset)
	mux.HandleFunc("GET /games/{id}/ws", s.handleWebSocket)
	return mux
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, ListGamesResponse{Games: s.service.List()})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, err)
		return
	}
	if id := r.PathValue("id"); id != "" {
		req.GameID = id
	}

	id, err := s.service.Create(req.GameID, req.Players)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, MessageResponse{
		Message: fmt.Sprintf("Game %s created", id),
		GameID:  id,
	})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.State(r.PathValue("id"), r.URL.Query().Get("player"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDiscardGame(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.service.Discard(id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("Game %s discarded", id), GameID: id})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}
	if req.SeatIndex == nil {
		s.writeError(w, fmt.Errorf("%w: seat_index is required", ErrBadRequest))
		return
	}

	id := r.PathValue("id")
	if err := s.service.Join(id, req.PlayerName, *req.SeatIndex); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("%s joined seat %d", req.PlayerName, *req.SeatIndex),
		GameID:  id,
	})
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	var req LeaveRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.writeError(w, err)
		return
	}

	id := r.PathValue("id")
	if err := s.service.Leave(id, req.PlayerName); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("%s left", req.PlayerName), GameID: id})
}

func (s *Server) handleDeal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	phase, err := s.service.Deal(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Dealt %s", phase),
		GameID:  id,
		Phase:   phase.String(),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.service.Reset(id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, MessageResponse{Message: "Round reset", GameID: id, Phase: "WAITING"})
}

// handleWebSocket subscribes before upgrading so unknown games get a plain
// HTTP error.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sub, err := s.service.Watch(r.PathValue("id"), r.URL.Query().Get("player"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.service.Hub().Unsubscribe(sub)
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	s.conns.Add(1)
	defer s.conns.Done()

	s.logger.Debug("Watcher connected", "game", sub.GameID, "viewer", sub.Viewer)
	NewConnection(s.ctx, conn, sub, s.service, s.logger).Run()
	s.logger.Debug("Watcher disconnected", "game", sub.GameID, "viewer", sub.Viewer)
}

// decodeBody reads a JSON body into v. An empty body is accepted only when
// optional is set.
func decodeBody(r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) && optional {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("Failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code, status := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "code", code, "error", err)
	}
	s.writeJSON(w, status, ErrorData{Code: code, Message: err.Error()})
}
