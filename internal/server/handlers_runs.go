package server

import (
	"encoding/json"
	"log"
	"net/http"

	"dungeon-depths/internal/game"
)

type saveGameRequest struct {
	RunID           string          `json:"run_id"`
	CharacterID     string          `json:"character_id"`
	GameState       json.RawMessage `json:"game_state"`
	FloorNumber     int             `json:"floor_number"`
	CurrentGold     int             `json:"current_gold"`
	MaxFloorReached int             `json:"max_floor_reached"`
}

func (s *Server) handleSaveGame(w http.ResponseWriter, r *http.Request, p principal) {
	var req saveGameRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	isNew := req.RunID == ""
	run, err := s.runs.SaveGame(p.UserID, game.SaveGameInput{
		RunID:           req.RunID,
		CharacterID:     req.CharacterID,
		GameState:       req.GameState,
		FloorNumber:     req.FloorNumber,
		CurrentGold:     req.CurrentGold,
		MaxFloorReached: req.MaxFloorReached,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	log.Printf("run saved user_id=%s run_id=%s floor=%d", p.UserID, run.RunID, run.FloorNumber)
	writeJSON(w, status, run)
}

func (s *Server) handleActiveSave(w http.ResponseWriter, r *http.Request, p principal) {
	run, err := s.runs.LoadActiveGame(p.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleSaveByRunID(w http.ResponseWriter, r *http.Request, p principal) {
	run, err := s.runs.LoadSaveByRunID(p.UserID, r.PathValue("runID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleUserSaves(w http.ResponseWriter, r *http.Request, p principal) {
	runs, err := s.runs.GetUserSaves(p.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleFinishRun(w http.ResponseWriter, r *http.Request, p principal) {
	run, err := s.runs.FinishRun(p.UserID, r.PathValue("runID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	log.Printf("run finished user_id=%s run_id=%s max_floor=%d", p.UserID, run.RunID, run.MaxFloorReached)
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request, p principal) {
	runID := r.PathValue("runID")
	if err := s.runs.DeleteSave(p.UserID, runID); err != nil {
		writeServiceError(w, err)
		return
	}
	log.Printf("run deleted user_id=%s run_id=%s", p.UserID, runID)
	w.WriteHeader(http.StatusNoContent)
}
