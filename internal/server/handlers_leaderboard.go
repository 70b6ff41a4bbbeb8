package server

import (
	"log"
	"net/http"

	"dungeon-depths/internal/game"
)

type submitScoreRequest struct {
	CharacterID        string   `json:"character_id"`
	FinalFloor         *int     `json:"final_floor"`
	FinalGold          *int     `json:"final_gold"`
	TotalEncounters    int      `json:"total_encounters"`
	RunDurationSeconds *float64 `json:"run_duration_seconds"`
}

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request, p principal) {
	var req submitScoreRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Required at the boundary; the service re-validates the domains.
	if req.FinalFloor == nil {
		writeError(w, http.StatusBadRequest, "final_floor is required")
		return
	}
	if req.FinalGold == nil {
		writeError(w, http.StatusBadRequest, "final_gold is required")
		return
	}
	entry, err := s.scores.SubmitScore(p.UserID, p.Username, game.SubmitScoreInput{
		CharacterID:        req.CharacterID,
		FinalFloor:         *req.FinalFloor,
		FinalGold:          *req.FinalGold,
		TotalEncounters:    req.TotalEncounters,
		RunDurationSeconds: req.RunDurationSeconds,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	log.Printf("score submitted user_id=%s character_id=%s floor=%d", p.UserID, entry.CharacterID, entry.FinalFloor)
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleGlobalLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", s.cfg.LeaderboardDefaultLimit, s.cfg.LeaderboardMaxLimit)
	entries, err := s.scores.GetGlobalLeaderboard(limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCharacterLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", s.cfg.LeaderboardDefaultLimit, s.cfg.LeaderboardMaxLimit)
	entries, err := s.scores.GetCharacterLeaderboard(r.PathValue("characterID"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleRecentScores(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "hours", s.cfg.RecentDefaultHours, s.cfg.RecentMaxHours)
	limit := queryInt(r, "limit", s.cfg.RecentDefaultLimit, s.cfg.RecentMaxLimit)
	entries, err := s.scores.GetRecentScores(hours, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGlobalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.scores.GetGlobalStats()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleUserBestScores(w http.ResponseWriter, r *http.Request, p principal) {
	entries, err := s.scores.GetUserBestScores(p.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleUserCharacterBest(w http.ResponseWriter, r *http.Request, p principal) {
	entry, err := s.scores.GetUserCharacterBest(p.UserID, r.PathValue("characterID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
