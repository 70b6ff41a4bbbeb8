package server

import (
	"net/http"

	"dungeon-depths/internal/config"
	"dungeon-depths/internal/db"
	"dungeon-depths/internal/game"

	"gorm.io/gorm"
)

type Server struct {
	runs   *game.RunService
	scores *game.LeaderboardService
	cfg    config.Config
}

// New wires the services against Postgres, or against the in-memory
// stores when conn is nil (local development and tests).
func New(conn *gorm.DB, cfg config.Config) *Server {
	var runStore game.RunStore
	var boardStore game.LeaderboardStore
	if conn != nil {
		runStore = db.NewRunStore(conn)
		boardStore = db.NewLeaderboardStore(conn)
	} else {
		runStore = game.NewMemoryRunStore()
		boardStore = game.NewMemoryLeaderboardStore()
	}
	return &Server{
		runs:   game.NewRunService(runStore),
		scores: game.NewLeaderboardService(boardStore),
		cfg:    cfg,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/saves", s.requireAuth(s.handleSaveGame))
	mux.HandleFunc("GET /api/saves", s.requireAuth(s.handleUserSaves))
	mux.HandleFunc("GET /api/saves/active", s.requireAuth(s.handleActiveSave))
	mux.HandleFunc("GET /api/saves/{runID}", s.requireAuth(s.handleSaveByRunID))
	mux.HandleFunc("POST /api/saves/{runID}/finish", s.requireAuth(s.handleFinishRun))
	mux.HandleFunc("DELETE /api/saves/{runID}", s.requireAuth(s.handleDeleteSave))
	mux.HandleFunc("POST /api/leaderboard", s.requireAuth(s.handleSubmitScore))
	mux.HandleFunc("GET /api/leaderboard", s.handleGlobalLeaderboard)
	mux.HandleFunc("GET /api/leaderboard/characters/{characterID}", s.handleCharacterLeaderboard)
	mux.HandleFunc("GET /api/leaderboard/recent", s.handleRecentScores)
	mux.HandleFunc("GET /api/leaderboard/stats", s.handleGlobalStats)
	mux.HandleFunc("GET /api/leaderboard/me", s.requireAuth(s.handleUserBestScores))
	mux.HandleFunc("GET /api/leaderboard/me/{characterID}", s.requireAuth(s.handleUserCharacterBest))
	mux.HandleFunc("GET /healthz", handleHealth)
	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
