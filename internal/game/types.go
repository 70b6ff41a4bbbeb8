package game

import (
	"encoding/json"
	"time"
)

// Run is one play-through's persisted state. The run_id is stable across
// saves of the same run; at most one run per user is active at a time.
type Run struct {
	RunID           string          `json:"run_id"`
	UserID          string          `json:"user_id"`
	CharacterID     string          `json:"character_id"`
	GameState       json.RawMessage `json:"game_state"`
	FloorNumber     int             `json:"floor_number"`
	CurrentGold     int             `json:"current_gold"`
	MaxFloorReached int             `json:"max_floor_reached"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// RunUpdate is the field set applied by a save to an existing run.
// The whole set commits as a unit.
type RunUpdate struct {
	CharacterID     string
	GameState       json.RawMessage
	FloorNumber     int
	CurrentGold     int
	MaxFloorReached int
}

// LeaderboardEntry is an immutable score record. The username is
// denormalized at submission time; later renames do not touch old rows.
type LeaderboardEntry struct {
	ID                 uint      `json:"id"`
	UserID             string    `json:"user_id"`
	Username           string    `json:"username"`
	CharacterID        string    `json:"character_id"`
	FinalFloor         int       `json:"final_floor"`
	FinalGold          int       `json:"final_gold"`
	TotalEncounters    int       `json:"total_encounters"`
	RunDurationSeconds *float64  `json:"run_duration_seconds"`
	CreatedAt          time.Time `json:"created_at"`
}

type GlobalStats struct {
	TotalRuns int64   `json:"total_runs"`
	AvgFloor  float64 `json:"avg_floor"`
	MaxFloor  int     `json:"max_floor"`
	AvgGold   float64 `json:"avg_gold"`
}
