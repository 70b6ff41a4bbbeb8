package game

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// RunService mediates all reads and writes to the run store under the
// single-active-run invariant.
type RunService struct {
	store RunStore
}

func NewRunService(store RunStore) *RunService {
	return &RunService{store: store}
}

// SaveGameInput carries one save request. A zero RunID starts a new run.
type SaveGameInput struct {
	RunID           string
	CharacterID     string
	GameState       json.RawMessage
	FloorNumber     int
	CurrentGold     int
	MaxFloorReached int
}

// SaveGame updates the run named by RunID in place, or, when RunID is
// empty, starts a new run. Starting a new run deactivates the user's
// prior active run rather than rejecting the save; the old run stays
// loadable by its own run id. That is a deliberate policy: the save
// endpoint always succeeds for valid input.
func (s *RunService) SaveGame(userID string, in SaveGameInput) (*Run, error) {
	if err := validateSave(userID, in); err != nil {
		return nil, err
	}
	if in.RunID != "" {
		return s.store.UpdateRun(userID, in.RunID, RunUpdate{
			CharacterID:     in.CharacterID,
			GameState:       in.GameState,
			FloorNumber:     in.FloorNumber,
			CurrentGold:     in.CurrentGold,
			MaxFloorReached: in.MaxFloorReached,
		})
	}
	run := &Run{
		RunID:           uuid.NewString(),
		UserID:          userID,
		CharacterID:     in.CharacterID,
		GameState:       in.GameState,
		FloorNumber:     in.FloorNumber,
		CurrentGold:     in.CurrentGold,
		MaxFloorReached: maxInt(in.MaxFloorReached, in.FloorNumber),
		IsActive:        true,
	}
	if err := s.store.StartRun(run); err != nil {
		return nil, err
	}
	return run, nil
}

// LoadActiveGame returns the user's active run, or nil if none exists.
func (s *RunService) LoadActiveGame(userID string) (*Run, error) {
	run, err := s.store.ActiveRun(userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return run, err
}

// LoadSaveByRunID returns the run regardless of active status, scoped
// to the owning user.
func (s *RunService) LoadSaveByRunID(userID, runID string) (*Run, error) {
	if runID == "" {
		return nil, validationf("run_id is required")
	}
	return s.store.RunByID(userID, runID)
}

func (s *RunService) GetUserSaves(userID string) ([]Run, error) {
	return s.store.RunsByUser(userID)
}

// FinishRun transitions the run to its terminal state. Idempotent:
// finishing a finished run returns the current record.
func (s *RunService) FinishRun(userID, runID string) (*Run, error) {
	if runID == "" {
		return nil, validationf("run_id is required")
	}
	return s.store.FinishRun(userID, runID)
}

// DeleteSave hard-removes the run. Leaderboard entries already
// submitted for it are untouched.
func (s *RunService) DeleteSave(userID, runID string) error {
	if runID == "" {
		return validationf("run_id is required")
	}
	return s.store.DeleteRun(userID, runID)
}

func validateSave(userID string, in SaveGameInput) error {
	if userID == "" {
		return validationf("user id is required")
	}
	if in.CharacterID == "" {
		return validationf("character_id is required")
	}
	if len(in.GameState) == 0 {
		return validationf("game_state is required")
	}
	if in.FloorNumber < 0 {
		return validationf("floor_number must be non-negative")
	}
	if in.CurrentGold < 0 {
		return validationf("current_gold must be non-negative")
	}
	if in.MaxFloorReached < 0 {
		return validationf("max_floor_reached must be non-negative")
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
