package game

import "time"

// LeaderboardService validates score submissions and serves ranked
// views. It is the integrity gate: it re-validates even though the HTTP
// boundary already checked required fields.
type LeaderboardService struct {
	store LeaderboardStore
}

func NewLeaderboardService(store LeaderboardStore) *LeaderboardService {
	return &LeaderboardService{store: store}
}

type SubmitScoreInput struct {
	CharacterID        string
	FinalFloor         int
	FinalGold          int
	TotalEncounters    int
	RunDurationSeconds *float64
}

// SubmitScore appends a new immutable entry. Submissions are not
// deduplicated: this is an append-only ledger, not an upsert.
func (s *LeaderboardService) SubmitScore(userID, username string, in SubmitScoreInput) (*LeaderboardEntry, error) {
	if userID == "" {
		return nil, validationf("user id is required")
	}
	if username == "" {
		return nil, validationf("username is required")
	}
	if in.CharacterID == "" {
		return nil, validationf("character_id is required")
	}
	if in.FinalFloor < 0 {
		return nil, validationf("final_floor must be non-negative")
	}
	if in.FinalGold < 0 {
		return nil, validationf("final_gold must be non-negative")
	}
	if in.TotalEncounters < 0 {
		return nil, validationf("total_encounters must be non-negative")
	}
	if in.RunDurationSeconds != nil && *in.RunDurationSeconds < 0 {
		return nil, validationf("run_duration_seconds must be non-negative")
	}
	entry := &LeaderboardEntry{
		UserID:             userID,
		Username:           username,
		CharacterID:        in.CharacterID,
		FinalFloor:         in.FinalFloor,
		FinalGold:          in.FinalGold,
		TotalEncounters:    in.TotalEncounters,
		RunDurationSeconds: in.RunDurationSeconds,
	}
	if err := s.store.AppendEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetGlobalLeaderboard expects limit already clamped by the caller.
func (s *LeaderboardService) GetGlobalLeaderboard(limit int) ([]LeaderboardEntry, error) {
	return s.store.TopEntries(limit)
}

func (s *LeaderboardService) GetCharacterLeaderboard(characterID string, limit int) ([]LeaderboardEntry, error) {
	if characterID == "" {
		return nil, validationf("character_id is required")
	}
	return s.store.TopEntriesByCharacter(characterID, limit)
}

// GetUserBestScores returns the user's best entry per distinct character.
func (s *LeaderboardService) GetUserBestScores(userID string) ([]LeaderboardEntry, error) {
	return s.store.BestEntriesByUser(userID)
}

// GetUserCharacterBest returns nil when the user has no submissions for
// the character.
func (s *LeaderboardService) GetUserCharacterBest(userID, characterID string) (*LeaderboardEntry, error) {
	if characterID == "" {
		return nil, validationf("character_id is required")
	}
	return s.store.BestEntryForCharacter(userID, characterID)
}

func (s *LeaderboardService) GetRecentScores(hoursBack, limit int) ([]LeaderboardEntry, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(hoursBack) * time.Hour)
	return s.store.EntriesSince(cutoff, limit)
}

// GetGlobalStats returns all-zero stats on an empty store, not an error.
func (s *LeaderboardService) GetGlobalStats() (GlobalStats, error) {
	return s.store.Stats()
}
