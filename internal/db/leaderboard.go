package db

import (
	"errors"
	"time"

	"dungeon-depths/internal/game"

	"gorm.io/gorm"
)

// LeaderboardStore is the Postgres-backed game.LeaderboardStore. Rows
// are append-only; nothing here updates or deletes.
type LeaderboardStore struct {
	db *gorm.DB
}

func NewLeaderboardStore(conn *gorm.DB) *LeaderboardStore {
	return &LeaderboardStore{db: conn}
}

const rankingOrder = "final_floor DESC, final_gold DESC, created_at ASC, id ASC"

func (s *LeaderboardStore) AppendEntry(e *game.LeaderboardEntry) error {
	record := entryRecord(e)
	if err := s.db.Create(&record).Error; err != nil {
		return storeError(err)
	}
	e.ID = record.ID
	e.CreatedAt = record.CreatedAt
	return nil
}

func (s *LeaderboardStore) TopEntries(limit int) ([]game.LeaderboardEntry, error) {
	var records []LeaderboardEntry
	err := s.db.Order(rankingOrder).Limit(limit).Find(&records).Error
	if err != nil {
		return nil, storeError(err)
	}
	return entryDomains(records), nil
}

func (s *LeaderboardStore) TopEntriesByCharacter(characterID string, limit int) ([]game.LeaderboardEntry, error) {
	var records []LeaderboardEntry
	err := s.db.Where("character_id = ?", characterID).
		Order(rankingOrder).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, storeError(err)
	}
	return entryDomains(records), nil
}

func (s *LeaderboardStore) BestEntriesByUser(userID string) ([]game.LeaderboardEntry, error) {
	var records []LeaderboardEntry
	err := s.db.Raw(`
		SELECT DISTINCT ON (character_id) *
		FROM leaderboard_entries
		WHERE user_id = ?
		ORDER BY character_id, `+rankingOrder, userID).
		Scan(&records).Error
	if err != nil {
		return nil, storeError(err)
	}
	return entryDomains(records), nil
}

func (s *LeaderboardStore) BestEntryForCharacter(userID, characterID string) (*game.LeaderboardEntry, error) {
	var record LeaderboardEntry
	err := s.db.Where("user_id = ? AND character_id = ?", userID, characterID).
		Order(rankingOrder).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err)
	}
	entry := entryDomain(record)
	return &entry, nil
}

func (s *LeaderboardStore) EntriesSince(cutoff time.Time, limit int) ([]game.LeaderboardEntry, error) {
	var records []LeaderboardEntry
	err := s.db.Where("created_at >= ?", cutoff).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, storeError(err)
	}
	return entryDomains(records), nil
}

func (s *LeaderboardStore) Stats() (game.GlobalStats, error) {
	var stats game.GlobalStats
	err := s.db.Model(&LeaderboardEntry{}).
		Select("COUNT(*) AS total_runs, COALESCE(AVG(final_floor), 0) AS avg_floor, COALESCE(MAX(final_floor), 0) AS max_floor, COALESCE(AVG(final_gold), 0) AS avg_gold").
		Scan(&stats).Error
	if err != nil {
		return game.GlobalStats{}, storeError(err)
	}
	return stats, nil
}

func entryRecord(e *game.LeaderboardEntry) LeaderboardEntry {
	return LeaderboardEntry{
		UserID:             e.UserID,
		Username:           e.Username,
		CharacterID:        e.CharacterID,
		FinalFloor:         e.FinalFloor,
		FinalGold:          e.FinalGold,
		TotalEncounters:    e.TotalEncounters,
		RunDurationSeconds: e.RunDurationSeconds,
	}
}

func entryDomain(record LeaderboardEntry) game.LeaderboardEntry {
	return game.LeaderboardEntry{
		ID:                 record.ID,
		UserID:             record.UserID,
		Username:           record.Username,
		CharacterID:        record.CharacterID,
		FinalFloor:         record.FinalFloor,
		FinalGold:          record.FinalGold,
		TotalEncounters:    record.TotalEncounters,
		RunDurationSeconds: record.RunDurationSeconds,
		CreatedAt:          record.CreatedAt,
	}
}

func entryDomains(records []LeaderboardEntry) []game.LeaderboardEntry {
	entries := make([]game.LeaderboardEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, entryDomain(record))
	}
	return entries
}
