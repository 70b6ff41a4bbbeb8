package game

import (
	"sort"
	"sync"
	"time"
)

// MemoryRunStore is the in-memory RunStore used by tests and when no
// database is configured. One mutex guards every operation, so the
// read-deactivate-insert sequence in StartRun cannot race.
type MemoryRunStore struct {
	mu   sync.Mutex
	runs map[string]*Run
}

func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{
		runs: make(map[string]*Run),
	}
}

func (s *MemoryRunStore) StartRun(run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.runs {
		if existing.UserID == run.UserID && existing.IsActive {
			existing.IsActive = false
			existing.UpdatedAt = timeNowUTC()
		}
	}
	now := timeNowUTC()
	run.CreatedAt = now
	run.UpdatedAt = now
	stored := *run
	stored.GameState = append([]byte(nil), run.GameState...)
	s.runs[run.RunID] = &stored
	return nil
}

func (s *MemoryRunStore) UpdateRun(userID, runID string, upd RunUpdate) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok || run.UserID != userID {
		return nil, ErrNotFound
	}
	run.CharacterID = upd.CharacterID
	run.GameState = append([]byte(nil), upd.GameState...)
	run.FloorNumber = upd.FloorNumber
	run.CurrentGold = upd.CurrentGold
	run.MaxFloorReached = maxInt(run.MaxFloorReached, maxInt(upd.MaxFloorReached, upd.FloorNumber))
	run.UpdatedAt = timeNowUTC()
	copied := *run
	return &copied, nil
}

func (s *MemoryRunStore) ActiveRun(userID string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *Run
	for _, run := range s.runs {
		if run.UserID != userID || !run.IsActive {
			continue
		}
		if latest == nil || run.UpdatedAt.After(latest.UpdatedAt) {
			latest = run
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (s *MemoryRunStore) RunByID(userID, runID string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok || run.UserID != userID {
		return nil, ErrNotFound
	}
	copied := *run
	return &copied, nil
}

func (s *MemoryRunStore) RunsByUser(userID string) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]Run, 0)
	for _, run := range s.runs {
		if run.UserID == userID {
			list = append(list, *run)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	return list, nil
}

func (s *MemoryRunStore) FinishRun(userID, runID string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok || run.UserID != userID {
		return nil, ErrNotFound
	}
	if run.IsActive {
		run.IsActive = false
		run.UpdatedAt = timeNowUTC()
	}
	copied := *run
	return &copied, nil
}

func (s *MemoryRunStore) DeleteRun(userID, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok || run.UserID != userID {
		return ErrNotFound
	}
	delete(s.runs, runID)
	return nil
}

// MemoryLeaderboardStore is the in-memory LeaderboardStore counterpart.
type MemoryLeaderboardStore struct {
	mu      sync.Mutex
	nextID  uint
	entries []LeaderboardEntry
}

func NewMemoryLeaderboardStore() *MemoryLeaderboardStore {
	return &MemoryLeaderboardStore{nextID: 1}
}

func (s *MemoryLeaderboardStore) AppendEntry(e *LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	if e.CreatedAt.IsZero() {
		e.CreatedAt = timeNowUTC()
	}
	stored := *e
	if e.RunDurationSeconds != nil {
		duration := *e.RunDurationSeconds
		stored.RunDurationSeconds = &duration
	}
	s.entries = append(s.entries, stored)
	return nil
}

func (s *MemoryLeaderboardStore) TopEntries(limit int) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return topOf(s.entries, limit, nil), nil
}

func (s *MemoryLeaderboardStore) TopEntriesByCharacter(characterID string, limit int) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return topOf(s.entries, limit, func(e LeaderboardEntry) bool {
		return e.CharacterID == characterID
	}), nil
}

func (s *MemoryLeaderboardStore) BestEntriesByUser(userID string) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := make(map[string]LeaderboardEntry)
	for _, e := range s.entries {
		if e.UserID != userID {
			continue
		}
		current, ok := best[e.CharacterID]
		if !ok || ranksAbove(e, current) {
			best[e.CharacterID] = e
		}
	}
	list := make([]LeaderboardEntry, 0, len(best))
	for _, e := range best {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CharacterID < list[j].CharacterID
	})
	return list, nil
}

func (s *MemoryLeaderboardStore) BestEntryForCharacter(userID, characterID string) (*LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *LeaderboardEntry
	for i := range s.entries {
		e := s.entries[i]
		if e.UserID != userID || e.CharacterID != characterID {
			continue
		}
		if best == nil || ranksAbove(e, *best) {
			copied := e
			best = &copied
		}
	}
	return best, nil
}

func (s *MemoryLeaderboardStore) EntriesSince(cutoff time.Time, limit int) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]LeaderboardEntry, 0)
	for _, e := range s.entries {
		if !e.CreatedAt.Before(cutoff) {
			list = append(list, e)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *MemoryLeaderboardStore) Stats() (GlobalStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := GlobalStats{}
	if len(s.entries) == 0 {
		return stats, nil
	}
	var floorSum, goldSum int
	for _, e := range s.entries {
		floorSum += e.FinalFloor
		goldSum += e.FinalGold
		if e.FinalFloor > stats.MaxFloor {
			stats.MaxFloor = e.FinalFloor
		}
	}
	stats.TotalRuns = int64(len(s.entries))
	stats.AvgFloor = float64(floorSum) / float64(len(s.entries))
	stats.AvgGold = float64(goldSum) / float64(len(s.entries))
	return stats, nil
}

func topOf(entries []LeaderboardEntry, limit int, keep func(LeaderboardEntry) bool) []LeaderboardEntry {
	list := make([]LeaderboardEntry, 0)
	for _, e := range entries {
		if keep == nil || keep(e) {
			list = append(list, e)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return ranksAbove(list[i], list[j])
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

// ranksAbove implements the leaderboard order: higher floor first, then
// higher gold, then earlier submission.
func ranksAbove(a, b LeaderboardEntry) bool {
	if a.FinalFloor != b.FinalFloor {
		return a.FinalFloor > b.FinalFloor
	}
	if a.FinalGold != b.FinalGold {
		return a.FinalGold > b.FinalGold
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
