package game

import "time"

// RunStore persists runs. Implementations must apply each write's field
// set atomically per run, and must keep the one-active-run-per-user
// invariant across concurrent StartRun calls.
type RunStore interface {
	// StartRun deactivates the user's current active run, if any, and
	// inserts run as the new active one. Both happen as a unit.
	StartRun(run *Run) error
	// UpdateRun applies upd to the run owned by userID. The stored
	// max_floor_reached only ever grows. Returns ErrNotFound when the
	// run does not exist or belongs to someone else.
	UpdateRun(userID, runID string, upd RunUpdate) (*Run, error)
	// ActiveRun returns the user's active run, or ErrNotFound. If the
	// invariant is somehow violated it returns the most recently updated.
	ActiveRun(userID string) (*Run, error)
	RunByID(userID, runID string) (*Run, error)
	// RunsByUser lists all of the user's runs, most recently updated first.
	RunsByUser(userID string) ([]Run, error)
	// FinishRun clears is_active and returns the record. Finishing an
	// already-finished run is a no-op, not an error.
	FinishRun(userID, runID string) (*Run, error)
	DeleteRun(userID, runID string) error
}

// LeaderboardStore is an append-only ledger of finished-run scores.
// Entries are never updated or deleted, so reads need no locking beyond
// whatever the backing store provides.
type LeaderboardStore interface {
	// AppendEntry inserts e and fills in its ID and CreatedAt.
	AppendEntry(e *LeaderboardEntry) error
	// TopEntries orders by final_floor desc, final_gold desc, then
	// created_at asc (earlier achievement wins exact ties).
	TopEntries(limit int) ([]LeaderboardEntry, error)
	TopEntriesByCharacter(characterID string, limit int) ([]LeaderboardEntry, error)
	// BestEntriesByUser returns one entry per distinct character the
	// user has submitted for, each maximal under the TopEntries order.
	BestEntriesByUser(userID string) ([]LeaderboardEntry, error)
	// BestEntryForCharacter returns (nil, nil) when the user has no
	// submissions for the character.
	BestEntryForCharacter(userID, characterID string) (*LeaderboardEntry, error)
	// EntriesSince returns entries created at or after cutoff, newest first.
	EntriesSince(cutoff time.Time, limit int) ([]LeaderboardEntry, error)
	Stats() (GlobalStats, error)
}
