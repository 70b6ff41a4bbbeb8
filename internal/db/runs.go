package db

import (
	"errors"
	"fmt"
	"time"

	"dungeon-depths/internal/game"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RunStore is the Postgres-backed game.RunStore.
type RunStore struct {
	db *gorm.DB
}

func NewRunStore(conn *gorm.DB) *RunStore {
	return &RunStore{db: conn}
}

// StartRun clears the user's active run and inserts the new one in a
// single transaction. Two processes can still race past the UPDATE, so
// the partial unique index backstops the invariant; on a 23505 the
// whole transaction is retried once against the fresh winner.
func (s *RunStore) StartRun(run *game.Run) error {
	attempt := func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&Run{}).
				Where("user_id = ? AND is_active", run.UserID).
				Update("is_active", false).Error; err != nil {
				return err
			}
			record := runRecord(run)
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			run.CreatedAt = record.CreatedAt
			run.UpdatedAt = record.UpdatedAt
			return nil
		})
	}
	err := attempt()
	if isUniqueViolation(err) {
		err = attempt()
	}
	if err != nil {
		return storeError(err)
	}
	return nil
}

// UpdateRun is a single UPDATE so the field set commits as a unit;
// GREATEST keeps max_floor_reached a high-water mark under concurrent
// writers.
func (s *RunStore) UpdateRun(userID, runID string, upd game.RunUpdate) (*game.Run, error) {
	res := s.db.Model(&Run{}).
		Where("run_id = ? AND user_id = ?", runID, userID).
		Updates(map[string]any{
			"character_id":      upd.CharacterID,
			"game_state":        datatypes.JSON(upd.GameState),
			"floor_number":      upd.FloorNumber,
			"current_gold":      upd.CurrentGold,
			"max_floor_reached": gorm.Expr("GREATEST(max_floor_reached, ?, ?)", upd.MaxFloorReached, upd.FloorNumber),
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, storeError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, game.ErrNotFound
	}
	return s.RunByID(userID, runID)
}

func (s *RunStore) ActiveRun(userID string) (*game.Run, error) {
	var record Run
	err := s.db.Where("user_id = ? AND is_active", userID).
		Order("updated_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, storeError(err)
	}
	return runDomain(record), nil
}

func (s *RunStore) RunByID(userID, runID string) (*game.Run, error) {
	var record Run
	err := s.db.Where("run_id = ? AND user_id = ?", runID, userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, storeError(err)
	}
	return runDomain(record), nil
}

func (s *RunStore) RunsByUser(userID string) ([]game.Run, error) {
	var records []Run
	err := s.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, storeError(err)
	}
	runs := make([]game.Run, 0, len(records))
	for _, record := range records {
		runs = append(runs, *runDomain(record))
	}
	return runs, nil
}

// FinishRun only touches rows that are still active, so finishing a
// finished run leaves updated_at alone. RowsAffected == 0 covers both
// a missing run and an already-finished one; RunByID tells them apart.
func (s *RunStore) FinishRun(userID, runID string) (*game.Run, error) {
	res := s.db.Model(&Run{}).
		Where("run_id = ? AND user_id = ? AND is_active", runID, userID).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, storeError(res.Error)
	}
	return s.RunByID(userID, runID)
}

func (s *RunStore) DeleteRun(userID, runID string) error {
	res := s.db.Where("run_id = ? AND user_id = ?", runID, userID).Delete(&Run{})
	if res.Error != nil {
		return storeError(res.Error)
	}
	if res.RowsAffected == 0 {
		return game.ErrNotFound
	}
	return nil
}

func runRecord(run *game.Run) Run {
	return Run{
		RunID:           run.RunID,
		UserID:          run.UserID,
		CharacterID:     run.CharacterID,
		GameState:       datatypes.JSON(run.GameState),
		FloorNumber:     run.FloorNumber,
		CurrentGold:     run.CurrentGold,
		MaxFloorReached: run.MaxFloorReached,
		IsActive:        run.IsActive,
	}
}

func runDomain(record Run) *game.Run {
	return &game.Run{
		RunID:           record.RunID,
		UserID:          record.UserID,
		CharacterID:     record.CharacterID,
		GameState:       []byte(record.GameState),
		FloorNumber:     record.FloorNumber,
		CurrentGold:     record.CurrentGold,
		MaxFloorReached: record.MaxFloorReached,
		IsActive:        record.IsActive,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// storeError hides driver details behind the transient-store sentinel;
// the HTTP layer never echoes the wrapped message to clients.
func storeError(err error) error {
	return fmt.Errorf("%w: %v", game.ErrStoreUnavailable, err)
}
