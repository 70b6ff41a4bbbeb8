package db

import (
	"time"

	"gorm.io/datatypes"
)

// Run rows carry the opaque client game state verbatim. The partial
// unique index on (user_id) WHERE is_active backs the one-active-run
// invariant even across processes.
type Run struct {
	ID              uint           `gorm:"primaryKey"`
	RunID           string         `gorm:"size:36;uniqueIndex;not null"`
	UserID          string         `gorm:"size:64;not null;index;uniqueIndex:udx_runs_user_active,where:is_active"`
	CharacterID     string         `gorm:"size:64;not null"`
	GameState       datatypes.JSON `gorm:"type:jsonb;not null"`
	FloorNumber     int            `gorm:"not null;default:0"`
	CurrentGold     int            `gorm:"not null;default:0"`
	MaxFloorReached int            `gorm:"not null;default:0"`
	IsActive        bool           `gorm:"not null;default:false"`
	CreatedAt       time.Time      `gorm:"not null"`
	UpdatedAt       time.Time      `gorm:"not null"`
}

type LeaderboardEntry struct {
	ID                 uint      `gorm:"primaryKey"`
	UserID             string    `gorm:"size:64;index;not null"`
	Username           string    `gorm:"size:64;not null"`
	CharacterID        string    `gorm:"size:64;index;not null"`
	FinalFloor         int       `gorm:"not null"`
	FinalGold          int       `gorm:"not null"`
	TotalEncounters    int       `gorm:"not null;default:0"`
	RunDurationSeconds *float64
	CreatedAt          time.Time `gorm:"not null;index"`
}
