package domain

import (
	"time"

	"github.com/google/uuid"
)

type ElectionStatus string

const (
	ElectionStatusActive    ElectionStatus = "active"
	ElectionStatusPaused    ElectionStatus = "paused"
	ElectionStatusCompleted ElectionStatus = "completed"
)

type Phase string

const (
	PhaseNomination Phase = "nomination"
	PhaseVoting     Phase = "voting"
	PhaseCompleted  Phase = "completed"
)

// Election is one running instance of a Configuration. Positions are processed
// sequentially; PositionIndex and Phase track the progress through them.
type Election struct {
	ID              uuid.UUID      `json:"id"`
	ConfigID        uuid.UUID      `json:"config_id"`
	Status          ElectionStatus `json:"status"`
	PositionIndex   int            `json:"position_index"`
	Phase           Phase          `json:"phase"`
	ResultAnnounced bool           `json:"result_announced"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
