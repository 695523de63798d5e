package domain

import (
	"time"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionNomination ActionType = "nomination"
	ActionVote       ActionType = "vote"
)

// Action is one immutable ledger entry: a voter nominating or voting for a
// candidate on a position of an election.
type Action struct {
	ID          uuid.UUID  `json:"id"`
	ElectionID  uuid.UUID  `json:"election_id"`
	VoterID     uuid.UUID  `json:"voter_id"`
	Position    string     `json:"position"`
	CandidateID uuid.UUID  `json:"candidate_id"`
	Type        ActionType `json:"type"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ActionLogEntry is an Action joined with display names for auditing.
type ActionLogEntry struct {
	Action
	VoterName     string `json:"voter_name"`
	CandidateName string `json:"candidate_name"`
}
