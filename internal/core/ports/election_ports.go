package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/nomeacao/api/internal/core/domain"
)

type ElectionRepository interface {
	Save(ctx context.Context, election *domain.Election) error
	Update(ctx context.Context, election *domain.Election) error
	// GetByConfig returns the most recent election for the configuration,
	// nil when none exists.
	GetByConfig(ctx context.Context, configID uuid.UUID) (*domain.Election, error)
	// CompleteOthers marks every active election for the configuration other
	// than keepID as completed. At most one election per configuration is
	// active at a time.
	CompleteOthers(ctx context.Context, configID uuid.UUID, keepID uuid.UUID) error
}

type CandidateRepository interface {
	SaveAll(ctx context.Context, candidates []*domain.Candidate) error
	Save(ctx context.Context, candidate *domain.Candidate) error
	GetByMember(ctx context.Context, electionID uuid.UUID, position string, memberID uuid.UUID) (*domain.Candidate, error)
	ListByPosition(ctx context.Context, electionID uuid.UUID, position string) ([]*domain.Candidate, error)
	DeleteByElection(ctx context.Context, electionID uuid.UUID) error
	ResetVoteCounts(ctx context.Context, electionID uuid.UUID, position string) error
}

type ActionRepository interface {
	// Save appends a ledger entry and bumps the matching candidate counter in
	// the same transaction. Unique-constraint conflicts surface as
	// domain.ErrAlreadyVoted or domain.ErrNominationLimit depending on the
	// action type.
	Save(ctx context.Context, action *domain.Action) error
	CountByVoter(ctx context.Context, electionID uuid.UUID, voterID uuid.UUID, position string, actionType domain.ActionType) (int, error)
	ListByPosition(ctx context.Context, electionID uuid.UUID, position string, actionType domain.ActionType) ([]*domain.Action, error)
	CountDistinctVoters(ctx context.Context, electionID uuid.UUID, position string, actionType domain.ActionType) (int, error)
	DeleteVotes(ctx context.Context, electionID uuid.UUID, position string) error
	DeleteByElection(ctx context.Context, electionID uuid.UUID) error
	Log(ctx context.Context, electionID uuid.UUID) ([]*domain.ActionLogEntry, error)
}

type SubmitInput struct {
	VoterID     uuid.UUID
	ConfigID    uuid.UUID
	CandidateID uuid.UUID
	Phase       domain.Phase
}

// VotingCandidate is a candidate as exposed on the voting interface.
type VotingCandidate struct {
	MemberID    uuid.UUID `json:"member_id"`
	Name        string    `json:"name"`
	ChurchName  string    `json:"church_name"`
	Nominations int       `json:"nominations"`
	Votes       int       `json:"votes"`
	Percentage  float64   `json:"percentage"`
}

// VotingInterface is the payload a voter needs to act on the current position.
type VotingInterface struct {
	ConfigID             uuid.UUID              `json:"config_id"`
	ElectionID           uuid.UUID              `json:"election_id"`
	Title                string                 `json:"title"`
	Position             string                 `json:"position"`
	PositionIndex        int                    `json:"position_index"`
	TotalPositions       int                    `json:"total_positions"`
	Phase                domain.Phase           `json:"phase"`
	Candidates           []VotingCandidate      `json:"candidates"`
	HasVoted             bool                   `json:"has_voted"`
	NominationsRemaining int                    `json:"nominations_remaining"`
	TotalVotes           int                    `json:"total_votes"`
	EligibleVoters       int                    `json:"eligible_voters"`
	AllVotesCast         bool                   `json:"all_votes_cast"`
	Winner               *domain.CandidateTally `json:"winner,omitempty"`
}

// ActiveElection is one election visible to a voter on the listing endpoint.
type ActiveElection struct {
	ConfigID   uuid.UUID    `json:"config_id"`
	ElectionID uuid.UUID    `json:"election_id"`
	Title      string       `json:"title"`
	ChurchName string       `json:"church_name"`
	Position   string       `json:"position"`
	Phase      domain.Phase `json:"phase"`
}

// Dashboard is the admin reporting payload for a configuration.
type Dashboard struct {
	ConfigID   uuid.UUID              `json:"config_id"`
	ElectionID uuid.UUID              `json:"election_id"`
	Title      string                 `json:"title"`
	Status     domain.ElectionStatus  `json:"status"`
	Position   string                 `json:"position"`
	Phase      domain.Phase           `json:"phase"`
	Positions  []domain.PositionTally `json:"positions"`
}

type ElectionService interface {
	Start(ctx context.Context, configID uuid.UUID) (*domain.Election, error)
	ToggleConfigStatus(ctx context.Context, configID uuid.UUID) (*domain.Configuration, error)
	AdvancePhase(ctx context.Context, configID uuid.UUID) (*domain.Election, error)
	AdvancePosition(ctx context.Context, configID uuid.UUID) (*domain.Election, error)
	AnnounceResult(ctx context.Context, configID uuid.UUID) (*domain.PositionTally, error)
	ResetVoting(ctx context.Context, configID uuid.UUID) error
	Submit(ctx context.Context, input SubmitInput) error
	VotingInterfaceFor(ctx context.Context, configID uuid.UUID, voterID uuid.UUID) (*VotingInterface, error)
	ActiveElectionsFor(ctx context.Context, voterID uuid.UUID) ([]ActiveElection, error)
	DashboardFor(ctx context.Context, configID uuid.UUID) (*Dashboard, error)
	ActionLog(ctx context.Context, configID uuid.UUID) ([]*domain.ActionLogEntry, error)
}
