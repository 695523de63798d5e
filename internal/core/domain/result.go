package domain

import "github.com/google/uuid"

// CandidateTally is one candidate's aggregated standing for a position.
type CandidateTally struct {
	MemberID    uuid.UUID `json:"member_id"`
	Name        string    `json:"name"`
	Nominations int       `json:"nominations"`
	Votes       int       `json:"votes"`
	Percentage  float64   `json:"percentage"`
}

// PositionTally aggregates the ledger for one position of an election.
//
// Winner is the first candidate in descending vote order among those with at
// least one vote. Vote ties are broken by nomination count; callers that need
// a different policy must resolve them explicitly.
//
// AllVotesCast is computed against the configuration's voter list when it is
// non-empty; with an empty list it degrades to comparing against the voters
// actually observed, which trivially holds once anyone voted.
type PositionTally struct {
	Position     string           `json:"position"`
	Candidates   []CandidateTally `json:"candidates"`
	TotalVotes   int              `json:"total_votes"`
	VotersVoted  int              `json:"voters_voted"`
	Winner       *CandidateTally  `json:"winner,omitempty"`
	AllVotesCast bool             `json:"all_votes_cast"`
}
