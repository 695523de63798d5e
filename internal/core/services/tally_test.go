package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomeacao/api/internal/core/domain"
)

func tallyCandidate(electionID uuid.UUID, name string, nominations int) *domain.Candidate {
	return &domain.Candidate{
		ID:          uuid.New(),
		ElectionID:  electionID,
		Position:    "Elder",
		MemberID:    uuid.New(),
		Name:        name,
		Nominations: nominations,
	}
}

func votesFor(electionID uuid.UUID, candidateID uuid.UUID, count int) []*domain.Action {
	votes := make([]*domain.Action, 0, count)
	for i := 0; i < count; i++ {
		votes = append(votes, &domain.Action{
			ID:          uuid.New(),
			ElectionID:  electionID,
			VoterID:     uuid.New(),
			Position:    "Elder",
			CandidateID: candidateID,
			Type:        domain.ActionVote,
		})
	}
	return votes
}

func TestBuildPositionTallyPercentagesAndWinner(t *testing.T) {
	electionID := uuid.New()
	a := tallyCandidate(electionID, "Ana", 2)
	b := tallyCandidate(electionID, "Bruno", 4)
	c := tallyCandidate(electionID, "Clara", 1)

	var votes []*domain.Action
	votes = append(votes, votesFor(electionID, a.MemberID, 3)...)
	votes = append(votes, votesFor(electionID, b.MemberID, 5)...)
	votes = append(votes, votesFor(electionID, c.MemberID, 2)...)

	tally := BuildPositionTally("Elder", []*domain.Candidate{a, b, c}, votes, 10)

	assert.Equal(t, "Elder", tally.Position)
	assert.Equal(t, 10, tally.TotalVotes)
	assert.Equal(t, 10, tally.VotersVoted)
	assert.False(t, tally.AllVotesCast)

	require.Len(t, tally.Candidates, 3)
	assert.Equal(t, "Bruno", tally.Candidates[0].Name)
	assert.Equal(t, 5, tally.Candidates[0].Votes)
	assert.InDelta(t, 50.0, tally.Candidates[0].Percentage, 0.001)
	assert.Equal(t, "Ana", tally.Candidates[1].Name)
	assert.InDelta(t, 30.0, tally.Candidates[1].Percentage, 0.001)
	assert.Equal(t, "Clara", tally.Candidates[2].Name)
	assert.InDelta(t, 20.0, tally.Candidates[2].Percentage, 0.001)

	require.NotNil(t, tally.Winner)
	assert.Equal(t, "Bruno", tally.Winner.Name)
	assert.Equal(t, b.MemberID, tally.Winner.MemberID)
}

func TestBuildPositionTallyNoVotesHasNoWinner(t *testing.T) {
	electionID := uuid.New()
	a := tallyCandidate(electionID, "Ana", 3)
	b := tallyCandidate(electionID, "Bruno", 1)

	tally := BuildPositionTally("Elder", []*domain.Candidate{a, b}, nil, 5)

	assert.Nil(t, tally.Winner)
	assert.Equal(t, 0, tally.TotalVotes)
	assert.False(t, tally.AllVotesCast)
	require.Len(t, tally.Candidates, 2)
	// Zero votes rank by nominations.
	assert.Equal(t, "Ana", tally.Candidates[0].Name)
	assert.Zero(t, tally.Candidates[0].Percentage)
}

func TestBuildPositionTallyDiscardsVotesForFilteredCandidates(t *testing.T) {
	electionID := uuid.New()
	removed := uuid.New()

	// Every recorded vote points at a member no longer in the candidate set.
	tally := BuildPositionTally("Elder", nil, votesFor(electionID, removed, 2), 3)

	assert.Empty(t, tally.Candidates)
	assert.Equal(t, 0, tally.TotalVotes)
	assert.Equal(t, 2, tally.VotersVoted)
	assert.Nil(t, tally.Winner)

	// Mixed ballots: discarded votes never dilute the remaining percentages.
	a := tallyCandidate(electionID, "Ana", 1)
	var votes []*domain.Action
	votes = append(votes, votesFor(electionID, a.MemberID, 1)...)
	votes = append(votes, votesFor(electionID, removed, 2)...)

	tally = BuildPositionTally("Elder", []*domain.Candidate{a}, votes, 3)

	require.Len(t, tally.Candidates, 1)
	assert.Equal(t, 1, tally.TotalVotes)
	assert.Equal(t, 3, tally.VotersVoted)
	assert.InDelta(t, 100.0, tally.Candidates[0].Percentage, 0.001)
	require.NotNil(t, tally.Winner)
	assert.Equal(t, a.MemberID, tally.Winner.MemberID)
}

func TestBuildPositionTallyVoteTieBrokenByNominations(t *testing.T) {
	electionID := uuid.New()
	a := tallyCandidate(electionID, "Ana", 1)
	b := tallyCandidate(electionID, "Bruno", 4)

	var votes []*domain.Action
	votes = append(votes, votesFor(electionID, a.MemberID, 2)...)
	votes = append(votes, votesFor(electionID, b.MemberID, 2)...)

	tally := BuildPositionTally("Elder", []*domain.Candidate{a, b}, votes, 4)

	require.Len(t, tally.Candidates, 2)
	assert.Equal(t, "Bruno", tally.Candidates[0].Name)
	assert.Equal(t, "Ana", tally.Candidates[1].Name)
	require.NotNil(t, tally.Winner)
	assert.Equal(t, b.MemberID, tally.Winner.MemberID)
}

func TestBuildPositionTallyAllVotesCast(t *testing.T) {
	electionID := uuid.New()
	a := tallyCandidate(electionID, "Ana", 1)

	tally := BuildPositionTally("Elder", []*domain.Candidate{a}, votesFor(electionID, a.MemberID, 3), 3)
	assert.True(t, tally.AllVotesCast)

	tally = BuildPositionTally("Elder", []*domain.Candidate{a}, votesFor(electionID, a.MemberID, 2), 3)
	assert.False(t, tally.AllVotesCast)
}

func TestAllVotesCastFallbackWithoutVoterList(t *testing.T) {
	// Without a configured voter list the signal holds as soon as anyone
	// voted.
	assert.False(t, allVotesCast(0, 0, 0))
	assert.True(t, allVotesCast(1, 1, 0))
	assert.True(t, allVotesCast(2, 2, 0))

	assert.False(t, allVotesCast(0, 0, 3))
	assert.True(t, allVotesCast(3, 3, 3))
	assert.True(t, allVotesCast(2, 3, 3))
}
