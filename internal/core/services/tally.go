package services

import (
	"sort"

	"github.com/google/uuid"

	"github.com/nomeacao/api/internal/core/domain"
)

// BuildPositionTally aggregates the ledger entries of one position into ranked
// results. Candidates supply display names and nomination counts; votes come
// exclusively from the vote actions.
//
// Only the given candidate set is ranked. A vote for anyone outside it, which
// happens when a candidate is removed or ages out after the vote was recorded,
// is discarded from the totals; its voter still counts toward VotersVoted
// because the ledger keeps that voter from voting again.
//
// The winner is the first candidate in descending vote order with more than
// zero votes. Vote ties are broken by nomination count; candidates tied on
// both keep their input order.
func BuildPositionTally(position string, candidates []*domain.Candidate, votes []*domain.Action, eligibleVoters int) domain.PositionTally {
	byMember := make(map[uuid.UUID]*domain.CandidateTally, len(candidates))
	order := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		byMember[c.MemberID] = &domain.CandidateTally{
			MemberID:    c.MemberID,
			Name:        c.Name,
			Nominations: c.Nominations,
		}
		order = append(order, c.MemberID)
	}

	voters := make(map[uuid.UUID]struct{})
	counted := 0
	for _, v := range votes {
		voters[v.VoterID] = struct{}{}
		entry, ok := byMember[v.CandidateID]
		if !ok {
			continue
		}
		entry.Votes++
		counted++
	}

	tally := domain.PositionTally{
		Position:    position,
		TotalVotes:  counted,
		VotersVoted: len(voters),
	}
	for _, id := range order {
		entry := byMember[id]
		if tally.TotalVotes > 0 {
			entry.Percentage = float64(entry.Votes) / float64(tally.TotalVotes) * 100
		}
		tally.Candidates = append(tally.Candidates, *entry)
	}

	sort.SliceStable(tally.Candidates, func(i, j int) bool {
		if tally.Candidates[i].Votes != tally.Candidates[j].Votes {
			return tally.Candidates[i].Votes > tally.Candidates[j].Votes
		}
		return tally.Candidates[i].Nominations > tally.Candidates[j].Nominations
	})

	if len(tally.Candidates) > 0 && tally.Candidates[0].Votes > 0 {
		winner := tally.Candidates[0]
		tally.Winner = &winner
	}

	tally.AllVotesCast = allVotesCast(tally.VotersVoted, tally.TotalVotes, eligibleVoters)
	return tally
}

// allVotesCast checks the completion signal against the configured voter list
// size. An empty voter list falls back to the observed voters, which holds as
// soon as at least one vote exists.
func allVotesCast(votersVoted, totalVotes, eligibleVoters int) bool {
	if eligibleVoters <= 0 {
		return votersVoted > 0
	}
	return votersVoted >= eligibleVoters || totalVotes >= eligibleVoters
}
