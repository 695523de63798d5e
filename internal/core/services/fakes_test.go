package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/nomeacao/api/internal/core/domain"
)

// In-memory repositories for exercising the services without a database.
// The action repo mirrors the postgres uniqueness constraints so the ledger
// invariants are testable here too.

type fakeConfigRepo struct {
	configs map[uuid.UUID]*domain.Configuration
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{configs: make(map[uuid.UUID]*domain.Configuration)}
}

func (r *fakeConfigRepo) Save(_ context.Context, config *domain.Configuration) error {
	r.configs[config.ID] = config
	return nil
}

func (r *fakeConfigRepo) Update(_ context.Context, config *domain.Configuration) error {
	if _, ok := r.configs[config.ID]; !ok {
		return domain.ErrConfigNotFound
	}
	r.configs[config.ID] = config
	return nil
}

func (r *fakeConfigRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Configuration, error) {
	config, ok := r.configs[id]
	if !ok {
		return nil, domain.ErrConfigNotFound
	}
	copied := *config
	return &copied, nil
}

func (r *fakeConfigRepo) ListByChurch(_ context.Context, churchID uuid.UUID) ([]*domain.Configuration, error) {
	var out []*domain.Configuration
	for _, c := range r.configs {
		if c.ChurchID == churchID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeConfigRepo) ListByStatus(_ context.Context, status domain.ConfigStatus) ([]*domain.Configuration, error) {
	var out []*domain.Configuration
	for _, c := range r.configs {
		if c.Status == status {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeConfigRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.configs[id]; !ok {
		return domain.ErrConfigNotFound
	}
	delete(r.configs, id)
	return nil
}

type fakeElectionRepo struct {
	elections map[uuid.UUID]*domain.Election
}

func newFakeElectionRepo() *fakeElectionRepo {
	return &fakeElectionRepo{elections: make(map[uuid.UUID]*domain.Election)}
}

func (r *fakeElectionRepo) Save(_ context.Context, election *domain.Election) error {
	copied := *election
	r.elections[election.ID] = &copied
	return nil
}

func (r *fakeElectionRepo) Update(_ context.Context, election *domain.Election) error {
	if _, ok := r.elections[election.ID]; !ok {
		return domain.ErrElectionNotFound
	}
	copied := *election
	r.elections[election.ID] = &copied
	return nil
}

func (r *fakeElectionRepo) GetByConfig(_ context.Context, configID uuid.UUID) (*domain.Election, error) {
	var latest *domain.Election
	for _, e := range r.elections {
		if e.ConfigID != configID {
			continue
		}
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeElectionRepo) CompleteOthers(_ context.Context, configID uuid.UUID, keepID uuid.UUID) error {
	for _, e := range r.elections {
		if e.ConfigID == configID && e.ID != keepID && e.Status == domain.ElectionStatusActive {
			e.Status = domain.ElectionStatusCompleted
		}
	}
	return nil
}

type fakeCandidateRepo struct {
	candidates []*domain.Candidate
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{}
}

func (r *fakeCandidateRepo) SaveAll(_ context.Context, candidates []*domain.Candidate) error {
	for _, c := range candidates {
		copied := *c
		r.candidates = append(r.candidates, &copied)
	}
	return nil
}

func (r *fakeCandidateRepo) Save(_ context.Context, candidate *domain.Candidate) error {
	copied := *candidate
	r.candidates = append(r.candidates, &copied)
	return nil
}

func (r *fakeCandidateRepo) GetByMember(_ context.Context, electionID uuid.UUID, position string, memberID uuid.UUID) (*domain.Candidate, error) {
	for _, c := range r.candidates {
		if c.ElectionID == electionID && c.Position == position && c.MemberID == memberID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCandidateRepo) ListByPosition(_ context.Context, electionID uuid.UUID, position string) ([]*domain.Candidate, error) {
	var out []*domain.Candidate
	for _, c := range r.candidates {
		if c.ElectionID == electionID && c.Position == position {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCandidateRepo) DeleteByElection(_ context.Context, electionID uuid.UUID) error {
	kept := r.candidates[:0]
	for _, c := range r.candidates {
		if c.ElectionID != electionID {
			kept = append(kept, c)
		}
	}
	r.candidates = kept
	return nil
}

func (r *fakeCandidateRepo) ResetVoteCounts(_ context.Context, electionID uuid.UUID, position string) error {
	for _, c := range r.candidates {
		if c.ElectionID == electionID && c.Position == position {
			c.Votes = 0
		}
	}
	return nil
}

func (r *fakeCandidateRepo) bump(electionID uuid.UUID, position string, memberID uuid.UUID, actionType domain.ActionType) {
	for _, c := range r.candidates {
		if c.ElectionID == electionID && c.Position == position && c.MemberID == memberID {
			if actionType == domain.ActionVote {
				c.Votes++
			} else {
				c.Nominations++
			}
		}
	}
}

type fakeActionRepo struct {
	actions    []*domain.Action
	candidates *fakeCandidateRepo
	members    *fakeMemberRepo
}

func newFakeActionRepo(candidates *fakeCandidateRepo, members *fakeMemberRepo) *fakeActionRepo {
	return &fakeActionRepo{candidates: candidates, members: members}
}

func (r *fakeActionRepo) Save(_ context.Context, action *domain.Action) error {
	for _, a := range r.actions {
		if a.ElectionID != action.ElectionID || a.VoterID != action.VoterID || a.Position != action.Position {
			continue
		}
		if action.Type == domain.ActionVote && a.Type == domain.ActionVote {
			return domain.ErrAlreadyVoted
		}
		if a.Type == action.Type && a.CandidateID == action.CandidateID {
			return domain.ErrNominationLimit
		}
	}
	copied := *action
	r.actions = append(r.actions, &copied)
	r.candidates.bump(action.ElectionID, action.Position, action.CandidateID, action.Type)
	return nil
}

func (r *fakeActionRepo) CountByVoter(_ context.Context, electionID uuid.UUID, voterID uuid.UUID, position string, actionType domain.ActionType) (int, error) {
	count := 0
	for _, a := range r.actions {
		if a.ElectionID == electionID && a.VoterID == voterID && a.Position == position && a.Type == actionType {
			count++
		}
	}
	return count, nil
}

func (r *fakeActionRepo) ListByPosition(_ context.Context, electionID uuid.UUID, position string, actionType domain.ActionType) ([]*domain.Action, error) {
	var out []*domain.Action
	for _, a := range r.actions {
		if a.ElectionID == electionID && a.Position == position && a.Type == actionType {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeActionRepo) CountDistinctVoters(_ context.Context, electionID uuid.UUID, position string, actionType domain.ActionType) (int, error) {
	voters := make(map[uuid.UUID]struct{})
	for _, a := range r.actions {
		if a.ElectionID == electionID && a.Position == position && a.Type == actionType {
			voters[a.VoterID] = struct{}{}
		}
	}
	return len(voters), nil
}

func (r *fakeActionRepo) DeleteVotes(_ context.Context, electionID uuid.UUID, position string) error {
	kept := r.actions[:0]
	for _, a := range r.actions {
		if a.ElectionID == electionID && a.Position == position && a.Type == domain.ActionVote {
			continue
		}
		kept = append(kept, a)
	}
	r.actions = kept
	return nil
}

func (r *fakeActionRepo) DeleteByElection(_ context.Context, electionID uuid.UUID) error {
	kept := r.actions[:0]
	for _, a := range r.actions {
		if a.ElectionID != electionID {
			kept = append(kept, a)
		}
	}
	r.actions = kept
	return nil
}

func (r *fakeActionRepo) Log(_ context.Context, electionID uuid.UUID) ([]*domain.ActionLogEntry, error) {
	var entries []*domain.ActionLogEntry
	for _, a := range r.actions {
		if a.ElectionID != electionID {
			continue
		}
		entry := &domain.ActionLogEntry{Action: *a}
		if m, ok := r.members.members[a.VoterID]; ok {
			entry.VoterName = m.Name
		}
		if m, ok := r.members.members[a.CandidateID]; ok {
			entry.CandidateName = m.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type fakeMemberRepo struct {
	members map[uuid.UUID]*domain.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[uuid.UUID]*domain.Member)}
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Member, error) {
	member, ok := r.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	copied := *member
	return &copied, nil
}

func (r *fakeMemberRepo) ListByChurch(_ context.Context, churchID uuid.UUID) ([]*domain.Member, error) {
	var out []*domain.Member
	for _, m := range r.members {
		if m.ChurchID == churchID {
			copied := *m
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeMemberRepo) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Member, error) {
	var out []*domain.Member
	for _, id := range ids {
		if m, ok := r.members[id]; ok {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) ApproveAll(_ context.Context, churchID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range r.members {
		if m.ChurchID == churchID && !m.Approved {
			m.Approved = true
			count++
		}
	}
	return count, nil
}
