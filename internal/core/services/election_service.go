package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nomeacao/api/internal/core/domain"
	"github.com/nomeacao/api/internal/core/ports"
)

// electionService owns the election lifecycle: starting/reusing an instance
// for a configuration, phase and position progression, the nomination/vote
// ledger and the read models built on top of it.
type electionService struct {
	configRepo    ports.ConfigRepository
	electionRepo  ports.ElectionRepository
	candidateRepo ports.CandidateRepository
	actionRepo    ports.ActionRepository
	memberRepo    ports.MemberRepository
}

func NewElectionService(
	configRepo ports.ConfigRepository,
	electionRepo ports.ElectionRepository,
	candidateRepo ports.CandidateRepository,
	actionRepo ports.ActionRepository,
	memberRepo ports.MemberRepository,
) ports.ElectionService {
	return &electionService{
		configRepo:    configRepo,
		electionRepo:  electionRepo,
		candidateRepo: candidateRepo,
		actionRepo:    actionRepo,
		memberRepo:    memberRepo,
	}
}

// Start activates the configuration and (re)starts its election at the first
// position's nomination phase. An existing election is reset: its ledger and
// candidates are cleared and candidates are rematerialized from the current
// member records. Any other active election for the configuration is
// completed so at most one stays active.
func (s *electionService) Start(ctx context.Context, configID uuid.UUID) (*domain.Election, error) {
	config, err := s.configRepo.GetByID(ctx, configID)
	if err != nil {
		return nil, err
	}
	if len(config.Positions) == 0 {
		return nil, fmt.Errorf("%w: configuration has no positions", domain.ErrInvalidState)
	}

	election, err := s.electionRepo.GetByConfig(ctx, configID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	isNew := election == nil
	if isNew {
		election = &domain.Election{
			ID:        uuid.New(),
			ConfigID:  configID,
			CreatedAt: now,
		}
	} else {
		if err := s.actionRepo.DeleteByElection(ctx, election.ID); err != nil {
			return nil, err
		}
		if err := s.candidateRepo.DeleteByElection(ctx, election.ID); err != nil {
			return nil, err
		}
	}

	election.Status = domain.ElectionStatusActive
	election.PositionIndex = 0
	election.Phase = domain.PhaseNomination
	election.ResultAnnounced = false
	election.UpdatedAt = now

	if isNew {
		if err := s.electionRepo.Save(ctx, election); err != nil {
			return nil, err
		}
	} else {
		if err := s.electionRepo.Update(ctx, election); err != nil {
			return nil, err
		}
	}
	if err := s.electionRepo.CompleteOthers(ctx, configID, election.ID); err != nil {
		return nil, err
	}

	if err := s.materializeCandidates(ctx, config, election, now); err != nil {
		return nil, err
	}

	config.Status = domain.ConfigStatusActive
	config.UpdatedAt = now
	if err := s.configRepo.Update(ctx, config); err != nil {
		return nil, err
	}
	return election, nil
}

// ToggleConfigStatus pauses an active configuration or resumes a paused one.
// Pausing keeps all election data; resuming continues at the stored
// position/phase. A draft configuration is started instead.
func (s *electionService) ToggleConfigStatus(ctx context.Context, configID uuid.UUID) (*domain.Configuration, error) {
	config, err := s.configRepo.GetByID(ctx, configID)
	if err != nil {
		return nil, err
	}

	switch config.Status {
	case domain.ConfigStatusDraft:
		if _, err := s.Start(ctx, configID); err != nil {
			return nil, err
		}
		return s.configRepo.GetByID(ctx, configID)

	case domain.ConfigStatusActive:
		election, err := s.electionRepo.GetByConfig(ctx, configID)
		if err != nil {
			return nil, err
		}
		if election != nil && election.Status == domain.ElectionStatusActive {
			election.Status = domain.ElectionStatusPaused
			election.UpdatedAt = time.Now()
			if err := s.electionRepo.Update(ctx, election); err != nil {
				return nil, err
			}
		}
		config.Status = domain.ConfigStatusPaused

	case domain.ConfigStatusPaused:
		election, err := s.electionRepo.GetByConfig(ctx, configID)
		if err != nil {
			return nil, err
		}
		if election == nil {
			if _, err := s.Start(ctx, configID); err != nil {
				return nil, err
			}
			return s.configRepo.GetByID(ctx, configID)
		}
		if election.Status == domain.ElectionStatusPaused {
			election.Status = domain.ElectionStatusActive
			election.UpdatedAt = time.Now()
			if err := s.electionRepo.Update(ctx, election); err != nil {
				return nil, err
			}
		}
		config.Status = domain.ConfigStatusActive
	}

	config.UpdatedAt = time.Now()
	if err := s.configRepo.Update(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

// AdvancePhase moves the current position from nomination to voting, or from
// voting to completed. Completing the final position completes the election.
func (s *electionService) AdvancePhase(ctx context.Context, configID uuid.UUID) (*domain.Election, error) {
	config, election, err := s.activeElection(ctx, configID)
	if err != nil {
		return nil, err
	}

	switch election.Phase {
	case domain.PhaseNomination:
		election.Phase = domain.PhaseVoting
	case domain.PhaseVoting:
		election.Phase = domain.PhaseCompleted
		if election.PositionIndex == len(config.Positions)-1 {
			election.Status = domain.ElectionStatusCompleted
		}
	default:
		return nil, fmt.Errorf("%w: position already completed", domain.ErrInvalidState)
	}

	election.ResultAnnounced = false
	election.UpdatedAt = time.Now()
	if err := s.electionRepo.Update(ctx, election); err != nil {
		return nil, err
	}
	return election, nil
}

// AdvancePosition moves the election to the next position and reopens the
// nomination phase. Advancing past the final position is rejected.
func (s *electionService) AdvancePosition(ctx context.Context, configID uuid.UUID) (*domain.Election, error) {
	config, election, err := s.activeElection(ctx, configID)
	if err != nil {
		return nil, err
	}

	if election.PositionIndex+1 >= len(config.Positions) {
		return nil, fmt.Errorf("%w: no positions left after %q", domain.ErrInvalidState, config.Positions[election.PositionIndex])
	}

	election.PositionIndex++
	election.Phase = domain.PhaseNomination
	election.ResultAnnounced = false
	election.UpdatedAt = time.Now()
	if err := s.electionRepo.Update(ctx, election); err != nil {
		return nil, err
	}
	return election, nil
}

// AnnounceResult freezes the winner of the current position and records it in
// the configuration's advisory current-leaders cache. The phase is untouched.
func (s *electionService) AnnounceResult(ctx context.Context, configID uuid.UUID) (*domain.PositionTally, error) {
	config, election, err := s.activeElection(ctx, configID)
	if err != nil {
		return nil, err
	}
	position, err := config.Position(election.PositionIndex)
	if err != nil {
		return nil, err
	}

	tally, err := s.tallyPosition(ctx, config, election, position)
	if err != nil {
		return nil, err
	}

	election.ResultAnnounced = true
	election.UpdatedAt = time.Now()
	if err := s.electionRepo.Update(ctx, election); err != nil {
		return nil, err
	}

	if tally.Winner != nil {
		if config.CurrentLeaders == nil {
			config.CurrentLeaders = make(map[string]string)
		}
		config.CurrentLeaders[position] = tally.Winner.Name
		config.UpdatedAt = time.Now()
		if err := s.configRepo.Update(ctx, config); err != nil {
			return nil, err
		}
	}
	return tally, nil
}

// ResetVoting discards the vote entries of the current position, keeps its
// nominations and reopens the voting phase. Resetting twice is a no-op. It is
// only valid once voting has opened; during nomination there is nothing to
// reset and the nominee set is not frozen yet.
func (s *electionService) ResetVoting(ctx context.Context, configID uuid.UUID) error {
	config, election, err := s.activeElection(ctx, configID)
	if err != nil {
		return err
	}
	if election.Phase == domain.PhaseNomination {
		return fmt.Errorf("%w: voting has not opened", domain.ErrPhaseClosed)
	}
	position, err := config.Position(election.PositionIndex)
	if err != nil {
		return err
	}

	if err := s.actionRepo.DeleteVotes(ctx, election.ID, position); err != nil {
		return err
	}
	if err := s.candidateRepo.ResetVoteCounts(ctx, election.ID, position); err != nil {
		return err
	}

	election.Phase = domain.PhaseVoting
	election.ResultAnnounced = false
	election.UpdatedAt = time.Now()
	return s.electionRepo.Update(ctx, election)
}

// Submit records a nomination or a vote, depending on the phase the caller
// acted in. The phase in the input protects against acting on a stale view:
// it must still match the election's current phase.
func (s *electionService) Submit(ctx context.Context, input ports.SubmitInput) error {
	config, err := s.configRepo.GetByID(ctx, input.ConfigID)
	if err != nil {
		return err
	}
	election, err := s.electionRepo.GetByConfig(ctx, input.ConfigID)
	if err != nil {
		return err
	}
	if election == nil {
		return domain.ErrElectionNotFound
	}
	if election.Status != domain.ElectionStatusActive {
		return fmt.Errorf("%w: election is %s", domain.ErrInvalidState, election.Status)
	}
	if input.Phase != election.Phase {
		return fmt.Errorf("%w: election is in the %s phase", domain.ErrPhaseClosed, election.Phase)
	}
	if !config.IsVoter(input.VoterID) {
		return fmt.Errorf("%w: not in the voter list", domain.ErrForbidden)
	}
	voter, err := s.memberRepo.GetByID(ctx, input.VoterID)
	if err != nil {
		return err
	}
	// Voter-list membership does not override a read-only role.
	if voter.Role == domain.RoleReadOnly {
		return fmt.Errorf("%w: read-only role", domain.ErrForbidden)
	}
	position, err := config.Position(election.PositionIndex)
	if err != nil {
		return err
	}
	if config.IsRemoved(input.CandidateID) {
		return fmt.Errorf("%w: candidate was removed", domain.ErrCandidateNotFound)
	}

	candidate, err := s.candidateRepo.GetByMember(ctx, election.ID, position, input.CandidateID)
	if err != nil {
		return err
	}

	var actionType domain.ActionType
	switch election.Phase {
	case domain.PhaseNomination:
		actionType = domain.ActionNomination
		count, err := s.actionRepo.CountByVoter(ctx, election.ID, input.VoterID, position, domain.ActionNomination)
		if err != nil {
			return err
		}
		if count >= config.MaxNominations {
			return fmt.Errorf("%w: %d of %d used", domain.ErrNominationLimit, count, config.MaxNominations)
		}
		if candidate == nil {
			candidate, err = s.synthesizeCandidate(ctx, config, election, position, input.CandidateID)
			if err != nil {
				return err
			}
		}
	case domain.PhaseVoting:
		actionType = domain.ActionVote
		// Voting is restricted to the nominee set frozen when the phase
		// advanced.
		if candidate == nil || candidate.Nominations == 0 {
			return fmt.Errorf("%w: not nominated for %s", domain.ErrCandidateNotFound, position)
		}
		count, err := s.actionRepo.CountByVoter(ctx, election.ID, input.VoterID, position, domain.ActionVote)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrAlreadyVoted
		}
	default:
		return fmt.Errorf("%w: position is completed", domain.ErrPhaseClosed)
	}

	// Age check per request: removal or birthdays must not let an ineligible
	// teen candidate through between materialization and submission.
	if config.Criteria.IsTeenPosition(position) && !TeenAgeEligible(candidate.Age(time.Now())) {
		return fmt.Errorf("%w: outside the teen age band", domain.ErrCandidateNotFound)
	}

	action := &domain.Action{
		ID:          uuid.New(),
		ElectionID:  election.ID,
		VoterID:     input.VoterID,
		Position:    position,
		CandidateID: input.CandidateID,
		Type:        actionType,
		CreatedAt:   time.Now(),
	}
	return s.actionRepo.Save(ctx, action)
}

// VotingInterfaceFor assembles everything a voter needs for the current
// position: exposed candidates with live tallies, the voter's own remaining
// actions and the winner once announced.
func (s *electionService) VotingInterfaceFor(ctx context.Context, configID uuid.UUID, voterID uuid.UUID) (*ports.VotingInterface, error) {
	config, err := s.configRepo.GetByID(ctx, configID)
	if err != nil {
		return nil, err
	}
	if !config.IsVoter(voterID) {
		return nil, fmt.Errorf("%w: not in the voter list", domain.ErrForbidden)
	}
	election, err := s.electionRepo.GetByConfig(ctx, configID)
	if err != nil {
		return nil, err
	}
	if election == nil {
		return nil, domain.ErrElectionNotFound
	}
	position, err := config.Position(election.PositionIndex)
	if err != nil {
		return nil, err
	}

	exposed, err := s.exposedCandidates(ctx, config, election, position)
	if err != nil {
		return nil, err
	}
	votes, err := s.actionRepo.ListByPosition(ctx, election.ID, position, domain.ActionVote)
	if err != nil {
		return nil, err
	}
	tally := BuildPositionTally(position, exposed, votes, len(config.Voters))

	byMember := make(map[uuid.UUID]*domain.Candidate, len(exposed))
	for _, c := range exposed {
		byMember[c.MemberID] = c
	}
	candidates := make([]ports.VotingCandidate, 0, len(tally.Candidates))
	for _, entry := range tally.Candidates {
		vc := ports.VotingCandidate{
			MemberID:    entry.MemberID,
			Name:        entry.Name,
			Nominations: entry.Nominations,
			Votes:       entry.Votes,
			Percentage:  entry.Percentage,
		}
		if c, ok := byMember[entry.MemberID]; ok {
			vc.ChurchName = c.ChurchName
		}
		candidates = append(candidates, vc)
	}

	voteCount, err := s.actionRepo.CountByVoter(ctx, election.ID, voterID, position, domain.ActionVote)
	if err != nil {
		return nil, err
	}
	nominationCount, err := s.actionRepo.CountByVoter(ctx, election.ID, voterID, position, domain.ActionNomination)
	if err != nil {
		return nil, err
	}
	remaining := config.MaxNominations - nominationCount
	if remaining < 0 {
		remaining = 0
	}

	view := &ports.VotingInterface{
		ConfigID:             config.ID,
		ElectionID:           election.ID,
		Title:                config.Title,
		Position:             position,
		PositionIndex:        election.PositionIndex,
		TotalPositions:       len(config.Positions),
		Phase:                election.Phase,
		Candidates:           candidates,
		HasVoted:             voteCount > 0,
		NominationsRemaining: remaining,
		TotalVotes:           tally.TotalVotes,
		EligibleVoters:       len(config.Voters),
		AllVotesCast:         tally.AllVotesCast,
	}
	if election.ResultAnnounced {
		view.Winner = tally.Winner
	}
	return view, nil
}

// ActiveElectionsFor lists the running elections the member may vote in:
// active configurations of the member's church whose voter list contains the
// member.
func (s *electionService) ActiveElectionsFor(ctx context.Context, voterID uuid.UUID) ([]ports.ActiveElection, error) {
	member, err := s.memberRepo.GetByID(ctx, voterID)
	if err != nil {
		return nil, err
	}
	configs, err := s.configRepo.ListByStatus(ctx, domain.ConfigStatusActive)
	if err != nil {
		return nil, err
	}

	var visible []ports.ActiveElection
	for _, config := range configs {
		if config.ChurchID != member.ChurchID || !config.IsVoter(voterID) {
			continue
		}
		election, err := s.electionRepo.GetByConfig(ctx, config.ID)
		if err != nil {
			return nil, err
		}
		if election == nil || election.Status != domain.ElectionStatusActive {
			continue
		}
		position, err := config.Position(election.PositionIndex)
		if err != nil {
			continue
		}
		visible = append(visible, ports.ActiveElection{
			ConfigID:   config.ID,
			ElectionID: election.ID,
			Title:      config.Title,
			ChurchName: config.ChurchName,
			Position:   position,
			Phase:      election.Phase,
		})
	}
	return visible, nil
}

// DashboardFor reports tallies and winners for every position of the
// configuration's election.
func (s *electionService) DashboardFor(ctx context.Context, configID uuid.UUID) (*ports.Dashboard, error) {
	config, err := s.configRepo.GetByID(ctx, configID)
	if err != nil {
		return nil, err
	}
	election, err := s.electionRepo.GetByConfig(ctx, configID)
	if err != nil {
		return nil, err
	}
	if election == nil {
		return nil, domain.ErrElectionNotFound
	}
	position, err := config.Position(election.PositionIndex)
	if err != nil {
		return nil, err
	}

	dashboard := &ports.Dashboard{
		ConfigID:   config.ID,
		ElectionID: election.ID,
		Title:      config.Title,
		Status:     election.Status,
		Position:   position,
		Phase:      election.Phase,
	}
	for _, p := range config.Positions {
		tally, err := s.tallyPosition(ctx, config, election, p)
		if err != nil {
			return nil, err
		}
		dashboard.Positions = append(dashboard.Positions, *tally)
	}
	return dashboard, nil
}

func (s *electionService) ActionLog(ctx context.Context, configID uuid.UUID) ([]*domain.ActionLogEntry, error) {
	election, err := s.electionRepo.GetByConfig(ctx, configID)
	if err != nil {
		return nil, err
	}
	if election == nil {
		return nil, domain.ErrElectionNotFound
	}
	return s.actionRepo.Log(ctx, election.ID)
}

// activeElection loads the configuration and its election and verifies the
// election accepts admin transitions.
func (s *electionService) activeElection(ctx context.Context, configID uuid.UUID) (*domain.Configuration, *domain.Election, error) {
	config, err := s.configRepo.GetByID(ctx, configID)
	if err != nil {
		return nil, nil, err
	}
	election, err := s.electionRepo.GetByConfig(ctx, configID)
	if err != nil {
		return nil, nil, err
	}
	if election == nil {
		return nil, nil, domain.ErrElectionNotFound
	}
	if election.Status != domain.ElectionStatusActive {
		return nil, nil, fmt.Errorf("%w: election is %s", domain.ErrInvalidState, election.Status)
	}
	return config, election, nil
}

// materializeCandidates builds the candidate rows for every position from the
// current approved members of the configuration's church.
func (s *electionService) materializeCandidates(ctx context.Context, config *domain.Configuration, election *domain.Election, now time.Time) error {
	members, err := s.memberRepo.ListByChurch(ctx, config.ChurchID)
	if err != nil {
		return err
	}

	var candidates []*domain.Candidate
	for _, position := range config.Positions {
		for _, member := range members {
			if !member.Approved {
				continue
			}
			if config.IsRemoved(member.ID) {
				continue
			}
			if eligible, _ := EvaluateEligibility(member, config.Criteria, position, now); !eligible {
				continue
			}
			candidates = append(candidates, newCandidate(election.ID, position, member, now))
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return s.candidateRepo.SaveAll(ctx, candidates)
}

// synthesizeCandidate creates the candidate row on first nomination when the
// member joined or became eligible after the election started.
func (s *electionService) synthesizeCandidate(ctx context.Context, config *domain.Configuration, election *domain.Election, position string, memberID uuid.UUID) (*domain.Candidate, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if eligible, reason := EvaluateEligibility(member, config.Criteria, position, now); !eligible {
		return nil, fmt.Errorf("%w: %s", domain.ErrCandidateNotFound, reason)
	}
	candidate := newCandidate(election.ID, position, member, now)
	if err := s.candidateRepo.Save(ctx, candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

// exposedCandidates filters the materialized set per request: removed members
// and age-ineligible teens are never exposed, and during voting only
// nominated candidates remain.
func (s *electionService) exposedCandidates(ctx context.Context, config *domain.Configuration, election *domain.Election, position string) ([]*domain.Candidate, error) {
	all, err := s.candidateRepo.ListByPosition(ctx, election.ID, position)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	teen := config.Criteria.IsTeenPosition(position)
	voting := election.Phase != domain.PhaseNomination

	exposed := make([]*domain.Candidate, 0, len(all))
	for _, c := range all {
		if config.IsRemoved(c.MemberID) {
			continue
		}
		if teen && !TeenAgeEligible(c.Age(now)) {
			continue
		}
		if voting && c.Nominations == 0 {
			continue
		}
		exposed = append(exposed, c)
	}
	return exposed, nil
}

func (s *electionService) tallyPosition(ctx context.Context, config *domain.Configuration, election *domain.Election, position string) (*domain.PositionTally, error) {
	exposed, err := s.exposedCandidates(ctx, config, election, position)
	if err != nil {
		return nil, err
	}
	votes, err := s.actionRepo.ListByPosition(ctx, election.ID, position, domain.ActionVote)
	if err != nil {
		return nil, err
	}
	tally := BuildPositionTally(position, exposed, votes, len(config.Voters))
	return &tally, nil
}

func newCandidate(electionID uuid.UUID, position string, member *domain.Member, now time.Time) *domain.Candidate {
	return &domain.Candidate{
		ID:                uuid.New(),
		ElectionID:        electionID,
		Position:          position,
		MemberID:          member.ID,
		Name:              member.Name,
		ChurchName:        member.ChurchName,
		BirthDate:         member.BirthDate,
		RecurringTithe:    member.RecurringTithe,
		RecurringOffering: member.RecurringOffering,
		Attendance:        member.Attendance,
		MonthsInChurch:    member.MonthsInChurch(now),
		CreatedAt:         now,
	}
}
