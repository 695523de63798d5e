package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nomeacao/api/internal/core/domain"
	"github.com/nomeacao/api/internal/core/ports"
)

type configService struct {
	configRepo ports.ConfigRepository
	memberRepo ports.MemberRepository
}

func NewConfigService(configRepo ports.ConfigRepository, memberRepo ports.MemberRepository) ports.ConfigService {
	return &configService{
		configRepo: configRepo,
		memberRepo: memberRepo,
	}
}

func (s *configService) Create(ctx context.Context, input ports.CreateConfigInput) (*domain.Configuration, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if len(input.Positions) == 0 {
		return nil, fmt.Errorf("%w: at least one position is required", domain.ErrValidation)
	}
	for _, p := range input.Positions {
		if p == "" {
			return nil, fmt.Errorf("%w: position names must not be empty", domain.ErrValidation)
		}
	}
	if err := input.Criteria.Validate(); err != nil {
		return nil, err
	}
	if err := s.verifyVoters(ctx, input.Voters); err != nil {
		return nil, err
	}

	maxNominations := input.MaxNominations
	if maxNominations <= 0 {
		maxNominations = domain.DefaultMaxNominations
	}

	now := time.Now()
	config := &domain.Configuration{
		ID:             uuid.New(),
		ChurchID:       input.ChurchID,
		ChurchName:     input.ChurchName,
		Title:          input.Title,
		Positions:      input.Positions,
		Voters:         input.Voters,
		Criteria:       input.Criteria,
		MaxNominations: maxNominations,
		Status:         domain.ConfigStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.configRepo.Save(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

func (s *configService) Update(ctx context.Context, id uuid.UUID, input ports.UpdateConfigInput) (*domain.Configuration, error) {
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
		}
		config.Title = *input.Title
	}
	if input.Positions != nil {
		if len(input.Positions) == 0 {
			return nil, fmt.Errorf("%w: at least one position is required", domain.ErrValidation)
		}
		config.Positions = input.Positions
	}
	if input.Voters != nil {
		if err := s.verifyVoters(ctx, input.Voters); err != nil {
			return nil, err
		}
		config.Voters = input.Voters
	}
	if input.Criteria != nil {
		if err := input.Criteria.Validate(); err != nil {
			return nil, err
		}
		config.Criteria = *input.Criteria
	}
	if input.MaxNominations != nil {
		if *input.MaxNominations < 1 {
			return nil, fmt.Errorf("%w: max nominations must be at least 1", domain.ErrValidation)
		}
		config.MaxNominations = *input.MaxNominations
	}

	config.UpdatedAt = time.Now()
	if err := s.configRepo.Update(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

// verifyVoters checks that every voter id resolves to a member record.
func (s *configService) verifyVoters(ctx context.Context, voters []uuid.UUID) error {
	if len(voters) == 0 {
		return nil
	}
	unique := make(map[uuid.UUID]struct{}, len(voters))
	ids := make([]uuid.UUID, 0, len(voters))
	for _, v := range voters {
		if _, ok := unique[v]; ok {
			continue
		}
		unique[v] = struct{}{}
		ids = append(ids, v)
	}
	members, err := s.memberRepo.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(members) != len(ids) {
		return fmt.Errorf("%w: voter list contains unknown members", domain.ErrValidation)
	}
	return nil
}

func (s *configService) Get(ctx context.Context, id uuid.UUID) (*domain.Configuration, error) {
	return s.configRepo.GetByID(ctx, id)
}

func (s *configService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.configRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.configRepo.Delete(ctx, id)
}

func (s *configService) SetMaxNominations(ctx context.Context, id uuid.UUID, max int) error {
	if max < 1 {
		return fmt.Errorf("%w: max nominations must be at least 1", domain.ErrValidation)
	}
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	config.MaxNominations = max
	config.UpdatedAt = time.Now()
	return s.configRepo.Update(ctx, config)
}

// RemoveCandidate adds the member to the configuration's removed set.
// Removing an already-removed member is a no-op.
func (s *configService) RemoveCandidate(ctx context.Context, id uuid.UUID, memberID uuid.UUID) error {
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if config.IsRemoved(memberID) {
		return nil
	}
	config.RemovedCandidates = append(config.RemovedCandidates, memberID)
	config.UpdatedAt = time.Now()
	return s.configRepo.Update(ctx, config)
}

func (s *configService) RestoreCandidate(ctx context.Context, id uuid.UUID, memberID uuid.UUID) error {
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	kept := config.RemovedCandidates[:0]
	for _, r := range config.RemovedCandidates {
		if r != memberID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(config.RemovedCandidates) {
		return nil
	}
	config.RemovedCandidates = kept
	config.UpdatedAt = time.Now()
	return s.configRepo.Update(ctx, config)
}
