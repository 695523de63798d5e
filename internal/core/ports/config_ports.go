package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/nomeacao/api/internal/core/domain"
)

type ConfigRepository interface {
	Save(ctx context.Context, config *domain.Configuration) error
	Update(ctx context.Context, config *domain.Configuration) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Configuration, error)
	ListByChurch(ctx context.Context, churchID uuid.UUID) ([]*domain.Configuration, error)
	ListByStatus(ctx context.Context, status domain.ConfigStatus) ([]*domain.Configuration, error)
	// Delete removes the configuration; elections, candidates and actions
	// cascade at the database level.
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateConfigInput struct {
	ChurchID       uuid.UUID
	ChurchName     string
	Title          string
	Positions      []string
	Voters         []uuid.UUID
	Criteria       domain.EligibilityCriteria
	MaxNominations int
}

type UpdateConfigInput struct {
	Title          *string
	Positions      []string
	Voters         []uuid.UUID
	Criteria       *domain.EligibilityCriteria
	MaxNominations *int
}

type ConfigService interface {
	Create(ctx context.Context, input CreateConfigInput) (*domain.Configuration, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateConfigInput) (*domain.Configuration, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Configuration, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetMaxNominations(ctx context.Context, id uuid.UUID, max int) error
	RemoveCandidate(ctx context.Context, id uuid.UUID, memberID uuid.UUID) error
	RestoreCandidate(ctx context.Context, id uuid.UUID, memberID uuid.UUID) error
}
