package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/nomeacao/api/internal/core/domain"
)

type MemberRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	ListByChurch(ctx context.Context, churchID uuid.UUID) ([]*domain.Member, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Member, error)
	ApproveAll(ctx context.Context, churchID uuid.UUID) (int64, error)
}
