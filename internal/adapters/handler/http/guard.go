package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nomeacao/api/internal/core/domain"
	"github.com/nomeacao/api/internal/core/ports"
)

// RoleGuard checks the caller's stored role before any admin side effect.
type RoleGuard struct {
	members ports.MemberRepository
}

func NewRoleGuard(members ports.MemberRepository) *RoleGuard {
	return &RoleGuard{members: members}
}

// requireAdmin rejects read-only and non-admin members before any mutation
// runs. Unknown members are unauthenticated rather than not-found: the token
// no longer maps to a member.
func (g *RoleGuard) requireAdmin(ctx context.Context, userID uuid.UUID) error {
	member, err := g.members.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return domain.ErrUnauthenticated
		}
		return err
	}
	if member.Role == domain.RoleReadOnly {
		return fmt.Errorf("%w: read-only role", domain.ErrForbidden)
	}
	if member.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}
	if !member.Approved {
		return fmt.Errorf("%w: member not approved", domain.ErrForbidden)
	}
	return nil
}
