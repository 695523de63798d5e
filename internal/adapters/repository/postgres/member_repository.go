package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nomeacao/api/internal/core/domain"
	"github.com/nomeacao/api/internal/core/ports"
)

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) ports.MemberRepository {
	return &memberRepository{
		db: db,
	}
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	query := memberSelect + ` WHERE id = $1`
	member, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

func (r *memberRepository) ListByChurch(ctx context.Context, churchID uuid.UUID) ([]*domain.Member, error) {
	query := memberSelect + ` WHERE church_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, churchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()
	return scanMembers(rows)
}

func (r *memberRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := memberSelect + ` WHERE id = ANY($1) ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, uuidArray(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()
	return scanMembers(rows)
}

func (r *memberRepository) ApproveAll(ctx context.Context, churchID uuid.UUID) (int64, error) {
	query := `UPDATE members SET approved = TRUE WHERE church_id = $1 AND approved = FALSE`
	result, err := r.db.ExecContext(ctx, query, churchID)
	if err != nil {
		return 0, fmt.Errorf("failed to approve members: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}

const memberSelect = `
	SELECT id, name, COALESCE(email, ''), church_id, church_name, role, approved,
	       birth_date, baptism_date, recurring_tithe, recurring_offering,
	       attendance, engagement, classification, created_at
	FROM members
`

func scanMember(row rowScanner) (*domain.Member, error) {
	var member domain.Member
	err := row.Scan(
		&member.ID, &member.Name, &member.Email, &member.ChurchID, &member.ChurchName,
		&member.Role, &member.Approved, &member.BirthDate, &member.BaptismDate,
		&member.RecurringTithe, &member.RecurringOffering, &member.Attendance,
		&member.Engagement, &member.Classification, &member.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func scanMembers(rows *sql.Rows) ([]*domain.Member, error) {
	var members []*domain.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}
