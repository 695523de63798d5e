package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nomeacao/api/internal/core/domain"
	"github.com/nomeacao/api/internal/core/ports"
)

type candidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) ports.CandidateRepository {
	return &candidateRepository{
		db: db,
	}
}

const candidateInsert = `
	INSERT INTO candidates
		(id, election_id, position, member_id, name, church_name, birth_date,
		 nominations, votes, recurring_tithe, recurring_offering, attendance,
		 months_in_church, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`

func (r *candidateRepository) SaveAll(ctx context.Context, candidates []*domain.Candidate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, candidateInsert)
	if err != nil {
		return fmt.Errorf("failed to prepare candidate statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range candidates {
		_, err = stmt.ExecContext(ctx,
			c.ID, c.ElectionID, c.Position, c.MemberID, c.Name, c.ChurchName,
			c.BirthDate, c.Nominations, c.Votes, c.RecurringTithe,
			c.RecurringOffering, c.Attendance, c.MonthsInChurch, c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert candidate: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *candidateRepository) Save(ctx context.Context, candidate *domain.Candidate) error {
	_, err := r.db.ExecContext(ctx, candidateInsert,
		candidate.ID, candidate.ElectionID, candidate.Position, candidate.MemberID,
		candidate.Name, candidate.ChurchName, candidate.BirthDate,
		candidate.Nominations, candidate.Votes, candidate.RecurringTithe,
		candidate.RecurringOffering, candidate.Attendance,
		candidate.MonthsInChurch, candidate.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

func (r *candidateRepository) GetByMember(ctx context.Context, electionID uuid.UUID, position string, memberID uuid.UUID) (*domain.Candidate, error) {
	query := candidateSelect + ` WHERE election_id = $1 AND position = $2 AND member_id = $3`
	candidate, err := scanCandidate(r.db.QueryRowContext(ctx, query, electionID, position, memberID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return candidate, nil
}

func (r *candidateRepository) ListByPosition(ctx context.Context, electionID uuid.UUID, position string) ([]*domain.Candidate, error) {
	query := candidateSelect + ` WHERE election_id = $1 AND position = $2 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, electionID, position)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*domain.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) DeleteByElection(ctx context.Context, electionID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM candidates WHERE election_id = $1`, electionID)
	if err != nil {
		return fmt.Errorf("failed to delete candidates: %w", err)
	}
	return nil
}

func (r *candidateRepository) ResetVoteCounts(ctx context.Context, electionID uuid.UUID, position string) error {
	query := `UPDATE candidates SET votes = 0 WHERE election_id = $1 AND position = $2`
	_, err := r.db.ExecContext(ctx, query, electionID, position)
	if err != nil {
		return fmt.Errorf("failed to reset vote counts: %w", err)
	}
	return nil
}

const candidateSelect = `
	SELECT id, election_id, position, member_id, name, church_name, birth_date,
	       nominations, votes, recurring_tithe, recurring_offering, attendance,
	       months_in_church, created_at
	FROM candidates
`

func scanCandidate(row rowScanner) (*domain.Candidate, error) {
	var candidate domain.Candidate
	err := row.Scan(
		&candidate.ID, &candidate.ElectionID, &candidate.Position, &candidate.MemberID,
		&candidate.Name, &candidate.ChurchName, &candidate.BirthDate,
		&candidate.Nominations, &candidate.Votes, &candidate.RecurringTithe,
		&candidate.RecurringOffering, &candidate.Attendance,
		&candidate.MonthsInChurch, &candidate.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}
