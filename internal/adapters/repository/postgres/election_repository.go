package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nomeacao/api/internal/core/domain"
	"github.com/nomeacao/api/internal/core/ports"
)

type electionRepository struct {
	db *sql.DB
}

func NewElectionRepository(db *sql.DB) ports.ElectionRepository {
	return &electionRepository{
		db: db,
	}
}

func (r *electionRepository) Save(ctx context.Context, election *domain.Election) error {
	query := `
		INSERT INTO elections
			(id, config_id, status, position_index, phase, result_announced, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		election.ID, election.ConfigID, election.Status, election.PositionIndex,
		election.Phase, election.ResultAnnounced, election.CreatedAt, election.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert election: %w", err)
	}
	return nil
}

func (r *electionRepository) Update(ctx context.Context, election *domain.Election) error {
	query := `
		UPDATE elections
		SET status = $2, position_index = $3, phase = $4, result_announced = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		election.ID, election.Status, election.PositionIndex,
		election.Phase, election.ResultAnnounced, election.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update election: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrElectionNotFound
	}
	return nil
}

func (r *electionRepository) GetByConfig(ctx context.Context, configID uuid.UUID) (*domain.Election, error) {
	query := electionSelect + ` WHERE config_id = $1 ORDER BY created_at DESC LIMIT 1`
	election, err := scanElection(r.db.QueryRowContext(ctx, query, configID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get election by config: %w", err)
	}
	return election, nil
}

func (r *electionRepository) CompleteOthers(ctx context.Context, configID uuid.UUID, keepID uuid.UUID) error {
	query := `
		UPDATE elections
		SET status = $3, updated_at = NOW()
		WHERE config_id = $1 AND id <> $2 AND status = $4
	`
	_, err := r.db.ExecContext(ctx, query, configID, keepID,
		domain.ElectionStatusCompleted, domain.ElectionStatusActive)
	if err != nil {
		return fmt.Errorf("failed to complete other elections: %w", err)
	}
	return nil
}

const electionSelect = `
	SELECT id, config_id, status, position_index, phase, result_announced, created_at, updated_at
	FROM elections
`

func scanElection(row rowScanner) (*domain.Election, error) {
	var election domain.Election
	err := row.Scan(
		&election.ID, &election.ConfigID, &election.Status, &election.PositionIndex,
		&election.Phase, &election.ResultAnnounced, &election.CreatedAt, &election.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &election, nil
}
