package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nomeacao/api/internal/core/domain"
	"github.com/nomeacao/api/internal/core/ports"
)

type actionRepository struct {
	db *sql.DB
}

func NewActionRepository(db *sql.DB) ports.ActionRepository {
	return &actionRepository{
		db: db,
	}
}

// Save appends the ledger entry and bumps the candidate's counter in one
// transaction. Unique-constraint violations are the expected outcome of a
// duplicate submission racing another request and are translated to the
// domain sentinels instead of surfacing as internal errors.
func (r *actionRepository) Save(ctx context.Context, action *domain.Action) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO election_actions
			(id, election_id, voter_id, position, candidate_id, action_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, query,
		action.ID, action.ElectionID, action.VoterID, action.Position,
		action.CandidateID, action.Type, action.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if action.Type == domain.ActionVote {
				return domain.ErrAlreadyVoted
			}
			return domain.ErrNominationLimit
		}
		return fmt.Errorf("failed to insert action: %w", err)
	}

	counter := "nominations"
	if action.Type == domain.ActionVote {
		counter = "votes"
	}
	bump := fmt.Sprintf(`
		UPDATE candidates SET %s = %s + 1
		WHERE election_id = $1 AND position = $2 AND member_id = $3
	`, counter, counter)
	if _, err := tx.ExecContext(ctx, bump, action.ElectionID, action.Position, action.CandidateID); err != nil {
		return fmt.Errorf("failed to update candidate counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *actionRepository) CountByVoter(ctx context.Context, electionID uuid.UUID, voterID uuid.UUID, position string, actionType domain.ActionType) (int, error) {
	query := `
		SELECT COUNT(*) FROM election_actions
		WHERE election_id = $1 AND voter_id = $2 AND position = $3 AND action_type = $4
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, electionID, voterID, position, actionType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count actions: %w", err)
	}
	return count, nil
}

func (r *actionRepository) ListByPosition(ctx context.Context, electionID uuid.UUID, position string, actionType domain.ActionType) ([]*domain.Action, error) {
	query := `
		SELECT id, election_id, voter_id, position, candidate_id, action_type, created_at
		FROM election_actions
		WHERE election_id = $1 AND position = $2 AND action_type = $3
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, electionID, position, actionType)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	var actions []*domain.Action
	for rows.Next() {
		var action domain.Action
		err := rows.Scan(
			&action.ID, &action.ElectionID, &action.VoterID, &action.Position,
			&action.CandidateID, &action.Type, &action.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, &action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actions: %w", err)
	}
	return actions, nil
}

func (r *actionRepository) CountDistinctVoters(ctx context.Context, electionID uuid.UUID, position string, actionType domain.ActionType) (int, error) {
	query := `
		SELECT COUNT(DISTINCT voter_id) FROM election_actions
		WHERE election_id = $1 AND position = $2 AND action_type = $3
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, electionID, position, actionType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct voters: %w", err)
	}
	return count, nil
}

func (r *actionRepository) DeleteVotes(ctx context.Context, electionID uuid.UUID, position string) error {
	query := `
		DELETE FROM election_actions
		WHERE election_id = $1 AND position = $2 AND action_type = $3
	`
	_, err := r.db.ExecContext(ctx, query, electionID, position, domain.ActionVote)
	if err != nil {
		return fmt.Errorf("failed to delete votes: %w", err)
	}
	return nil
}

func (r *actionRepository) DeleteByElection(ctx context.Context, electionID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM election_actions WHERE election_id = $1`, electionID)
	if err != nil {
		return fmt.Errorf("failed to delete actions: %w", err)
	}
	return nil
}

func (r *actionRepository) Log(ctx context.Context, electionID uuid.UUID) ([]*domain.ActionLogEntry, error) {
	query := `
		SELECT a.id, a.election_id, a.voter_id, a.position, a.candidate_id,
		       a.action_type, a.created_at,
		       COALESCE(v.name, ''), COALESCE(c.name, '')
		FROM election_actions a
		LEFT JOIN members v ON v.id = a.voter_id
		LEFT JOIN members c ON c.id = a.candidate_id
		WHERE a.election_id = $1
		ORDER BY a.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load action log: %w", err)
	}
	defer rows.Close()

	var entries []*domain.ActionLogEntry
	for rows.Next() {
		var entry domain.ActionLogEntry
		err := rows.Scan(
			&entry.ID, &entry.ElectionID, &entry.VoterID, &entry.Position,
			&entry.CandidateID, &entry.Type, &entry.CreatedAt,
			&entry.VoterName, &entry.CandidateName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action log entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating action log: %w", err)
	}
	return entries, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
