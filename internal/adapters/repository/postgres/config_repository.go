package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nomeacao/api/internal/core/domain"
	"github.com/nomeacao/api/internal/core/ports"
)

type configRepository struct {
	db *sql.DB
}

func NewConfigRepository(db *sql.DB) ports.ConfigRepository {
	return &configRepository{
		db: db,
	}
}

func (r *configRepository) Save(ctx context.Context, config *domain.Configuration) error {
	criteria, leaders, err := marshalConfigJSON(config)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO election_configs
			(id, church_id, church_name, title, positions, voters, criteria,
			 max_nominations, status, removed_candidates, current_leaders,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = r.db.ExecContext(ctx, query,
		config.ID, config.ChurchID, config.ChurchName, config.Title,
		pq.Array(config.Positions), uuidArray(config.Voters), criteria,
		config.MaxNominations, config.Status, uuidArray(config.RemovedCandidates),
		leaders, config.CreatedAt, config.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert election config: %w", err)
	}
	return nil
}

func (r *configRepository) Update(ctx context.Context, config *domain.Configuration) error {
	criteria, leaders, err := marshalConfigJSON(config)
	if err != nil {
		return err
	}

	query := `
		UPDATE election_configs
		SET church_name = $2, title = $3, positions = $4, voters = $5,
		    criteria = $6, max_nominations = $7, status = $8,
		    removed_candidates = $9, current_leaders = $10, updated_at = $11
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		config.ID, config.ChurchName, config.Title, pq.Array(config.Positions),
		uuidArray(config.Voters), criteria, config.MaxNominations, config.Status,
		uuidArray(config.RemovedCandidates), leaders, config.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update election config: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

func (r *configRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Configuration, error) {
	query := configSelect + ` WHERE id = $1`
	config, err := scanConfig(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to get election config: %w", err)
	}
	return config, nil
}

func (r *configRepository) ListByChurch(ctx context.Context, churchID uuid.UUID) ([]*domain.Configuration, error) {
	query := configSelect + ` WHERE church_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, churchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list election configs: %w", err)
	}
	defer rows.Close()
	return scanConfigs(rows)
}

func (r *configRepository) ListByStatus(ctx context.Context, status domain.ConfigStatus) ([]*domain.Configuration, error) {
	query := configSelect + ` WHERE status = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list election configs: %w", err)
	}
	defer rows.Close()
	return scanConfigs(rows)
}

func (r *configRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM election_configs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete election config: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

const configSelect = `
	SELECT id, church_id, church_name, title, positions, voters, criteria,
	       max_nominations, status, removed_candidates, current_leaders,
	       created_at, updated_at
	FROM election_configs
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConfig(row rowScanner) (*domain.Configuration, error) {
	var config domain.Configuration
	var positions pq.StringArray
	var voters, removed pq.StringArray
	var criteria, leaders []byte

	err := row.Scan(
		&config.ID, &config.ChurchID, &config.ChurchName, &config.Title,
		&positions, &voters, &criteria, &config.MaxNominations, &config.Status,
		&removed, &leaders, &config.CreatedAt, &config.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	config.Positions = positions
	if config.Voters, err = parseUUIDs(voters); err != nil {
		return nil, fmt.Errorf("failed to parse voters: %w", err)
	}
	if config.RemovedCandidates, err = parseUUIDs(removed); err != nil {
		return nil, fmt.Errorf("failed to parse removed candidates: %w", err)
	}
	if err := json.Unmarshal(criteria, &config.Criteria); err != nil {
		return nil, fmt.Errorf("failed to parse criteria: %w", err)
	}
	if len(leaders) > 0 {
		if err := json.Unmarshal(leaders, &config.CurrentLeaders); err != nil {
			return nil, fmt.Errorf("failed to parse current leaders: %w", err)
		}
	}
	return &config, nil
}

func scanConfigs(rows *sql.Rows) ([]*domain.Configuration, error) {
	var configs []*domain.Configuration
	for rows.Next() {
		config, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan election config: %w", err)
		}
		configs = append(configs, config)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating election configs: %w", err)
	}
	return configs, nil
}

func marshalConfigJSON(config *domain.Configuration) ([]byte, []byte, error) {
	criteria, err := json.Marshal(config.Criteria)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal criteria: %w", err)
	}
	leaders := config.CurrentLeaders
	if leaders == nil {
		leaders = map[string]string{}
	}
	leadersJSON, err := json.Marshal(leaders)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal current leaders: %w", err)
	}
	return criteria, leadersJSON, nil
}

// uuidArray adapts a uuid slice for a uuid[] column through pq.Array.
func uuidArray(ids []uuid.UUID) any {
	values := make([]string, len(ids))
	for i, id := range ids {
		values[i] = id.String()
	}
	return pq.Array(values)
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
