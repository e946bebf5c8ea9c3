package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"finedge/internal/domain"
)

// SnapshotRepositoryImpl implements the SnapshotRepository interface
type SnapshotRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *pgxpool.Pool) domain.SnapshotRepository {
	return &SnapshotRepositoryImpl{db: db}
}

// Insert stores one snapshot
func (r *SnapshotRepositoryImpl) Insert(ctx context.Context, snapshot *domain.PortfolioSnapshot) error {
	query := `
		INSERT INTO portfolio_snapshots (id, user_id, total_value, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		snapshot.ID,
		snapshot.UserID,
		snapshot.TotalValue,
		snapshot.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

// ListByUser retrieves the most recent snapshots for a user
func (r *SnapshotRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.PortfolioSnapshot, error) {
	query := `
		SELECT id, user_id, total_value, created_at
		FROM portfolio_snapshots
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.PortfolioSnapshot
	for rows.Next() {
		snapshot := &domain.PortfolioSnapshot{}
		err := rows.Scan(
			&snapshot.ID,
			&snapshot.UserID,
			&snapshot.TotalValue,
			&snapshot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}
