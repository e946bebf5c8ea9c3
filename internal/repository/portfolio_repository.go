package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finedge/internal/domain"
)

// PortfolioRepositoryImpl implements the PortfolioRepository interface
type PortfolioRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewPortfolioRepository creates a new PortfolioRepository
func NewPortfolioRepository(db *pgxpool.Pool) domain.PortfolioRepository {
	return &PortfolioRepositoryImpl{db: db}
}

// Create creates a new portfolio
func (r *PortfolioRepositoryImpl) Create(ctx context.Context, portfolio *domain.Portfolio) error {
	query := `
		INSERT INTO portfolios (id, user_id, cash_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		portfolio.ID,
		portfolio.UserID,
		portfolio.CashBalance,
		portfolio.CreatedAt,
		portfolio.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}

	return nil
}

// GetByUserID retrieves a user's portfolio
func (r *PortfolioRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Portfolio, error) {
	query := `
		SELECT id, user_id, cash_balance, created_at, updated_at
		FROM portfolios
		WHERE user_id = $1
	`

	portfolio := &domain.Portfolio{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&portfolio.ID,
		&portfolio.UserID,
		&portfolio.CashBalance,
		&portfolio.CreatedAt,
		&portfolio.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPortfolioNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	return portfolio, nil
}

// List retrieves all portfolios
func (r *PortfolioRepositoryImpl) List(ctx context.Context) ([]*domain.Portfolio, error) {
	query := `
		SELECT id, user_id, cash_balance, created_at, updated_at
		FROM portfolios
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []*domain.Portfolio
	for rows.Next() {
		portfolio := &domain.Portfolio{}
		err := rows.Scan(
			&portfolio.ID,
			&portfolio.UserID,
			&portfolio.CashBalance,
			&portfolio.CreatedAt,
			&portfolio.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, portfolio)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios: %w", err)
	}

	return portfolios, nil
}
