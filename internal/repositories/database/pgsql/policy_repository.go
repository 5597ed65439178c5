package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/library_circulation_app/internal/apperrors"
	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_circulation_app/internal/core/ports/repositories"
	"github.com/SscSPs/library_circulation_app/internal/models"
	"github.com/SscSPs/library_circulation_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLoanPolicyRepository struct {
	pool *pgxpool.Pool
}

// newPgxLoanPolicyRepository creates a new repository for loan policy data.
func newPgxLoanPolicyRepository(pool *pgxpool.Pool) portsrepo.LoanPolicyRepositoryFacade {
	return &PgxLoanPolicyRepository{pool: pool}
}

// Ensure PgxLoanPolicyRepository implements portsrepo.LoanPolicyRepositoryFacade
var _ portsrepo.LoanPolicyRepositoryFacade = (*PgxLoanPolicyRepository)(nil)

const policyColumns = `item_type, loan_days, daily_fine_rate, created_at, created_by, last_updated_at, last_updated_by`

func scanPolicy(row pgx.Row) (models.LoanPolicy, error) {
	var m models.LoanPolicy
	err := row.Scan(
		&m.ItemType,
		&m.LoanDays,
		&m.DailyFineRate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindLoanPolicy retrieves the policy for an item type.
func (r *PgxLoanPolicyRepository) FindLoanPolicy(ctx context.Context, itemType domain.ItemType) (*domain.LoanPolicy, error) {
	query := fmt.Sprintf(`SELECT %s FROM loan_policies WHERE item_type = $1`, policyColumns)

	m, err := scanPolicy(r.pool.QueryRow(ctx, query, string(itemType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("loan policy for item type %s not found", itemType))
		}
		return nil, fmt.Errorf("failed to find loan policy for %s: %w", itemType, err)
	}
	d := mapping.ToDomainLoanPolicy(m)
	return &d, nil
}

// ListLoanPolicies retrieves all configured policies.
func (r *PgxLoanPolicyRepository) ListLoanPolicies(ctx context.Context) ([]domain.LoanPolicy, error) {
	query := fmt.Sprintf(`SELECT %s FROM loan_policies ORDER BY item_type ASC`, policyColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan policies: %w", err)
	}
	defer rows.Close()

	var policies []domain.LoanPolicy
	for rows.Next() {
		m, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan policy row: %w", err)
		}
		policies = append(policies, mapping.ToDomainLoanPolicy(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading loan policy rows: %w", err)
	}
	return policies, nil
}

// SaveLoanPolicy inserts or replaces the policy for an item type.
func (r *PgxLoanPolicyRepository) SaveLoanPolicy(ctx context.Context, policy domain.LoanPolicy) error {
	m := mapping.ToModelLoanPolicy(policy)

	query := `
		INSERT INTO loan_policies (item_type, loan_days, daily_fine_rate, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (item_type) DO UPDATE
		SET loan_days = EXCLUDED.loan_days,
		    daily_fine_rate = EXCLUDED.daily_fine_rate,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.pool.Exec(ctx, query,
		m.ItemType,
		m.LoanDays,
		m.DailyFineRate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save loan policy for %s: %w", m.ItemType, err)
	}
	return nil
}
