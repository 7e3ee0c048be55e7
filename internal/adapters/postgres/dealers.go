// Package postgres implements the repository ports on database/sql with the
// lib/pq driver. Records are soft-deleted; every query filters deleted rows,
// and the partial unique indexes only cover live rows.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "cashback-backend/internal/common/errors"
	"cashback-backend/internal/models"
)

const (
	constraintDealerEmail = "dealers_email_unique"
	constraintDealerCPF   = "dealers_cpf_unique"
)

type DealerRepository struct {
	db *sql.DB
}

func NewDealerRepository(db *sql.DB) *DealerRepository {
	return &DealerRepository{db: db}
}

func (r *DealerRepository) Save(ctx context.Context, d *models.Dealer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dealers (id, name, email, cpf, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.Name, d.Email, d.CPF, d.PasswordHash, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if conflict := conflictFor(err, map[string][]apperrors.FieldError{
			constraintDealerEmail: {{Field: "email", Message: "already exists", Value: d.Email}},
			constraintDealerCPF:   {{Field: "cpf", Message: "already exists", Value: d.CPF}},
		}); conflict != nil {
			return conflict
		}
		return fmt.Errorf("insert dealer: %w", err)
	}
	return nil
}

func (r *DealerRepository) FindByEmail(ctx context.Context, email string) (*models.Dealer, error) {
	var d models.Dealer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, cpf, password_hash, created_at, updated_at
		FROM dealers
		WHERE email = $1 AND deleted_at IS NULL`, email).Scan(
		&d.ID, &d.Name, &d.Email, &d.CPF, &d.PasswordHash, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find dealer by email: %w", err)
	}
	return &d, nil
}

func (r *DealerRepository) CountByCPF(ctx context.Context, cpf string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM dealers
		WHERE cpf = $1 AND deleted_at IS NULL`, cpf).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count dealers by cpf: %w", err)
	}
	return count, nil
}
