package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "cashback-backend/internal/common/errors"
	"cashback-backend/internal/models"
)

const constraintPurchaseCodCPF = "purchases_cod_cpf_unique"

type PurchaseRepository struct {
	db *sql.DB
}

func NewPurchaseRepository(db *sql.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Save(ctx context.Context, p *models.Purchase) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO purchases (id, cod, value, date, cpf, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Cod, p.Value, p.Date, p.CPF, string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if conflict := conflictFor(err, map[string][]apperrors.FieldError{
			constraintPurchaseCodCPF: {
				{Field: "cod", Message: "already exists", Value: p.Cod},
				{Field: "cpf", Message: "already exists", Value: p.CPF},
			},
		}); conflict != nil {
			return conflict
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepository) FindByCodAndCPF(ctx context.Context, cod, cpf string) (*models.Purchase, error) {
	var p models.Purchase
	var status string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, cod, value, date, cpf, status, created_at, updated_at
		FROM purchases
		WHERE cod = $1 AND cpf = $2 AND deleted_at IS NULL`, cod, cpf).Scan(
		&p.ID, &p.Cod, &p.Value, &p.Date, &p.CPF, &status, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find purchase: %w", err)
	}
	p.Status = models.PurchaseStatus(status)
	return &p, nil
}

func (r *PurchaseRepository) FindAllByCPF(ctx context.Context, cpf string) ([]models.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cod, value, date, cpf, status, created_at, updated_at
		FROM purchases
		WHERE cpf = $1 AND deleted_at IS NULL
		ORDER BY created_at, id`, cpf)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		var status string
		if err := rows.Scan(&p.ID, &p.Cod, &p.Value, &p.Date, &p.CPF, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p.Status = models.PurchaseStatus(status)
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, nil
}

// UpdateWhereValidating writes the mutable fields in a single conditional
// statement: the row is only touched while it is still awaiting validation,
// so the state check and the update cannot race.
func (r *PurchaseRepository) UpdateWhereValidating(ctx context.Context, p *models.Purchase) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE purchases
		SET value = $1, date = $2, updated_at = $3
		WHERE cod = $4 AND cpf = $5 AND status = $6 AND deleted_at IS NULL`,
		p.Value, p.Date, p.UpdatedAt, p.Cod, p.CPF, string(models.StatusValidating),
	)
	if err != nil {
		return false, fmt.Errorf("update purchase: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update purchase: %w", err)
	}
	return affected > 0, nil
}

// RemoveWhereValidating soft-deletes the purchase under the same
// conditional-write guarantee as UpdateWhereValidating.
func (r *PurchaseRepository) RemoveWhereValidating(ctx context.Context, cod, cpf string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE purchases
		SET deleted_at = NOW()
		WHERE cod = $1 AND cpf = $2 AND status = $3 AND deleted_at IS NULL`,
		cod, cpf, string(models.StatusValidating),
	)
	if err != nil {
		return false, fmt.Errorf("remove purchase: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove purchase: %w", err)
	}
	return affected > 0, nil
}
