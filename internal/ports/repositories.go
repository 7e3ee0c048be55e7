package ports

import (
	"context"

	"cashback-backend/internal/models"
)

// DealerRepository persists dealer identity records. Save surfaces unique
// index violations (email, cpf) as structured conflict errors.
type DealerRepository interface {
	Save(ctx context.Context, dealer *models.Dealer) error
	FindByEmail(ctx context.Context, email string) (*models.Dealer, error)
	CountByCPF(ctx context.Context, cpf string) (int, error)
}

// PurchaseRepository persists purchase records. Save surfaces the (cod, cpf)
// unique index violation as a structured conflict error. The *WhereValidating
// methods are conditional writes: they only take effect while the purchase is
// still awaiting validation, and report whether a row was affected, so the
// state check and the write are a single statement at the database.
type PurchaseRepository interface {
	Save(ctx context.Context, purchase *models.Purchase) error
	FindByCodAndCPF(ctx context.Context, cod, cpf string) (*models.Purchase, error)
	FindAllByCPF(ctx context.Context, cpf string) ([]models.Purchase, error)
	UpdateWhereValidating(ctx context.Context, purchase *models.Purchase) (bool, error)
	RemoveWhereValidating(ctx context.Context, cod, cpf string) (bool, error)
}
