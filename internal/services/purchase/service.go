// Package purchase implements the purchase lifecycle: creation with
// server-assigned review status, partial updates and removal (both only
// while the purchase is awaiting validation), and cashback-applied listing.
package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cashback-backend/internal/cashback"
	apperrors "cashback-backend/internal/common/errors"
	"cashback-backend/internal/common/logger"
	"cashback-backend/internal/common/metrics"
	"cashback-backend/internal/cpf"
	"cashback-backend/internal/models"
	"cashback-backend/internal/ports"
)

// msgNotValidating is the fixed literal raised when update or remove hits a
// purchase that already left the awaiting-validation state. It is part of
// the external contract and must not change.
const msgNotValidating = `operation not permitted, purchase status is not "awaiting validation"`

type Service struct {
	purchases ports.PurchaseRepository
	dealers   ports.DealerRepository
	tiers     []cashback.Tier
	allowList map[string]struct{}
	logger    logger.Logger
}

// NewService wires the lifecycle manager. tiers and allowList are read-only
// after construction; allowList entries are expected to be normalized.
func NewService(purchases ports.PurchaseRepository, dealers ports.DealerRepository, tiers []cashback.Tier, allowList []string, log logger.Logger) *Service {
	allow := make(map[string]struct{}, len(allowList))
	for _, id := range allowList {
		allow[cpf.Normalize(id)] = struct{}{}
	}
	return &Service{
		purchases: purchases,
		dealers:   dealers,
		tiers:     tiers,
		allowList: allow,
		logger:    log.WithFields(map[string]interface{}{"service": "purchase"}),
	}
}

// resolveInitialStatus auto-approves purchases from allow-listed
// identifiers; everything else enters manual validation. INVALID is never
// produced here.
func (s *Service) resolveInitialStatus(normalizedCPF string) models.PurchaseStatus {
	if _, ok := s.allowList[normalizedCPF]; ok {
		return models.StatusApproved
	}
	return models.StatusValidating
}

// Create validates the payload, checks the dealer exists, resolves the
// initial status and persists the purchase. Validation happens before any
// write; a uniqueness violation on (cod, cpf) surfaces as a conflict error
// from the repository.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Purchase, error) {
	in.CPF = cpf.Normalize(in.CPF)
	if err := in.Validate(); err != nil {
		return nil, apperrors.FromValidation(err)
	}

	count, err := s.dealers.CountByCPF(ctx, in.CPF)
	if err != nil {
		return nil, err
	}
	if count != 1 {
		return nil, apperrors.DependencyNotFound(
			fmt.Sprintf("cannot create purchase, dealer with cpf %s does not exist", in.CPF))
	}

	now := time.Now().UTC()
	p := &models.Purchase{
		ID:        uuid.NewString(),
		Cod:       in.Cod,
		Value:     decimal.NewFromFloat(*in.Value),
		Date:      in.Date,
		CPF:       in.CPF,
		Status:    s.resolveInitialStatus(in.CPF),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.purchases.Save(ctx, p); err != nil {
		return nil, err
	}

	metrics.PurchasesCreated.WithLabelValues(string(p.Status)).Inc()
	s.logger.Info("purchase created", map[string]interface{}{
		"cod":    p.Cod,
		"cpf":    p.CPF,
		"status": string(p.Status),
	})
	return p, nil
}

// Update applies the fields present in the payload to a purchase that is
// still awaiting validation. Omitted fields are left untouched. The state
// check is repeated by the conditional write, so a purchase approved
// between the read and the write is not modified.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*models.Purchase, error) {
	in.CPF = cpf.Normalize(in.CPF)
	if err := in.Validate(); err != nil {
		return nil, apperrors.FromValidation(err)
	}

	p, err := s.purchases.FindByCodAndCPF(ctx, in.Cod, in.CPF)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("no purchase found with code: %s", in.Cod))
	}
	if p.Status != models.StatusValidating {
		return nil, apperrors.InvalidState(msgNotValidating)
	}

	if in.Value != nil {
		p.Value = decimal.NewFromFloat(*in.Value)
	}
	if in.Date != "" {
		p.Date = in.Date
	}
	p.UpdatedAt = time.Now().UTC()

	updated, err := s.purchases.UpdateWhereValidating(ctx, p)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost the race: a concurrent writer moved the purchase out of the
		// awaiting-validation state.
		return nil, apperrors.InvalidState(msgNotValidating)
	}

	s.logger.Info("purchase updated", map[string]interface{}{"cod": p.Cod, "cpf": p.CPF})
	return p, nil
}

// Remove soft-deletes a purchase that is still awaiting validation.
func (s *Service) Remove(ctx context.Context, rawCPF, cod string) error {
	id := cpf.Normalize(rawCPF)
	if id == "" || !cpf.IsValid(id) {
		return apperrors.Validation("invalid identifier")
	}
	if cod == "" {
		return apperrors.Validation("invalid code")
	}

	p, err := s.purchases.FindByCodAndCPF(ctx, cod, id)
	if err != nil {
		return err
	}
	if p == nil {
		return apperrors.NotFound(fmt.Sprintf("no purchase found with code: %s", cod))
	}
	if p.Status != models.StatusValidating {
		return apperrors.InvalidState(msgNotValidating)
	}

	removed, err := s.purchases.RemoveWhereValidating(ctx, cod, id)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.Internal("failed to delete purchase", nil)
	}

	s.logger.Info("purchase removed", map[string]interface{}{"cod": cod, "cpf": id})
	return nil
}

// FindAll lists every purchase of the identifier, any status, with the
// cashback rule applied to each. Order follows retrieval order.
func (s *Service) FindAll(ctx context.Context, rawCPF string) ([]models.PurchaseView, error) {
	id := cpf.Normalize(rawCPF)
	if !cpf.IsValid(id) {
		return nil, apperrors.Validation("invalid identifier")
	}

	purchases, err := s.purchases.FindAllByCPF(ctx, id)
	if err != nil {
		return nil, err
	}

	views := make([]models.PurchaseView, 0, len(purchases))
	for _, p := range purchases {
		res := cashback.Apply(p.Value, s.tiers)
		views = append(views, models.PurchaseView{
			Cod:               p.Cod,
			Value:             p.Value.InexactFloat64(),
			Date:              p.Date,
			AppliedPercentage: res.AppliedPercentage,
			Cashback:          res.Amount.InexactFloat64(),
			Status:            p.Status.Display(),
		})
	}
	return views, nil
}
