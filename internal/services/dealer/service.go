// Package dealer owns dealer identity: registration and existence checks.
// Email and identifier uniqueness is enforced by the persistence layer's
// unique indexes and surfaces here as a conflict error, not re-validated.
package dealer

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "cashback-backend/internal/common/errors"
	"cashback-backend/internal/common/logger"
	"cashback-backend/internal/cpf"
	"cashback-backend/internal/models"
	"cashback-backend/internal/ports"
)

type Service struct {
	dealers ports.DealerRepository
	hasher  ports.Hasher
	logger  logger.Logger
}

func NewService(dealers ports.DealerRepository, hasher ports.Hasher, log logger.Logger) *Service {
	return &Service{
		dealers: dealers,
		hasher:  hasher,
		logger:  log.WithFields(map[string]interface{}{"service": "dealer"}),
	}
}

// Register validates the payload, hashes the credential and persists the
// dealer. The returned view never carries the credential hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.DealerView, error) {
	in.CPF = cpf.Normalize(in.CPF)
	if err := in.Validate(); err != nil {
		return nil, apperrors.FromValidation(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash credential", err)
	}

	now := time.Now().UTC()
	d := &models.Dealer{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		CPF:          in.CPF,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.dealers.Save(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("dealer registered", map[string]interface{}{"cpf": d.CPF})
	view := d.PublicView()
	return &view, nil
}

// Exists reports whether exactly one non-deleted dealer matches the
// normalized identifier.
func (s *Service) Exists(ctx context.Context, rawCPF string) (bool, error) {
	count, err := s.dealers.CountByCPF(ctx, cpf.Normalize(rawCPF))
	if err != nil {
		return false, err
	}
	return count == 1, nil
}
