// Package auth authenticates dealers by email and credential and issues
// access tokens.
package auth

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	apperrors "cashback-backend/internal/common/errors"
	"cashback-backend/internal/common/logger"
	"cashback-backend/internal/models"
	"cashback-backend/internal/ports"
)

// A single stable message for both unknown email and wrong password, so the
// response does not leak which one failed.
const msgInvalidCredentials = "invalid email or password"

// LoginInput is the login request payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required),
	)
}

// LoginOutput is the authenticated dealer's public view plus the token.
type LoginOutput struct {
	Dealer models.DealerView `json:"dealer"`
	Token  string            `json:"token"`
}

type Service struct {
	dealers ports.DealerRepository
	hasher  ports.Hasher
	tokens  ports.TokenIssuer
	logger  logger.Logger
}

func NewService(dealers ports.DealerRepository, hasher ports.Hasher, tokens ports.TokenIssuer, log logger.Logger) *Service {
	return &Service{
		dealers: dealers,
		hasher:  hasher,
		tokens:  tokens,
		logger:  log.WithFields(map[string]interface{}{"service": "auth"}),
	}
}

// Login verifies the credential against the stored hash and issues a token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.FromValidation(err)
	}

	d, err := s.dealers.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if d == nil || !s.hasher.Compare(in.Password, d.PasswordHash) {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(d)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}

	s.logger.Info("dealer authenticated", map[string]interface{}{"dealerId": d.ID})
	return &LoginOutput{Dealer: d.PublicView(), Token: token}, nil
}
