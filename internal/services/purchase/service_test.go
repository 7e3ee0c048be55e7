package purchase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cashback-backend/internal/cashback"
	apperrors "cashback-backend/internal/common/errors"
	"cashback-backend/internal/common/logger"
	"cashback-backend/internal/models"
)

// ==========================
// Mock Repositories
// ==========================

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) Save(ctx context.Context, p *models.Purchase) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPurchaseRepository) FindByCodAndCPF(ctx context.Context, cod, cpf string) (*models.Purchase, error) {
	args := m.Called(ctx, cod, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindAllByCPF(ctx context.Context, cpf string) ([]models.Purchase, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) UpdateWhereValidating(ctx context.Context, p *models.Purchase) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) RemoveWhereValidating(ctx context.Context, cod, cpf string) (bool, error) {
	args := m.Called(ctx, cod, cpf)
	return args.Bool(0), args.Error(1)
}

type MockDealerRepository struct {
	mock.Mock
}

func (m *MockDealerRepository) Save(ctx context.Context, d *models.Dealer) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDealerRepository) FindByEmail(ctx context.Context, email string) (*models.Dealer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dealer), args.Error(1)
}

func (m *MockDealerRepository) CountByCPF(ctx context.Context, cpf string) (int, error) {
	args := m.Called(ctx, cpf)
	return args.Int(0), args.Error(1)
}

// ==========================
// Test Helpers
// ==========================

const (
	validCPF          = "93106789093"
	validFormattedCPF = "931.067.890-93"
	allowListedCPF    = "26121932007"
)

func floatPtr(v float64) *float64 { return &v }

func newTestService(t *testing.T, purchases *MockPurchaseRepository, dealers *MockDealerRepository) *Service {
	t.Helper()
	return NewService(purchases, dealers, cashback.DefaultTiers(), []string{allowListedCPF}, logger.NewTestLogger(t))
}

func validCreateInput() CreateInput {
	return CreateInput{
		Cod:   "PO-100",
		Value: floatPtr(150.50),
		Date:  "10/01/2026",
		CPF:   validFormattedCPF,
	}
}

func storedPurchase(status models.PurchaseStatus) *models.Purchase {
	return &models.Purchase{
		ID:        "b7a8c2ee-0000-4000-8000-000000000001",
		Cod:       "PO-100",
		Value:     decimal.NewFromFloat(150.50),
		Date:      "10/01/2026",
		CPF:       validCPF,
		Status:    status,
		CreatedAt: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
	}
}

// ==========================
// Create
// ==========================

func TestCreate(t *testing.T) {
	t.Run("persists with VALIDATING status and normalized cpf", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		dealers := new(MockDealerRepository)
		svc := newTestService(t, purchases, dealers)

		dealers.On("CountByCPF", mock.Anything, validCPF).Return(1, nil)
		purchases.On("Save", mock.Anything, mock.MatchedBy(func(p *models.Purchase) bool {
			return p.CPF == validCPF && p.Status == models.StatusValidating && p.ID != ""
		})).Return(nil)

		p, err := svc.Create(context.Background(), validCreateInput())
		require.NoError(t, err)
		assert.Equal(t, validCPF, p.CPF)
		assert.Equal(t, models.StatusValidating, p.Status)
		assert.True(t, p.Value.Equal(decimal.NewFromFloat(150.50)))
		purchases.AssertExpectations(t)
		dealers.AssertExpectations(t)
	})

	t.Run("allow-listed cpf is auto-approved", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		dealers := new(MockDealerRepository)
		svc := newTestService(t, purchases, dealers)

		in := validCreateInput()
		in.CPF = "261.219.320-07"

		dealers.On("CountByCPF", mock.Anything, allowListedCPF).Return(1, nil)
		purchases.On("Save", mock.Anything, mock.MatchedBy(func(p *models.Purchase) bool {
			return p.Status == models.StatusApproved
		})).Return(nil)

		p, err := svc.Create(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, p.Status)
	})

	t.Run("client-supplied status is rejected", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		dealers := new(MockDealerRepository)
		svc := newTestService(t, purchases, dealers)

		in := validCreateInput()
		in.Status = "APPROVED"

		_, err := svc.Create(context.Background(), in)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		purchases.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		dealers.AssertNotCalled(t, "CountByCPF", mock.Anything, mock.Anything)
	})

	t.Run("unknown dealer fails with the cpf in the message", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		dealers := new(MockDealerRepository)
		svc := newTestService(t, purchases, dealers)

		dealers.On("CountByCPF", mock.Anything, validCPF).Return(0, nil)

		_, err := svc.Create(context.Background(), validCreateInput())
		require.Error(t, err)
		assert.Equal(t, apperrors.KindDependencyNotFound, apperrors.KindOf(err))
		assert.Contains(t, err.Error(), validCPF)
		purchases.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("field validation failures", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(in *CreateInput)
		}{
			{name: "empty cod", mutate: func(in *CreateInput) { in.Cod = "" }},
			{name: "missing value", mutate: func(in *CreateInput) { in.Value = nil }},
			{name: "negative value", mutate: func(in *CreateInput) { in.Value = floatPtr(-1) }},
			{name: "three decimal places", mutate: func(in *CreateInput) { in.Value = floatPtr(10.555) }},
			{name: "bad date", mutate: func(in *CreateInput) { in.Date = "2026-01-10" }},
			{name: "impossible date", mutate: func(in *CreateInput) { in.Date = "31/02/2026" }},
			{name: "bad cpf", mutate: func(in *CreateInput) { in.CPF = "11111111111" }},
			{name: "empty cpf", mutate: func(in *CreateInput) { in.CPF = "" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				purchases := new(MockPurchaseRepository)
				dealers := new(MockDealerRepository)
				svc := newTestService(t, purchases, dealers)

				in := validCreateInput()
				tt.mutate(&in)

				_, err := svc.Create(context.Background(), in)
				require.Error(t, err)
				assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
				purchases.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			})
		}
	})
}

// ==========================
// Update
// ==========================

func TestUpdate(t *testing.T) {
	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		dealers := new(MockDealerRepository)
		svc := newTestService(t, purchases, dealers)

		purchases.On("FindByCodAndCPF", mock.Anything, "PO-100", validCPF).
			Return(storedPurchase(models.StatusValidating), nil)
		purchases.On("UpdateWhereValidating", mock.Anything, mock.MatchedBy(func(p *models.Purchase) bool {
			return p.Value.Equal(decimal.NewFromInt(999)) && p.Date == "10/01/2026"
		})).Return(true, nil)

		p, err := svc.Update(context.Background(), UpdateInput{
			Cod:   "PO-100",
			CPF:   validFormattedCPF,
			Value: floatPtr(999),
		})
		require.NoError(t, err)
		assert.Equal(t, "10/01/2026", p.Date, "omitted date stays untouched")
		assert.True(t, p.Value.Equal(decimal.NewFromInt(999)))
	})

	t.Run("absent purchase fails with the cod in the message", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		dealers := new(MockDealerRepository)
		svc := newTestService(t, purchases, dealers)

		purchases.On("FindByCodAndCPF", mock.Anything, "PO-404", validCPF).Return(nil, nil)

		_, err := svc.Update(context.Background(), UpdateInput{Cod: "PO-404", CPF: validCPF})
		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
		assert.Contains(t, err.Error(), "PO-404")
	})

	t.Run("terminal statuses reject update with the fixed literal", func(t *testing.T) {
		for _, status := range []models.PurchaseStatus{models.StatusApproved, models.StatusInvalid} {
			t.Run(string(status), func(t *testing.T) {
				purchases := new(MockPurchaseRepository)
				dealers := new(MockDealerRepository)
				svc := newTestService(t, purchases, dealers)

				purchases.On("FindByCodAndCPF", mock.Anything, "PO-100", validCPF).
					Return(storedPurchase(status), nil)

				_, err := svc.Update(context.Background(), UpdateInput{Cod: "PO-100", CPF: validCPF, Value: floatPtr(1)})
				require.Error(t, err)
				assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
				assert.Equal(t, msgNotValidating, apperrors.AsError(err).Message)
				purchases.AssertNotCalled(t, "UpdateWhereValidating", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("lost conditional write reports invalid state", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		dealers := new(MockDealerRepository)
		svc := newTestService(t, purchases, dealers)

		purchases.On("FindByCodAndCPF", mock.Anything, "PO-100", validCPF).
			Return(storedPurchase(models.StatusValidating), nil)
		purchases.On("UpdateWhereValidating", mock.Anything, mock.Anything).Return(false, nil)

		_, err := svc.Update(context.Background(), UpdateInput{Cod: "PO-100", CPF: validCPF, Value: floatPtr(1)})
		require.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	})
}

// ==========================
// Remove
// ==========================

func TestRemove(t *testing.T) {
	t.Run("soft-deletes a validating purchase", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		dealers := new(MockDealerRepository)
		svc := newTestService(t, purchases, dealers)

		purchases.On("FindByCodAndCPF", mock.Anything, "PO-100", validCPF).
			Return(storedPurchase(models.StatusValidating), nil)
		purchases.On("RemoveWhereValidating", mock.Anything, "PO-100", validCPF).Return(true, nil)

		err := svc.Remove(context.Background(), validFormattedCPF, "PO-100")
		require.NoError(t, err)
		purchases.AssertExpectations(t)
	})

	t.Run("invalid identifier", func(t *testing.T) {
		svc := newTestService(t, new(MockPurchaseRepository), new(MockDealerRepository))

		err := svc.Remove(context.Background(), "123", "PO-100")
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		assert.Equal(t, "invalid identifier", apperrors.AsError(err).Message)

		err = svc.Remove(context.Background(), "", "PO-100")
		require.Error(t, err)
		assert.Equal(t, "invalid identifier", apperrors.AsError(err).Message)
	})

	t.Run("empty cod", func(t *testing.T) {
		svc := newTestService(t, new(MockPurchaseRepository), new(MockDealerRepository))

		err := svc.Remove(context.Background(), validCPF, "")
		require.Error(t, err)
		assert.Equal(t, "invalid code", apperrors.AsError(err).Message)
	})

	t.Run("terminal status rejects removal", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		dealers := new(MockDealerRepository)
		svc := newTestService(t, purchases, dealers)

		purchases.On("FindByCodAndCPF", mock.Anything, "PO-100", validCPF).
			Return(storedPurchase(models.StatusApproved), nil)

		err := svc.Remove(context.Background(), validCPF, "PO-100")
		require.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
		assert.Equal(t, msgNotValidating, apperrors.AsError(err).Message)
	})

	t.Run("no-op delete reports failure", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		dealers := new(MockDealerRepository)
		svc := newTestService(t, purchases, dealers)

		purchases.On("FindByCodAndCPF", mock.Anything, "PO-100", validCPF).
			Return(storedPurchase(models.StatusValidating), nil)
		purchases.On("RemoveWhereValidating", mock.Anything, "PO-100", validCPF).Return(false, nil)

		err := svc.Remove(context.Background(), validCPF, "PO-100")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete purchase")
	})
}

// ==========================
// FindAll
// ==========================

func TestFindAll(t *testing.T) {
	listing := []models.Purchase{
		{Cod: "A", Value: decimal.NewFromInt(100), Date: "01/01/2026", CPF: validCPF, Status: models.StatusValidating},
		{Cod: "B", Value: decimal.NewFromInt(1200), Date: "02/01/2026", CPF: validCPF, Status: models.StatusValidating},
		{Cod: "C", Value: decimal.NewFromInt(1800), Date: "03/01/2026", CPF: validCPF, Status: models.StatusValidating},
	}

	t.Run("applies tiers and status labels", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		dealers := new(MockDealerRepository)
		svc := newTestService(t, purchases, dealers)

		purchases.On("FindAllByCPF", mock.Anything, validCPF).Return(listing, nil)

		views, err := svc.FindAll(context.Background(), validFormattedCPF)
		require.NoError(t, err)
		require.Len(t, views, 3)

		assert.Equal(t, "10%", views[0].AppliedPercentage)
		assert.Equal(t, float64(10), views[0].Cashback)
		assert.Equal(t, "15%", views[1].AppliedPercentage)
		assert.Equal(t, float64(180), views[1].Cashback)
		assert.Equal(t, "20%", views[2].AppliedPercentage)
		assert.Equal(t, float64(360), views[2].Cashback)

		for _, v := range views {
			assert.Equal(t, "awaiting validation", v.Status)
		}
	})

	t.Run("status labels for terminal states", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		dealers := new(MockDealerRepository)
		svc := newTestService(t, purchases, dealers)

		purchases.On("FindAllByCPF", mock.Anything, validCPF).Return([]models.Purchase{
			{Cod: "A", Value: decimal.NewFromInt(10), Status: models.StatusApproved},
			{Cod: "B", Value: decimal.NewFromInt(10), Status: models.StatusInvalid},
		}, nil)

		views, err := svc.FindAll(context.Background(), validCPF)
		require.NoError(t, err)
		assert.Equal(t, "approved", views[0].Status)
		assert.Equal(t, "invalid", views[1].Status)
	})

	t.Run("idempotent without mutation", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		dealers := new(MockDealerRepository)
		svc := newTestService(t, purchases, dealers)

		purchases.On("FindAllByCPF", mock.Anything, validCPF).Return(listing, nil)

		first, err := svc.FindAll(context.Background(), validCPF)
		require.NoError(t, err)
		second, err := svc.FindAll(context.Background(), validCPF)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("invalid identifier", func(t *testing.T) {
		svc := newTestService(t, new(MockPurchaseRepository), new(MockDealerRepository))

		_, err := svc.FindAll(context.Background(), "not-a-cpf")
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})
}
