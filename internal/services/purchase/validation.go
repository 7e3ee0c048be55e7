package purchase

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"cashback-backend/internal/cpf"
)

const dateLayout = "02/01/2006"

var (
	errInvalidDate     = errors.New("invalid date")
	errTooManyDecimals = errors.New("must have at most 2 decimal places")
)

// dateRule accepts DD/MM/YYYY calendar dates.
func dateRule() validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if _, err := time.Parse(dateLayout, s); err != nil {
			return errInvalidDate
		}
		return nil
	})
}

// twoDecimalsRule rejects amounts with more than two fractional digits.
func twoDecimalsRule() validation.Rule {
	return validation.By(func(value interface{}) error {
		var v float64
		switch n := value.(type) {
		case float64:
			v = n
		case *float64:
			if n == nil {
				return nil
			}
			v = *n
		default:
			return nil
		}
		d := decimal.NewFromFloat(v)
		if !d.Equal(d.Round(2)) {
			return errTooManyDecimals
		}
		return nil
	})
}

// Validate checks the create payload. The status field must be absent:
// the initial status is never client-supplied.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Cod, validation.Required),
		validation.Field(&in.Value, validation.NotNil, validation.Min(0.0), twoDecimalsRule()),
		validation.Field(&in.Date, validation.Required, dateRule()),
		validation.Field(&in.CPF, validation.Required, cpf.Rule()),
		validation.Field(&in.Status, validation.Empty.Error("must not be provided")),
	)
}

// Validate checks the update payload. Value and Date are optional.
func (in UpdateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Cod, validation.Required),
		validation.Field(&in.Value, validation.Min(0.0), twoDecimalsRule()),
		validation.Field(&in.Date, dateRule()),
		validation.Field(&in.CPF, validation.Required, cpf.Rule()),
		validation.Field(&in.Status, validation.Empty.Error("must not be provided")),
	)
}
