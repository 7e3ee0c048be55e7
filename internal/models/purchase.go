package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus is the review state of a purchase. VALIDATING is the only
// state in which a purchase may be updated or removed; APPROVED and INVALID
// are terminal.
type PurchaseStatus string

const (
	StatusValidating PurchaseStatus = "VALIDATING"
	StatusApproved   PurchaseStatus = "APPROVED"
	StatusInvalid    PurchaseStatus = "INVALID"
)

// Display returns the stable externally visible label for the status.
func (s PurchaseStatus) Display() string {
	switch s {
	case StatusValidating:
		return "awaiting validation"
	case StatusApproved:
		return "approved"
	case StatusInvalid:
		return "invalid"
	}
	return string(s)
}

// Purchase is the stored purchase record. The pair (Cod, CPF) is unique
// among non-deleted purchases.
type Purchase struct {
	ID        string          `json:"id"`
	Cod       string          `json:"cod"`
	Value     decimal.Decimal `json:"value"`
	Date      string          `json:"date"` // DD/MM/YYYY
	CPF       string          `json:"cpf"`
	Status    PurchaseStatus  `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *time.Time      `json:"-"`
}

// PurchaseView is the listing projection of a purchase with the cashback
// rule applied.
type PurchaseView struct {
	Cod               string  `json:"cod"`
	Value             float64 `json:"value"`
	Date              string  `json:"date"`
	AppliedPercentage string  `json:"appliedPercentage"`
	Cashback          float64 `json:"cashback"`
	Status            string  `json:"status"`
}
