package models

import "time"

// Dealer is the stored dealer identity record. Email and CPF are each
// unique among non-deleted dealers. PasswordHash never leaves the process;
// outward serialization goes through PublicView.
type Dealer struct {
	ID           string
	Name         string
	Email        string
	CPF          string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// DealerView is the public projection of a dealer. It is the only dealer
// shape the API layer serializes.
type DealerView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CPF       string    `json:"cpf"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicView projects the dealer onto its externally visible fields.
func (d *Dealer) PublicView() DealerView {
	return DealerView{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		CPF:       d.CPF,
		CreatedAt: d.CreatedAt,
	}
}
