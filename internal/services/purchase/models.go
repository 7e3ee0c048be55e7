package purchase

// CreateInput is the request payload for registering a purchase. Status is
// declared so that a client-supplied value can be rejected: the initial
// status is always server-assigned.
type CreateInput struct {
	Cod    string   `json:"cod"`
	Value  *float64 `json:"value"`
	Date   string   `json:"date"`
	CPF    string   `json:"cpf"`
	Status string   `json:"status,omitempty"`
}

// UpdateInput is the request payload for updating a purchase. Value and
// Date are optional; absent fields are left untouched. CPF is mandatory
// because purchases are addressed by (cod, cpf).
type UpdateInput struct {
	Cod    string   `json:"cod"`
	Value  *float64 `json:"value,omitempty"`
	Date   string   `json:"date,omitempty"`
	CPF    string   `json:"cpf"`
	Status string   `json:"status,omitempty"`
}
