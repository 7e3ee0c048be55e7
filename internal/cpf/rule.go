package cpf

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var errInvalid = errors.New("invalid identifier")

// Rule is an ozzo-validation rule that accepts formatted or plain
// identifiers and rejects anything Normalize+IsValid rejects. Empty values
// are left to validation.Required.
func Rule() validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if !IsValid(s) {
			return errInvalid
		}
		return nil
	})
}
