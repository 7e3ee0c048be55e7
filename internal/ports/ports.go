package ports

import "cashback-backend/internal/models"

// Hasher is the one-way credential hashing collaborator.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, hash string) bool
}

// TokenIssuer mints an access token for an authenticated dealer.
type TokenIssuer interface {
	Issue(dealer *models.Dealer) (string, error)
}
