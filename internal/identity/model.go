package identity

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotOwned indicates a transaction targeted an account outside
	// the initiating client's collection.
	ErrAccountNotOwned = errors.New("account does not belong to client")

	// ErrDuplicateClient indicates a registration with an identity already in use.
	ErrDuplicateClient = errors.New("client already registered")

	// ErrClientNotFound indicates no client matches the lookup.
	ErrClientNotFound = errors.New("client not found")

	// ErrInvalidRegistration indicates missing registration data.
	ErrInvalidRegistration = errors.New("invalid registration")
)

// unidentified is reported as owner id for clients without a natural-person identity.
const unidentified = "N/A"

// Person is the identity of a natural-person client.
type Person struct {
	TaxID     string
	FullName  string
	BirthDate string
}

// RegisterInput captures the data required to register a natural person.
type RegisterInput struct {
	TaxID     string
	FullName  string
	BirthDate string
	Address   string
}

// Profile is a read-only view of a client.
type Profile struct {
	TaxID        string    `json:"tax_id"`
	FullName     string    `json:"full_name"`
	BirthDate    string    `json:"birth_date"`
	Address      string    `json:"address"`
	AccountCount int       `json:"account_count"`
	CreatedAt    time.Time `json:"created_at"`
}
