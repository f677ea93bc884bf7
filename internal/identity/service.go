package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/congo-pay/banco/internal/account"
	"github.com/congo-pay/banco/internal/audit"
)

// Service manages client registration.
type Service struct {
	repo    Repository
	numbers *account.Sequence
	policy  account.Policy
	hook    audit.Hook
}

// NewService creates a registration service. All clients it registers share
// numbers, so account numbers are unique across the bank.
func NewService(repo Repository, numbers *account.Sequence, policy account.Policy, hook audit.Hook) *Service {
	if numbers == nil {
		numbers = account.NewSequence()
	}
	return &Service{repo: repo, numbers: numbers, policy: policy, hook: hook}
}

// Register creates a natural-person client. A tax id may only be registered once.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Client, error) {
	taxID := strings.TrimSpace(input.TaxID)
	if taxID == "" {
		return nil, fmt.Errorf("%w: tax id is required", ErrInvalidRegistration)
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidRegistration)
	}

	client := NewClient(ClientInput{
		Address: input.Address,
		Person: &Person{
			TaxID:     taxID,
			FullName:  strings.TrimSpace(input.FullName),
			BirthDate: input.BirthDate,
		},
		Numbers: s.numbers,
		Policy:  s.policy,
		Hook:    s.hook,
	})

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Find returns the client registered under taxID.
func (s *Service) Find(ctx context.Context, taxID string) (*Client, error) {
	return s.repo.FindByTaxID(ctx, strings.TrimSpace(taxID))
}

// Clients returns every registered client in registration order.
func (s *Service) Clients(ctx context.Context) ([]*Client, error) {
	return s.repo.List(ctx)
}
