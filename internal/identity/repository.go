package identity

import "context"

// Repository stores registered clients keyed by tax id.
type Repository interface {
	Create(ctx context.Context, client *Client) error
	FindByTaxID(ctx context.Context, taxID string) (*Client, error)
	List(ctx context.Context) ([]*Client, error)
}
