package browsertoken

import "context"

// Store persists one bearer token per browser id.
type Store interface {
	Get(ctx context.Context, browserID string) (string, error)
	Save(ctx context.Context, browserID, token string) error
	Delete(ctx context.Context, browserID string) error
}
