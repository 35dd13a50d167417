package tokenstore

import "context"

var (
	_ Persister = &FilePersister{}
	_ Persister = &MemoryPersister{}
)

// Persister stores a single refresh token.
type Persister interface {
	// Load returns the stored token, or "" when nothing is stored.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}
