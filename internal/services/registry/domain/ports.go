package domain

import (
	"context"

	"linkmill/internal/core/catalog"
)

// RegistryPort is the platform catalog surface other modules consume
type RegistryPort interface {
	// List returns the entries passing the filter, ordered by id
	List(ctx context.Context, f Filter) ([]catalog.Entry, error)

	// GetByID returns one entry by its catalog id
	GetByID(ctx context.Context, id string) (catalog.Entry, error)

	// Resolve normalizes ref as a domain and returns the matching entry.
	// Aliases and unicode variants resolve to the same entry as the
	// canonical domain
	Resolve(ctx context.Context, ref string) (catalog.Entry, error)

	// Reload re-seeds the registry from the embedded catalog plus any extra
	// source documents and returns how many entries are live
	Reload(ctx context.Context, extra ...[]byte) (int, error)
}
