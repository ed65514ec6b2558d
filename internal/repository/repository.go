package repository

import "context"

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("version conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Key under which the current index document's URL is published.
const IndexPointerKey = "menu-index-url"

// Pointer is a versioned key-value cell. The version increases by one on
// every successful write and backs the optimistic concurrency check.
type Pointer struct {
	Value   string
	Version int64
}

// PointerRepository defines the interface for the pointer store: a handful
// of named cells, of which this system uses exactly one (IndexPointerKey).
type PointerRepository interface {
	// Get returns the current value and version of a cell, or ErrNotFound
	// when the cell has never been written.
	Get(ctx context.Context, key string) (Pointer, error)

	// CompareAndSet writes value iff the cell is still at expectedVersion
	// (0 meaning "never written"). A lost race returns ErrConflict.
	CompareAndSet(ctx context.Context, key, value string, expectedVersion int64) error
}
