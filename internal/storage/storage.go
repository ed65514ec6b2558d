package storage

import (
	"context"
	"errors"
)

// Well-known object key layout. The index lives under version-suffixed keys
// next to the per-menu documents; see service.IndexManager.
const (
	MenuKeyPrefix  = "menus/"
	MenuKeySuffix  = ".json"
	IndexKeyPrefix = "menus/index"
)

// MenuObjectKey derives the nominal object key for a menu id. The URL the
// store returns on write is still authoritative and may differ.
func MenuObjectKey(id string) string {
	return MenuKeyPrefix + id + MenuKeySuffix
}

// ErrObjectNotFound is returned by Read when the URL does not resolve to a
// stored object.
var ErrObjectNotFound = errors.New("object not found in storage")

// ObjectStorage defines the interface for bulk JSON document storage.
type ObjectStorage interface {
	// Write stores the document under the given key and returns the URL the
	// object is fetchable at. Callers must treat the URL as opaque and
	// authoritative rather than re-deriving it from the key.
	Write(ctx context.Context, key string, data []byte) (string, error)

	// Read fetches the document at a URL previously returned by Write.
	Read(ctx context.Context, url string) ([]byte, error)
}
