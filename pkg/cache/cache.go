// Package cache provides the key-value caching layer used for serialized
// display trees and looked-up concepts.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that every backend uses the same
// namespace layout; [ScopedKeyer] adds a tenant prefix.
package cache

import (
	"context"
	"time"
)

// TTLs per cached item type.
const (
	// TTLTree bounds how long a converted tree stays valid. Sources can change
	// underneath, so trees are kept for a day.
	TTLTree = 24 * time.Hour

	// TTLConcept bounds how long a looked-up concept stays valid.
	TTLConcept = 7 * 24 * time.Hour
)

// Cache stores opaque byte payloads by key.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache never stores anything. It backs --no-cache and is the fallback
// when no cache directory exists.
type NullCache struct{}

// NewNullCache returns a cache with caching disabled.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
