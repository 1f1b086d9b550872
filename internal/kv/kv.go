// Package kv provides the key-value persistence primitive the content store
// runs on: whole values read and written under a single key, no partial
// updates. Backends: Redis (remote), a single JSON file (local replica) and
// an in-memory map (tests).
package kv

import "context"

type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set overwrites the value under key.
	Set(ctx context.Context, key string, value []byte) error
}
