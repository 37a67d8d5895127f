// Package cache stores intermediate pipeline results between CLI runs.
//
// Parsing a raw replay means running an external parser and is by far the
// slowest stage, so its JSON output is cached under a key derived from the
// replay bytes and the parser command. Layouts are cached under a key derived
// from the built graph and the spring parameters, so a re-render
// with a different format or DPI skips the spring simulation.
//
// [FileCache] keeps entries under the user cache directory; [NullCache] turns
// caching off (the --no-cache flag).
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL is how long entries stay valid when the caller has no opinion.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// DefaultDir returns the cache directory: $XDG_CACHE_HOME/techpath, falling
// back to ~/.cache/techpath.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "techpath"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "techpath"), nil
}
