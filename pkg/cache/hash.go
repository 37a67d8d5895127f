package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/goccy/go-json"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ReplayKey is the key for the parsed form of a replay file.
// replayHash is [Hash] of the raw replay bytes.
func ReplayKey(replayHash, parserCommand string) string {
	return hashKey("replay", replayHash, parserCommand)
}

// LayoutKeyOpts lists the spring parameters that change a computed layout.
type LayoutKeyOpts struct {
	K          float64 `json:"k"`
	Iterations int     `json:"iterations"`
	Seed       uint64  `json:"seed"`
}

// LayoutKey is the key for the layout of a tech graph. graphHash is [Hash]
// of the graph's serialized nodes and edges, so build options such as the
// time mode are already part of it.
func LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}
