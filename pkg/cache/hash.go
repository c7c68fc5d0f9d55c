package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// gridKey is the hashed identity of one rendered grid.
type gridKey struct {
	Text string `json:"text"`
	Font string `json:"font"`
}

// programKey is the hashed identity of one generated program.
type programKey struct {
	Grids string         `json:"grids"`
	Opts  ProgramKeyOpts `json:"opts"`
}

// keyOf returns prefix:sha256(json(v)). v is always one of the key structs
// above, which marshal without error.
func keyOf(prefix string, v any) string {
	data, _ := json.Marshal(v)
	return prefix + ":" + Hash(data)
}
