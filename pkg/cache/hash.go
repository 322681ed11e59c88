package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey derives a namespaced cache key from arbitrary components, for
// example ("artifact", graphHash, "png", 2.0). The components are
// JSON-encoded and hashed together, so float options and strings mix
// freely without delimiter ambiguity. Key format: prefix:hexdigest.
func hashKey(prefix string, parts ...any) string {
	encoded, _ := json.Marshal(parts)
	sum := sha256.Sum256(encoded)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 digest of data. Callers hash the raw
// serialized .fchart document, which makes the digest stable across
// sessions: saving and reloading an unchanged flowchart produces the
// same artifact keys and the cached renders stay warm.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
