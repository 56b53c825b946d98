package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey derives a stage key such as "layout:<sha256>" from the JSON
// encoding of the stage inputs. Struct field order keeps the encoding stable.
func hashKey(stage string, inputs ...any) string {
	data, _ := json.Marshal(inputs)
	return stage + ":" + Hash(data)
}

// Hash returns the hex SHA-256 digest of data. Layout documents are hashed
// with it to key their rendered artifacts.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
