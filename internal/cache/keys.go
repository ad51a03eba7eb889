package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	GlobalKeyPrefix = "quizzify"

	embeddingService   = "embedding"
	vectorIndexService = "vectorindex"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// HashText returns the hex sha256 of text. Used to keep raw passages out of keys.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// EmbeddingKey is the key under which the vector for text from source is memoised.
func EmbeddingKey(source, text string) string {
	return GenerateCacheKey(embeddingService, source, HashText(text))
}

// VectorIndexKey is the hash key holding every chunk of one index namespace.
func VectorIndexKey(namespace string) string {
	return GenerateCacheKey(vectorIndexService, "chunks", namespace)
}
