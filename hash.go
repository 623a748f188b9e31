package gotalign

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText computes the SHA-256 hash of text. The text is not trimmed:
// surrounding whitespace shifts every byte range of a response.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// CacheKeyExtended generates a cache key from a text hash, both languages
// and the model. Responses from different models segment and align
// differently.
func CacheKeyExtended(hash, sourceLang, targetLang, model string) string {
	return hash + ":" + sourceLang + ":" + targetLang + ":" + model
}
