// Package cache stores serialised translation responses.
//
// Values are opaque strings to this package; the gotalign CachedEngine
// stores JSON-encoded responses in them.
package cache

// ResponseCache is a key-value store for serialised responses.
type ResponseCache interface {
	// Get returns the value for key and true, or "" and false on a miss.
	Get(key string) (string, bool)

	// Set stores value under key.
	Set(key string, value string) error
}

// Enumerable is a cache whose live entries can be listed, as needed for export.
type Enumerable interface {
	ResponseCache
	Entries() (map[string]string, error)
}
