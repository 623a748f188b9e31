package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// SnapshotVersion is written to every export.
const SnapshotVersion = "1"

// Snapshot is the JSON document produced by Export.
type Snapshot struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []SnapshotEntry   `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// SnapshotEntry is a single cache entry.
type SnapshotEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ImportResult contains statistics about an import.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Rejected int // Entries refused by the check function
	Failed   int // Entries the cache failed to store
}

// Export writes the live entries of src to w, sorted by key.
func Export(w io.Writer, src Enumerable, metadata map[string]string) error {
	data, err := src.Entries()
	if err != nil {
		return fmt.Errorf("listing cache entries: %w", err)
	}

	entries := make([]SnapshotEntry, 0, len(data))
	for key, value := range data {
		entries = append(entries, SnapshotEntry{Key: key, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	snapshot := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// ExportToFile exports src to the file at path.
func ExportToFile(path string, src Enumerable, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := Export(f, src, metadata); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Import loads a snapshot from r into dst. When check is non-nil, entries
// whose value it rejects are skipped.
func Import(r io.Reader, dst ResponseCache, check func(value string) error) (*ImportResult, error) {
	var snapshot Snapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %q", snapshot.Version)
	}

	result := &ImportResult{
		Version:  snapshot.Version,
		Metadata: snapshot.Metadata,
	}
	for _, e := range snapshot.Entries {
		if check != nil {
			if err := check(e.Value); err != nil {
				result.Rejected++
				continue
			}
		}
		if err := dst.Set(e.Key, e.Value); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportFromFile imports the snapshot stored at path.
func ImportFromFile(path string, dst ResponseCache, check func(value string) error) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Import(f, dst, check)
}
