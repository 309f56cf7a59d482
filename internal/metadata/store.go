// Package metadata persists the per-file results of a batch run to a JSON
// document under the batch root directory.
package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/dynapress/dynapress/internal/errdefs"
)

// DocumentName is the fixed name of the metadata document, written directly
// under the root directory so reruns update the same file.
const DocumentName = "compression_metadata.json"

// Entry is the success-data projection of one file's outcome. Keys of the
// persisted document are file names, unique within one root directory.
type Entry struct {
	MeanVolumeDb        float64   `json:"mean_volume_db"`
	MaxVolumeDb         float64   `json:"max_volume_db"`
	MinVolumeDb         float64   `json:"min_volume_db"`
	AdjustedThresholdDb float64   `json:"adjusted_threshold_db"`
	RequiresCompression bool      `json:"requires_compression"`
	CompressedPath      string    `json:"compressed_path,omitempty"`
	ProcessedAt         time.Time `json:"processed_at"`
}

// Store serializes batch results. It is stateless; every call operates on
// the document it is given.
type Store struct{}

// Persist writes entries as a pretty-printed JSON document under rootDir and
// returns the document path. The write is atomic: the document is staged in
// a temp file and renamed into place, so a failure never leaves a partial
// document behind.
func (Store) Persist(rootDir string, entries map[string]Entry) (string, error) {
	path := filepath.Join(rootDir, DocumentName)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", &errdefs.PersistenceError{Path: path, Err: err}
	}

	if err := writeAtomic(path, data); err != nil {
		return "", &errdefs.PersistenceError{Path: path, Err: err}
	}
	return path, nil
}

// Update reads the document at path, inserts or replaces the entry for
// fileName, and rewrites the whole document. Point-updates are best-effort:
// any read or write failure returns false rather than an error.
func (Store) Update(path, fileName string, entry Entry) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return false
	}
	if entries == nil {
		// A "null" document unmarshals without error but leaves the map nil.
		entries = map[string]Entry{}
	}
	entries[fileName] = entry

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return false
	}
	return writeAtomic(path, out) == nil
}

// writeAtomic stages data in a temp file next to path and renames it into
// place. The temp file is removed if any step fails.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
