package compress

import (
	"path/filepath"
	"strings"
)

// ProcessedMarker is appended to the base name of every compressed output.
// The selector excludes names carrying it, so reruns never pick up derived
// files as new inputs.
const ProcessedMarker = "_compressed"

// OutputPath builds the canonical output file path for an input:
// same directory, same extension, marker appended to the base name.
//
//	/music/track01.mp3 -> /music/track01_compressed.mp3
func OutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)
	return filepath.Join(dir, base+ProcessedMarker+ext)
}

// IsProcessed reports whether name carries the processed marker.
func IsProcessed(name string) bool {
	return strings.Contains(name, ProcessedMarker)
}
