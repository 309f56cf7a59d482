// Package loudness measures per-file volume characteristics via ffmpeg's
// volumedetect filter and derives the compression decision from them.
//
// Stats is the validated value type holding the three readings plus the
// derived threshold and decision; New constructs it. Analyzer runs the
// measurement tool; ParseVolumeDetect extracts the readings from raw filter
// output and is exported so the parsing is testable without the binary.
package loudness
