package loudness

import (
	"fmt"

	"github.com/dynapress/dynapress/internal/errdefs"
)

// Volume readings are decibel values relative to full scale, so the valid
// range is [FloorDb, 0].
const (
	// FloorDb is the fixed minimum-volume floor substituted when the
	// measurement tool does not report a true minimum.
	FloorDb = -100.0

	// gainOffsetDb is the offset applied to the mean volume to reach the
	// reference loudness target. The result is capped at 0 dB so the
	// compressor is never asked for gain beyond unity.
	gainOffsetDb = 27.4

	// dynamicRangeTriggerDb and quietnessTriggerDb are the two independent
	// compression triggers: spread above the floor, and overall quietness.
	dynamicRangeTriggerDb = 40.0
	quietnessTriggerDb    = -24.0
)

// Stats holds the measured volume readings for one file plus the derived
// compression decision. Construct via [New]; the derived fields are pure
// functions of the three readings and are never mutated independently.
type Stats struct {
	MeanVolumeDb float64
	MaxVolumeDb  float64
	MinVolumeDb  float64

	// AdjustedThresholdDb is the gain-correction target fed to the
	// compressor: min(mean + 27.4, 0).
	AdjustedThresholdDb float64

	// RequiresCompression is true when the spread exceeds 40 dB or the
	// mean volume is below -24 dB.
	RequiresCompression bool
}

// New validates the three readings against [FloorDb, 0] and returns a Stats
// with the threshold and decision derived.
func New(meanDb, maxDb, minDb float64) (Stats, error) {
	for _, r := range []struct {
		field string
		value float64
	}{
		{"mean_volume", meanDb},
		{"max_volume", maxDb},
		{"min_volume", minDb},
	} {
		if r.value < FloorDb || r.value > 0 {
			return Stats{}, &errdefs.ValidationError{
				Field:  r.field,
				Reason: fmt.Sprintf("%.1f dB outside [%.1f, 0.0]", r.value, FloorDb),
			}
		}
	}

	threshold := meanDb + gainOffsetDb
	if threshold > 0 {
		threshold = 0
	}

	return Stats{
		MeanVolumeDb:        meanDb,
		MaxVolumeDb:         maxDb,
		MinVolumeDb:         minDb,
		AdjustedThresholdDb: threshold,
		RequiresCompression: maxDb-minDb > dynamicRangeTriggerDb || meanDb < quietnessTriggerDb,
	}, nil
}
