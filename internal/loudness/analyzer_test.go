package loudness

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const sampleOutput = `Input #0, wav, from 'track01.wav':
  Duration: 00:00:30.00, bitrate: 1411 kb/s
Output #0, null, to 'pipe:':
[Parsed_volumedetect_0 @ 0x55e8c1a2b980] n_samples: 2880000
[Parsed_volumedetect_0 @ 0x55e8c1a2b980] mean_volume: -23.5 dB
[Parsed_volumedetect_0 @ 0x55e8c1a2b980] max_volume: -4.2 dB
[Parsed_volumedetect_0 @ 0x55e8c1a2b980] histogram_4db: 12
`

func TestParseVolumeDetect(t *testing.T) {
	mean, max, err := ParseVolumeDetect([]byte(sampleOutput))
	if err != nil {
		t.Fatalf("ParseVolumeDetect: %v", err)
	}
	if mean != -23.5 {
		t.Errorf("mean = %v, want -23.5", mean)
	}
	if max != -4.2 {
		t.Errorf("max = %v, want -4.2", max)
	}
}

func TestParseVolumeDetect_CommaDecimalSeparator(t *testing.T) {
	out := "mean_volume: -23,5 dB\nmax_volume: -4,2 dB\n"
	mean, max, err := ParseVolumeDetect([]byte(out))
	if err != nil {
		t.Fatalf("ParseVolumeDetect: %v", err)
	}
	if mean != -23.5 || max != -4.2 {
		t.Errorf("got mean=%v max=%v, want -23.5 and -4.2", mean, max)
	}
}

func TestParseVolumeDetect_IntegerReadings(t *testing.T) {
	out := "mean_volume: -24 dB\nmax_volume: 0 dB\n"
	mean, max, err := ParseVolumeDetect([]byte(out))
	if err != nil {
		t.Fatalf("ParseVolumeDetect: %v", err)
	}
	if mean != -24 || max != 0 {
		t.Errorf("got mean=%v max=%v, want -24 and 0", mean, max)
	}
}

func TestParseVolumeDetect_MissingReadings(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{"no readings at all", "Duration: 00:00:30.00\n", "mean_volume"},
		{"mean missing", "max_volume: -4.2 dB\n", "mean_volume"},
		{"max missing", "mean_volume: -23.5 dB\n", "max_volume"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseVolumeDetect([]byte(tt.out))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should name the missing %s reading", err, tt.want)
			}
		})
	}
}

// A scratch log orphaned by a hard crash must never be selectable as an
// input, so its name may not carry the input's extension.
func TestScratchPattern_DropsInputExtension(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mp3", "/music/track01.mp3", "track01.voldetect-*"},
		{"wav", "/a/b/voice memo.wav", "voice memo.voldetect-*"},
		{"no extension", "/music/raw", "raw.voldetect-*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scratchPattern(tt.in)
			if got != tt.want {
				t.Errorf("scratchPattern(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if ext := filepath.Ext(tt.in); ext != "" && strings.Contains(got, ext) {
				t.Errorf("scratch pattern %q still carries the input extension %q", got, ext)
			}
		})
	}
}

// Analyze against a real synthetic tone. Also verifies the scratch log is
// removed from the input's directory on the success path.
func TestAnalyze_Integration(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	gen := exec.Command("ffmpeg",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=1:sample_rate=44100",
		"-y", path,
	)
	if err := gen.Run(); err != nil {
		t.Fatalf("generate tone: %v", err)
	}

	stats, err := (Analyzer{}).Analyze(context.Background(), path)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if stats.MeanVolumeDb >= 0 || stats.MeanVolumeDb < FloorDb {
		t.Errorf("MeanVolumeDb = %v, outside plausible range", stats.MeanVolumeDb)
	}
	if stats.MinVolumeDb != FloorDb {
		t.Errorf("MinVolumeDb = %v, want the fixed floor %v", stats.MinVolumeDb, FloorDb)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".voldetect-") {
			t.Errorf("scratch log %s not cleaned up", e.Name())
		}
	}
}

// Scratch cleanup must also happen when the tool fails (unreadable input).
func TestAnalyze_FailureCleansScratch(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.wav")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := (Analyzer{}).Analyze(context.Background(), path); err == nil {
		t.Fatal("expected analysis of a non-audio file to fail")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".voldetect-") {
			t.Errorf("scratch log %s not cleaned up on the error path", e.Name())
		}
	}
}
