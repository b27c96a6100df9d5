package engine

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Features are the audio-feature estimates fed into artwork generation.
// Both values are best-effort: when the probes fail or the tools are
// missing, neutral defaults come back instead of an error.
type Features struct {
	Energy      float64 // [0,1], from mean program volume
	TempoBpm    float64 // [60,200]
	DurationSec float64
}

// DefaultFeatures are the neutral estimates used when analysis is skipped.
func DefaultFeatures() Features {
	return Features{Energy: 0.5, TempoBpm: 120}
}

// Analyzer estimates audio features using ffmpeg's volumedetect filter and,
// when installed, aubio's tempo tracker.
type Analyzer struct {
	ffmpeg   *FFmpeg
	AubioBin string
	runner   *Runner
}

// NewAnalyzer returns an Analyzer over the given ffmpeg engine.
func NewAnalyzer(f *FFmpeg) *Analyzer {
	return &Analyzer{ffmpeg: f, AubioBin: "aubio", runner: &Runner{}}
}

var meanVolumeRe = regexp.MustCompile(`mean_volume:\s*([-\d.]+)\s*dB`)

// Analyze probes path. Failures degrade field by field toward defaults.
func (a *Analyzer) Analyze(ctx context.Context, path string) Features {
	feats := DefaultFeatures()

	if info, err := a.ffmpeg.Probe(ctx, path); err == nil {
		feats.DurationSec = info.DurationSec
	}

	if mean, err := a.meanVolume(ctx, path); err == nil {
		feats.Energy = EnergyFromMeanVolume(mean)
	}

	if bpm, err := a.aubioTempo(ctx, path); err == nil {
		feats.TempoBpm = bpm
	}
	return feats
}

// meanVolume runs volumedetect and parses the mean program level in dB.
func (a *Analyzer) meanVolume(ctx context.Context, path string) (float64, error) {
	args := []string{"-hide_banner", "-nostats", "-vn", "-i", path, "-af", "volumedetect", "-f", "null", "-"}
	res, err := a.runner.Run(ctx, a.ffmpeg.Bin, args...)
	if err != nil {
		return 0, err
	}
	// volumedetect reports on stderr.
	m := meanVolumeRe.FindStringSubmatch(res.Stderr)
	if len(m) < 2 {
		return 0, fmt.Errorf("volumedetect parse failed")
	}
	return strconv.ParseFloat(m[1], 64)
}

// EnergyFromMeanVolume maps mean volume in dB onto [0,1], with -40dB and
// quieter as 0 and -5dB and hotter as 1.
func EnergyFromMeanVolume(meanDb float64) float64 {
	e := (meanDb + 40) / 35
	return math.Max(0, math.Min(1, e))
}

var bpmRe = regexp.MustCompile(`([0-9]+(\.[0-9]+)?)\s*bpm`)

// aubioTempo runs `aubio tempo` and takes the median of the reported series.
func (a *Analyzer) aubioTempo(ctx context.Context, path string) (float64, error) {
	res, err := a.runner.Run(ctx, a.AubioBin, "tempo", "-i", path)
	if err != nil {
		return 0, err
	}
	var vals []float64
	sc := bufio.NewScanner(strings.NewReader(strings.ToLower(res.Stdout)))
	for sc.Scan() {
		if m := bpmRe.FindStringSubmatch(sc.Text()); len(m) >= 2 {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				vals = append(vals, v)
			}
		}
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("no bpm reported")
	}
	bpm := median(vals)
	return math.Max(60, math.Min(200, bpm)), nil
}

func median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
