package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pibulus/hexbloop-sub002/internal/params"
)

// FFmpeg is the mastering engine. It also hosts the approximating effects
// fallback used when sox is unavailable, and ffprobe-based inspection.
type FFmpeg struct {
	Bin      string
	ProbeBin string
	runner   *Runner
}

// NewFFmpeg returns a mastering engine, defaulting the binaries to
// "ffmpeg" and "ffprobe".
func NewFFmpeg(bin, probeBin string) *FFmpeg {
	if bin == "" {
		bin = "ffmpeg"
	}
	if probeBin == "" {
		probeBin = "ffprobe"
	}
	return &FFmpeg{Bin: bin, ProbeBin: probeBin, runner: &Runner{}}
}

// Available reports whether the ffmpeg binary resolves.
func (f *FFmpeg) Available() bool { return f.runner.Available(f.Bin) }

// OutputSpec is the target container and rates for mastered output.
type OutputSpec struct {
	Format     string // "mp3", "wav", "flac", "m4a"
	BitRate    string // lossy formats, e.g. "320k"
	SampleRate int    // e.g. 44100
}

// DefaultOutputSpec is CD-rate high-bitrate mp3.
func DefaultOutputSpec() OutputSpec {
	return OutputSpec{Format: "mp3", BitRate: "320k", SampleRate: 44100}
}

// ApplyEffects is the fallback effects path: an ffmpeg filter graph that
// approximates the sox chain closely enough that the caller cannot tell
// which engine ran.
func (f *FFmpeg) ApplyEffects(ctx context.Context, in, out string, v params.Vector) error {
	args := []string{"-y", "-i", in, "-vn", "-af", EffectsFilterGraph(v), out}
	if _, err := f.runner.Run(ctx, f.Bin, args...); err != nil {
		return fmt.Errorf("effects fallback: %w", err)
	}
	return nil
}

// EffectsFilterGraph approximates the parameter vector as an ffmpeg filter
// chain: drive as gain into a limiter, tone as shelf EQ, echo and
// compression as their direct counterparts.
func EffectsFilterGraph(v params.Vector) string {
	driveDb := (v.Overdrive - 1) * 1.5
	filters := []string{
		fmt.Sprintf("volume=%.1fdB", driveDb),
		"alimiter=limit=0.9",
		fmt.Sprintf("bass=g=%.1f", v.BassGainDb),
		fmt.Sprintf("treble=g=%.1f", v.TrebleGainDb),
	}
	if v.Echo.DelaySec > 0 {
		filters = append(filters, fmt.Sprintf("aecho=0.8:0.7:%.0f:%.2f",
			v.Echo.DelaySec*1000, clamp01(v.Echo.DecaySec)))
	}
	if v.Compand.Ratio > 1 {
		filters = append(filters, fmt.Sprintf(
			"acompressor=threshold=-20dB:ratio=%.1f:attack=%.0f:release=%.0f",
			v.Compand.Ratio, v.Compand.AttackSec*1000, v.Compand.AttackSec*3000))
	}
	return Chain(filters...)
}

// Master writes the corrective pass: multi-band EQ into gentle compression
// into a peak limiter, resampled to the target spec. The chain is fixed;
// character belongs to the effects stage.
func (f *FFmpeg) Master(ctx context.Context, in, out string, spec OutputSpec) error {
	args := []string{"-y", "-i", in, "-vn", "-af", MasteringFilterChain()}
	if spec.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(spec.SampleRate))
	}
	args = append(args, codecArgs(out, spec.BitRate)...)
	args = append(args, out)
	if _, err := f.runner.Run(ctx, f.Bin, args...); err != nil {
		return fmt.Errorf("mastering stage: %w", err)
	}
	return nil
}

// MasteringFilterChain is the fixed EQ → compression → limiting graph.
func MasteringFilterChain() string {
	return Chain(
		"equalizer=f=60:width_type=h:width=50:g=1.5",
		"equalizer=f=1000:width_type=h:width=600:g=-0.5",
		"equalizer=f=8000:width_type=h:width=4000:g=1",
		"acompressor=threshold=-18dB:ratio=3:attack=20:release=250:makeup=2",
		"alimiter=limit=0.95",
	)
}

// codecArgs maps the output extension to encoder settings.
func codecArgs(out, bitrate string) []string {
	if bitrate == "" {
		bitrate = "320k"
	}
	switch strings.ToLower(filepath.Ext(out)) {
	case ".mp3":
		return []string{"-c:a", "libmp3lame", "-b:a", bitrate}
	case ".m4a", ".aac":
		return []string{"-c:a", "aac", "-b:a", bitrate}
	case ".flac":
		return []string{"-c:a", "flac"}
	case ".ogg":
		return []string{"-c:a", "libvorbis", "-b:a", bitrate}
	default: // wav
		return []string{"-c:a", "pcm_s16le"}
	}
}

// Chain joins filters, dropping empties.
func Chain(filters ...string) string {
	var out []string
	for _, f := range filters {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, ",")
}

// ProbeInfo is the subset of ffprobe output the pipeline reads.
type ProbeInfo struct {
	FormatName  string
	DurationSec float64
	BitRate     int
	SampleRate  int
	Channels    int
}

// Probe inspects a media file with ffprobe.
func (f *FFmpeg) Probe(ctx context.Context, path string) (ProbeInfo, error) {
	args := []string{"-v", "error", "-show_format", "-show_streams", "-of", "json", path}
	res, err := f.runner.Run(ctx, f.ProbeBin, args...)
	if err != nil {
		return ProbeInfo{}, fmt.Errorf("ffprobe: %w", err)
	}

	var raw struct {
		Format struct {
			FormatName string `json:"format_name"`
			Duration   string `json:"duration"`
			BitRate    string `json:"bit_rate"`
		} `json:"format"`
		Streams []struct {
			CodecType  string `json:"codec_type"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
		} `json:"streams"`
	}
	if err := json.Unmarshal([]byte(res.Stdout), &raw); err != nil {
		return ProbeInfo{}, fmt.Errorf("parsing ffprobe output: %w", err)
	}

	info := ProbeInfo{FormatName: raw.Format.FormatName}
	info.DurationSec, _ = strconv.ParseFloat(raw.Format.Duration, 64)
	info.BitRate, _ = strconv.Atoi(raw.Format.BitRate)
	for _, st := range raw.Streams {
		if st.CodecType == "audio" {
			info.SampleRate, _ = strconv.Atoi(st.SampleRate)
			info.Channels = st.Channels
			break
		}
	}
	return info, nil
}
