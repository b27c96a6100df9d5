// Package artwork renders the procedural cover images. A generation is a
// pure function of its inputs: the same Inputs value (seed included) yields
// byte-identical raster output. All randomness flows through one owned
// chaos.Source per call; the package never touches math/rand or any other
// ambient random state.
package artwork

import (
	"image"
	"log/slog"
)

// Inputs are the numeric modulation values for one generation. Continuous
// fields are clamped on receipt; out-of-range values are logged and coerced.
type Inputs struct {
	Style       string  // catalogue name or "auto"
	Seed        int64
	AudioEnergy float64 // [0,1]
	TempoBpm    float64 // [60,200]
	MoonPhase   float64 // [0,1)
}

// Options control canvas size and the optional label overlay.
type Options struct {
	Width    int
	Height   int
	Label    string // drawn only when FontPath is also set
	FontPath string // TTF file for the label face
}

// DefaultOptions is the standard square cover canvas.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 800}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalize coerces out-of-range inputs, logging each coercion.
func (in Inputs) normalize() Inputs {
	out := in
	out.AudioEnergy = clamp(in.AudioEnergy, 0, 1)
	out.TempoBpm = clamp(in.TempoBpm, 60, 200)
	out.MoonPhase = clamp(in.MoonPhase, 0, 0.999999)
	if out.AudioEnergy != in.AudioEnergy {
		slog.Warn("artwork: clamped audio energy", "got", in.AudioEnergy, "used", out.AudioEnergy)
	}
	if out.TempoBpm != in.TempoBpm {
		slog.Warn("artwork: clamped tempo", "got", in.TempoBpm, "used", out.TempoBpm)
	}
	if out.MoonPhase != in.MoonPhase {
		slog.Warn("artwork: clamped moon phase", "got", in.MoonPhase, "used", out.MoonPhase)
	}
	return out
}

// Generate renders one cover image.
func Generate(in Inputs, opts Options) (image.Image, error) {
	in = in.normalize()
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultOptions().Width, DefaultOptions().Height
	}
	r := newRenderer(in, opts)
	return r.render()
}
