package artwork

import (
	"bytes"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// The flow-field pass consumes a variable number of draws; because each pass
// owns a forked stream, running it must not move where the particle pass
// places anything for the same seed.
func TestPassStreamsAreIndependent(t *testing.T) {
	in := Inputs{Style: "glitchcore", Seed: 11, AudioEnergy: 0.5, TempoBpm: 120, MoonPhase: 0.5}
	opts := Options{Width: 64, Height: 64}

	particlesOnly := func(runFlow bool) []byte {
		r := newRenderer(in, opts)
		flowRng := r.rng.Fork()
		particleRng := r.rng.Fork()
		if runFlow {
			r.drawFlowField(gg.NewContext(64, 64), flowRng)
		}
		dc := gg.NewContext(64, 64)
		r.drawParticles(dc, particleRng)
		return imaging.Clone(dc.Image()).Pix
	}

	if !bytes.Equal(particlesOnly(false), particlesOnly(true)) {
		t.Fatal("flow-field draws shifted particle placement; pass streams are not independent")
	}
}
