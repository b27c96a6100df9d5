package artwork

import (
	"image/color"

	"github.com/pibulus/hexbloop-sub002/internal/chaos"
)

// GradientKind selects the background recipe shape.
type GradientKind int

const (
	LinearGradient GradientKind = iota
	RadialGradient
)

// StyleSpec is one entry in the style catalogue: a palette plus the knobs
// the renderer reads.
type StyleSpec struct {
	Name       string
	Palette    []color.RGBA
	Gradient   GradientKind
	FlowField  bool    // curved strokes layer
	Particles  bool    // scattered dot layer
	BlurSigma  float64 // post-filter blur
	Contrast   float64 // post-filter contrast shift, percent
	Brightness float64 // post-filter brightness shift, percent
	Grain      float64 // luminance noise amplitude, 0-255 scale
	EnergyBias float64 // weight boost when auto-selecting at high energy
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{r, g, b, 255} }

// Catalogue is the fixed set of artwork styles.
var Catalogue = []StyleSpec{
	{
		Name:      "cosmic",
		Palette:   []color.RGBA{rgb(10, 5, 40), rgb(60, 20, 120), rgb(140, 60, 200), rgb(240, 200, 255), rgb(255, 240, 180)},
		Gradient:  RadialGradient,
		FlowField: true,
		BlurSigma: 3, Contrast: 12, Brightness: -4, Grain: 10, EnergyBias: 0.2,
	},
	{
		Name:      "vaporwave",
		Palette:   []color.RGBA{rgb(255, 105, 180), rgb(120, 80, 220), rgb(0, 210, 255), rgb(255, 190, 240), rgb(40, 20, 80)},
		Gradient:  LinearGradient,
		Particles: true,
		BlurSigma: 2, Contrast: 18, Brightness: 6, Grain: 14, EnergyBias: 0.6,
	},
	{
		Name:      "witchhouse",
		Palette:   []color.RGBA{rgb(8, 8, 12), rgb(40, 30, 55), rgb(90, 70, 110), rgb(180, 170, 200), rgb(220, 30, 60)},
		Gradient:  RadialGradient,
		FlowField: true,
		BlurSigma: 4, Contrast: 22, Brightness: -10, Grain: 22, EnergyBias: -0.2,
	},
	{
		Name:      "glitchcore",
		Palette:   []color.RGBA{rgb(0, 255, 140), rgb(255, 0, 90), rgb(0, 40, 60), rgb(230, 230, 230), rgb(255, 220, 0)},
		Gradient:  LinearGradient,
		Particles: true,
		BlurSigma: 1, Contrast: 30, Brightness: 0, Grain: 28, EnergyBias: 0.8,
	},
	{
		Name:      "pastel",
		Palette:   []color.RGBA{rgb(255, 220, 230), rgb(210, 230, 255), rgb(220, 255, 225), rgb(255, 245, 200), rgb(235, 215, 255), rgb(255, 255, 250)},
		Gradient:  LinearGradient,
		BlurSigma: 5, Contrast: 6, Brightness: 8, Grain: 6, EnergyBias: -0.4,
	},
	{
		Name:      "inferno",
		Palette:   []color.RGBA{rgb(20, 0, 0), rgb(120, 10, 0), rgb(230, 80, 0), rgb(255, 180, 30), rgb(255, 240, 150)},
		Gradient:  RadialGradient,
		FlowField: true,
		BlurSigma: 3, Contrast: 20, Brightness: -2, Grain: 16, EnergyBias: 0.7,
	},
	{
		Name:      "oceanic",
		Palette:   []color.RGBA{rgb(5, 20, 45), rgb(10, 60, 100), rgb(20, 120, 150), rgb(120, 210, 220), rgb(230, 250, 250)},
		Gradient:  LinearGradient,
		FlowField: true,
		BlurSigma: 4, Contrast: 8, Brightness: 0, Grain: 8, EnergyBias: -0.3,
	},
	{
		Name:      "monochrome",
		Palette:   []color.RGBA{rgb(10, 10, 10), rgb(70, 70, 70), rgb(140, 140, 140), rgb(210, 210, 210), rgb(250, 250, 250)},
		Gradient:  RadialGradient,
		Particles: true,
		BlurSigma: 2, Contrast: 25, Brightness: 0, Grain: 20, EnergyBias: 0,
	},
}

// StyleByName returns the catalogue entry for name, or ok=false.
func StyleByName(name string) (StyleSpec, bool) {
	for _, s := range Catalogue {
		if s.Name == name {
			return s, true
		}
	}
	return StyleSpec{}, false
}

// resolveStyle picks the style for a run. A known name is honored; "auto"
// (or anything unknown) draws from the catalogue with energy-biased weights
// so loud material leans toward the aggressive styles.
func resolveStyle(name string, energy float64, rng *chaos.Source) StyleSpec {
	if spec, ok := StyleByName(name); ok {
		return spec
	}
	weights := make([]float64, len(Catalogue))
	total := 0.0
	for i, s := range Catalogue {
		w := 1.0 + s.EnergyBias*(energy*2-1)
		if w < 0.1 {
			w = 0.1
		}
		weights[i] = w
		total += w
	}
	draw := rng.Float64() * total
	for i, w := range weights {
		if draw < w {
			return Catalogue[i]
		}
		draw -= w
	}
	return Catalogue[len(Catalogue)-1]
}
