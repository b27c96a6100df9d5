package artwork

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/pibulus/hexbloop-sub002/internal/chaos"
)

// renderer holds the per-call state. One renderer per Generate call; the
// chaos source is owned, never shared.
type renderer struct {
	in   Inputs
	opts Options
	spec StyleSpec
	rng  *chaos.Source
	w, h float64
}

func newRenderer(in Inputs, opts Options) *renderer {
	rng := chaos.NewSource(in.Seed)
	return &renderer{
		in:   in,
		opts: opts,
		spec: resolveStyle(in.Style, in.AudioEnergy, rng),
		rng:  rng,
		w:    float64(opts.Width),
		h:    float64(opts.Height),
	}
}

// px rounds a coordinate to an integer pixel position. Sub-pixel placement
// softens edges and costs extra anti-aliasing work, so everything placed on
// the canvas goes through here.
func px(v float64) float64 { return math.Round(v) }

func (r *renderer) render() (image.Image, error) {
	dc := gg.NewContext(r.opts.Width, r.opts.Height)

	// Each optional pass draws from its own forked stream: whether one pass
	// runs, or how many draws it consumes, cannot shift what another pass
	// places for the same seed.
	flowRng := r.rng.Fork()
	particleRng := r.rng.Fork()
	grainRng := r.rng.Fork()

	r.drawBackground(dc)
	r.drawMetaballs(dc)
	if r.spec.FlowField {
		r.drawFlowField(dc, flowRng)
	}
	if r.spec.Particles {
		r.drawParticles(dc, particleRng)
	}

	img := r.applyPostFilter(dc.Image())
	r.applyGrain(img, grainRng)

	if r.opts.Label != "" && r.opts.FontPath != "" {
		labeled, err := r.drawLabel(img)
		if err != nil {
			return nil, fmt.Errorf("drawing label: %w", err)
		}
		return labeled, nil
	}
	return img, nil
}

// moonLight is the lit fraction implied by the moon phase, used to brighten
// or darken the whole composition.
func (r *renderer) moonLight() float64 {
	return (1 - math.Cos(r.in.MoonPhase*2*math.Pi)) / 2
}

func (r *renderer) drawBackground(dc *gg.Context) {
	p := r.spec.Palette
	light := r.moonLight()

	var grad gg.Gradient
	switch r.spec.Gradient {
	case RadialGradient:
		cx := px(r.rng.Range(r.w*0.3, r.w*0.7))
		cy := px(r.rng.Range(r.h*0.3, r.h*0.7))
		grad = gg.NewRadialGradient(cx, cy, 0, cx, cy, math.Max(r.w, r.h)*0.9)
	default:
		angle := r.rng.Range(0, 2*math.Pi)
		dx, dy := math.Cos(angle), math.Sin(angle)
		grad = gg.NewLinearGradient(
			px(r.w/2-dx*r.w/2), px(r.h/2-dy*r.h/2),
			px(r.w/2+dx*r.w/2), px(r.h/2+dy*r.h/2))
	}

	// Multi-stop recipe over the palette, skewed by moonlight so full-moon
	// covers land on the brighter end of the ramp.
	stops := 3 + r.rng.IntN(3)
	for i := 0; i <= stops; i++ {
		t := float64(i) / float64(stops)
		idx := int(math.Min(float64(len(p)-1), (t*0.7+light*0.3)*float64(len(p)-1)+0.5))
		grad.AddColorStop(t, p[idx])
	}

	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, r.w, r.h)
	dc.Fill()
}

// drawMetaballs renders the organic blob layer: radial-gradient discs that
// visually merge with their neighbors.
func (r *renderer) drawMetaballs(dc *gg.Context) {
	count := 8 + int(r.in.AudioEnergy*16)
	light := r.moonLight()

	for i := 0; i < count; i++ {
		radius := px(r.rng.Range(r.w*0.05, r.w*0.22))
		// Centers may drift past the edges for partially visible blobs.
		cx := px(r.rng.Range(-r.w*0.2, r.w*1.2))
		cy := px(r.rng.Range(-r.h*0.2, r.h*1.2))

		// Anything farther than twice its radius off-canvas contributes no
		// pixels; skip before building the gradient.
		if cx < -2*radius || cx > r.w+2*radius || cy < -2*radius || cy > r.h+2*radius {
			continue
		}

		c := chaos.Pick(r.rng, r.spec.Palette)
		alpha := uint8(90 + light*80 + r.rng.Float64()*60)

		grad := gg.NewRadialGradient(cx, cy, 0, cx, cy, radius)
		grad.AddColorStop(0, color.NRGBA{c.R, c.G, c.B, alpha})
		grad.AddColorStop(0.7, color.NRGBA{c.R, c.G, c.B, alpha / 3})
		grad.AddColorStop(1, color.NRGBA{c.R, c.G, c.B, 0})

		dc.SetFillStyle(grad)
		dc.DrawCircle(cx, cy, radius)
		dc.Fill()
	}
}

// drawFlowField strokes curved paths along a deterministic angle field.
// Density scales with tempo-driven turbulence.
func (r *renderer) drawFlowField(dc *gg.Context, rng *chaos.Source) {
	turbulence := (r.in.TempoBpm - 60) / 140
	strokes := 40 + int(turbulence*80)

	// Field coefficients drawn once per render.
	fx := rng.Range(0.004, 0.012)
	fy := rng.Range(0.004, 0.012)
	ox := rng.Range(0, 2*math.Pi)
	oy := rng.Range(0, 2*math.Pi)
	angleAt := func(x, y float64) float64 {
		return 2 * math.Pi * math.Sin(x*fx+ox) * math.Cos(y*fy+oy)
	}

	for i := 0; i < strokes; i++ {
		x := px(rng.Range(0, r.w))
		y := px(rng.Range(0, r.h))
		c := chaos.Pick(rng, r.spec.Palette)

		dc.SetColor(color.NRGBA{c.R, c.G, c.B, 70})
		dc.SetLineWidth(1 + rng.Float64()*2)
		dc.MoveTo(x, y)

		segments := 5 + rng.IntN(6)
		step := r.w * 0.03 * (0.5 + turbulence)
		for s := 0; s < segments; s++ {
			a := angleAt(x, y)
			mx := px(x + math.Cos(a)*step/2)
			my := px(y + math.Sin(a)*step/2)
			x = px(x + math.Cos(a)*step)
			y = px(y + math.Sin(a)*step)
			dc.QuadraticTo(mx, my, x, y)
		}
		dc.Stroke()
	}
}

// drawParticles scatters small square speckles, density scaled by energy.
func (r *renderer) drawParticles(dc *gg.Context, rng *chaos.Source) {
	count := 120 + int(r.in.AudioEnergy*300)
	for i := 0; i < count; i++ {
		c := chaos.Pick(rng, r.spec.Palette)
		size := float64(1 + rng.IntN(3))
		dc.SetColor(color.NRGBA{c.R, c.G, c.B, uint8(60 + rng.IntN(140))})
		dc.DrawRectangle(px(rng.Range(0, r.w)), px(rng.Range(0, r.h)), size, size)
		dc.Fill()
	}
}

// applyPostFilter runs the style's blur/contrast/brightness pass. The filter
// must be applied on a separate surface and composited back: rendering and
// filtering on the same surface in one pass leaves the filter without a
// source to re-render, so nothing visible changes.
func (r *renderer) applyPostFilter(src image.Image) *image.NRGBA {
	base := imaging.Clone(src)

	filtered := imaging.Blur(base, r.spec.BlurSigma)
	filtered = imaging.AdjustContrast(filtered, r.spec.Contrast)
	filtered = imaging.AdjustBrightness(filtered, r.spec.Brightness)

	out := imaging.Clone(base)
	mask := image.NewUniform(color.Alpha{A: 115})
	draw.DrawMask(out, out.Bounds(), filtered, image.Point{}, mask, image.Point{}, draw.Over)
	return out
}

// applyGrain adds low-amplitude per-pixel luminance noise in place.
func (r *renderer) applyGrain(img *image.NRGBA, rng *chaos.Source) {
	amp := r.spec.Grain
	if amp <= 0 {
		return
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			n := (rng.Float64()*2 - 1) * amp
			i := (x - b.Min.X) * 4
			for ch := 0; ch < 3; ch++ {
				v := float64(row[i+ch]) + n
				if v < 0 {
					v = 0
				} else if v > 255 {
					v = 255
				}
				row[i+ch] = uint8(v)
			}
		}
	}
}

func (r *renderer) drawLabel(img image.Image) (image.Image, error) {
	dc := gg.NewContextForImage(img)
	points := r.h * 0.045
	if err := dc.LoadFontFace(r.opts.FontPath, points); err != nil {
		return nil, err
	}
	x, y := px(r.w/2), px(r.h*0.93)
	dc.SetColor(color.NRGBA{0, 0, 0, 160})
	dc.DrawStringAnchored(r.opts.Label, x+1, y+1, 0.5, 0.5)
	dc.SetColor(color.NRGBA{255, 255, 255, 230})
	dc.DrawStringAnchored(r.opts.Label, x, y, 0.5, 0.5)
	return dc.Image(), nil
}
