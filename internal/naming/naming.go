// Package naming produces the procedurally generated, filesystem-safe track
// names, both one at a time and in batches with persisted session counters.
package naming

import (
	"fmt"
	"time"

	"github.com/pibulus/hexbloop-sub002/internal/chaos"
	"github.com/pibulus/hexbloop-sub002/internal/lunar"
)

// Style identifies one of the naming vocabularies.
type Style int

const (
	Sparklepop Style = iota // bright, glittery
	Dark                    // occult, heavy
	Glitch                  // corrupted occult
	Mixed                   // crossover of the above pools
)

var styleNames = [...]string{"sparklepop", "dark", "glitch", "mixed"}

func (s Style) String() string {
	if s < Sparklepop || s > Mixed {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// ParseStyle resolves a style name from config. "auto" and unknown values
// return ok=false, meaning the generator should pick by influence.
func ParseStyle(s string) (Style, bool) {
	for i, name := range styleNames {
		if s == name {
			return Style(i), true
		}
	}
	return 0, false
}

// Record is one generated name.
type Record struct {
	Text           string
	Style          Style
	NumberingToken string // set by batch schemes that append a counter
}

// Word pools. Middle pools are optional per style; sparklepop and dark
// assemble prefix+middle+suffix, glitch assembles prefix+suffix.
var (
	sparklePrefixes = []string{"glitter", "sparkle", "bubble", "crystal", "prism", "sugar", "neon", "pastel", "dreamy", "honey"}
	sparkleMiddles  = []string{"pop", "beam", "wave", "dust", "heart", "cloud", "fizz", "gleam"}
	sparkleSuffixes = []string{"princess", "dream", "kiss", "storm", "parade", "bloom", "rush", "mirage"}

	darkPrefixes = []string{"hex", "void", "raven", "ash", "umbra", "sable", "thorn", "grim", "nocturne", "obsidian"}
	darkMiddles  = []string{"moon", "blood", "bone", "shadow", "witch", "grave", "frost", "omen"}
	darkSuffixes = []string{"ritual", "coven", "eclipse", "spell", "dirge", "sigil", "hollow", "requiem"}

	glitchPrefixes = []string{"c0rrupt", "stat1c", "gl1tch", "v0id", "hexx", "d3ad", "nu11", "crypt"}
	glitchSuffixes = []string{"daemon", "kernel", "cipher", "phantom", "wraith", "signal", "specter", "relic"}
)

// Decorative glyphs appended with small probability, per style. These pass
// sanitization via the style whitelist.
var styleGlyphs = map[Style][]string{
	Sparklepop: {"✧", "☆", "♡"},
	Dark:       {"☾", "⛧"},
	Glitch:     {"▓", "░"},
}

const (
	glyphProbability  = 0.15
	numberProbability = 0.25
)

// Generator assembles names from the word pools. All randomness flows
// through the injected chaos source so seeded generators reproduce exactly.
type Generator struct {
	rng *chaos.Source
}

// NewGenerator returns a Generator over src. A nil src gets a wall-clock
// seed, the non-reproducible default.
func NewGenerator(src *chaos.Source) *Generator {
	if src == nil {
		src = chaos.NewTimeSource()
	}
	return &Generator{rng: src}
}

// styleWeights builds the cumulative selection table for the influence.
// Night and the new moon pull toward the dark pools; day and the full moon
// pull bright.
func styleWeights(inf lunar.Influence) [4]float64 {
	w := [4]float64{1, 1, 1, 1} // sparklepop, dark, glitch, mixed

	switch inf.TimeCategory {
	case lunar.DeepNight:
		w[Dark] += 2
		w[Glitch] += 1
	case lunar.Morning, lunar.Afternoon:
		w[Sparklepop] += 2
	case lunar.Evening:
		w[Dark] += 0.5
		w[Mixed] += 0.5
	}

	switch inf.PhaseName {
	case lunar.NewMoon:
		w[Dark] += 3
	case lunar.WaxingCrescent, lunar.WaningCrescent:
		w[Dark] += 1
	case lunar.FullMoon:
		w[Sparklepop] += 3
	case lunar.WaxingGibbous, lunar.WaningGibbous:
		w[Sparklepop] += 1
	}
	return w
}

// pickStyle draws a style against the cumulative weight table.
func (g *Generator) pickStyle(inf lunar.Influence) Style {
	w := styleWeights(inf)
	total := w[0] + w[1] + w[2] + w[3]
	draw := g.rng.Float64() * total
	for i, weight := range w {
		if draw < weight {
			return Style(i)
		}
		draw -= weight
	}
	return Mixed
}

// Generate produces one name, picking the style from the influence.
func (g *Generator) Generate(inf lunar.Influence) Record {
	return g.GenerateStyled(inf, g.pickStyle(inf))
}

// GenerateStyled produces one name in a fixed style.
func (g *Generator) GenerateStyled(inf lunar.Influence, style Style) Record {
	raw := g.assemble(style)

	if g.rng.Bool(numberProbability) {
		raw += fmt.Sprintf("%d", g.rng.IntN(99)+1)
	} else if glyphs := styleGlyphs[style]; len(glyphs) > 0 && g.rng.Bool(glyphProbability) {
		raw += chaos.Pick(g.rng, glyphs)
	}

	text := Sanitize(raw, style)
	if !Valid(text) {
		text = fallbackName(time.Now())
	}
	return Record{Text: text, Style: style}
}

func (g *Generator) assemble(style Style) string {
	switch style {
	case Sparklepop:
		return chaos.Pick(g.rng, sparklePrefixes) + chaos.Pick(g.rng, sparkleMiddles) + "_" + chaos.Pick(g.rng, sparkleSuffixes)
	case Dark:
		return chaos.Pick(g.rng, darkPrefixes) + chaos.Pick(g.rng, darkMiddles) + "_" + chaos.Pick(g.rng, darkSuffixes)
	case Glitch:
		return chaos.Pick(g.rng, glitchPrefixes) + "_" + chaos.Pick(g.rng, glitchSuffixes)
	default: // Mixed crosses the bright and dark pools
		if g.rng.Bool(0.5) {
			return chaos.Pick(g.rng, sparklePrefixes) + chaos.Pick(g.rng, darkMiddles) + "_" + chaos.Pick(g.rng, darkSuffixes)
		}
		return chaos.Pick(g.rng, darkPrefixes) + chaos.Pick(g.rng, sparkleMiddles) + "_" + chaos.Pick(g.rng, sparkleSuffixes)
	}
}

// fallbackName is used when sanitization leaves nothing usable.
func fallbackName(now time.Time) string {
	return "hexbloop_" + now.Format("20060102_150405")
}
