// Package lunar computes the temporal influence (lunar phase and time-of-day
// category) that drives parameter synthesis, naming style weights, and
// artwork generation. Everything here is a pure function of the supplied
// clock reading.
package lunar

import (
	"fmt"
	"math"
	"time"
)

// SynodicPeriod is the mean length of a lunation in days.
const SynodicPeriod = 29.530588853

// referenceNewMoon is the fixed epoch all phase math is anchored to
// (the new moon of 2000-01-06 18:14 UTC).
var referenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// Phase identifies one of the eight named lunar phases.
type Phase int

const (
	NewMoon Phase = iota
	WaxingCrescent
	FirstQuarter
	WaxingGibbous
	FullMoon
	WaningGibbous
	LastQuarter
	WaningCrescent
)

var phaseNames = [...]string{
	"new moon",
	"waxing crescent",
	"first quarter",
	"waxing gibbous",
	"full moon",
	"waning gibbous",
	"last quarter",
	"waning crescent",
}

func (p Phase) String() string {
	if p < NewMoon || p > WaningCrescent {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// TimeCategory buckets the local hour into four parts of the day.
type TimeCategory int

const (
	DeepNight TimeCategory = iota // [00:00, 06:00)
	Morning                       // [06:00, 12:00)
	Afternoon                     // [12:00, 18:00)
	Evening                       // [18:00, 24:00)
)

var categoryNames = [...]string{"deep night", "morning", "afternoon", "evening"}

func (c TimeCategory) String() string {
	if c < DeepNight || c > Evening {
		return fmt.Sprintf("TimeCategory(%d)", int(c))
	}
	return categoryNames[c]
}

// Influence is the full temporal state derived from one clock reading.
// It carries no identity and is recomputed per invocation.
type Influence struct {
	LunarPhase   float64 // fraction of the synodic cycle, [0,1)
	Illumination float64 // visible lit fraction, [0,1]
	PhaseName    Phase
	TimeCategory TimeCategory
}

// Compute derives the Influence for the given moment. It never fails; any
// timestamp, past or future, maps to a valid phase.
func Compute(now time.Time) Influence {
	phase := phaseFraction(now)
	return Influence{
		LunarPhase:   phase,
		Illumination: (1 - math.Cos(phase*2*math.Pi)) / 2,
		PhaseName:    bucketPhase(phase),
		TimeCategory: bucketHour(now.Hour()),
	}
}

// phaseFraction returns the position within the synodic cycle as a fraction
// in [0,1), with 0 at new moon.
func phaseFraction(now time.Time) float64 {
	days := now.Sub(referenceNewMoon).Hours() / 24
	frac := math.Mod(days/SynodicPeriod, 1)
	if frac < 0 {
		frac += 1
	}
	return frac
}

// Phase bucket boundaries as cycle fractions. The new-moon bucket wraps
// around zero: [0, 0.03) plus the tail above the last boundary.
var phaseBounds = [...]float64{0.03, 0.22, 0.28, 0.47, 0.53, 0.72, 0.78, 0.97}

func bucketPhase(frac float64) Phase {
	switch {
	case frac < phaseBounds[0] || frac >= phaseBounds[7]:
		return NewMoon
	case frac < phaseBounds[1]:
		return WaxingCrescent
	case frac < phaseBounds[2]:
		return FirstQuarter
	case frac < phaseBounds[3]:
		return WaxingGibbous
	case frac < phaseBounds[4]:
		return FullMoon
	case frac < phaseBounds[5]:
		return WaningGibbous
	case frac < phaseBounds[6]:
		return LastQuarter
	default:
		return WaningCrescent
	}
}

func bucketHour(hour int) TimeCategory {
	switch {
	case hour < 6:
		return DeepNight
	case hour < 12:
		return Morning
	case hour < 18:
		return Afternoon
	default:
		return Evening
	}
}
