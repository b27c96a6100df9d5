// Package params maps temporal influence onto the effects-parameter vector
// consumed by the external audio engines. The mapping is deterministic and
// side-effect free: identical influence and overrides always yield an
// identical vector.
package params

import (
	"fmt"

	"github.com/pibulus/hexbloop-sub002/internal/lunar"
)

// Echo describes the echo effect timing.
type Echo struct {
	DelaySec float64
	DecaySec float64
}

// Compand describes the compressor envelope.
type Compand struct {
	AttackSec float64
	Ratio     float64
}

// Vector is one complete set of effects parameters for a single file run.
type Vector struct {
	Overdrive    float64 // gain, never below 1.0
	BassGainDb   float64
	TrebleGainDb float64
	Echo         Echo
	Compand      Compand
	Description  string
}

// Overrides replaces individual fields after the lunar/time computation.
// Nil pointers leave the computed value untouched.
type Overrides struct {
	Overdrive    *float64
	BassGainDb   *float64
	TrebleGainDb *float64
	EchoDelaySec *float64
	EchoDecaySec *float64
}

// Base tuples per lunar phase, hand-tuned from dark and heavy at the new
// moon through bright and ethereal at the full moon, and back down the
// waning side.
var phaseBases = map[lunar.Phase]Vector{
	lunar.NewMoon:        {Overdrive: 8, BassGainDb: 6, TrebleGainDb: -2, Echo: Echo{0.6, 0.5}, Compand: Compand{0.3, 6}},
	lunar.WaxingCrescent: {Overdrive: 6.5, BassGainDb: 5, TrebleGainDb: -1, Echo: Echo{0.5, 0.45}, Compand: Compand{0.25, 5}},
	lunar.FirstQuarter:   {Overdrive: 5, BassGainDb: 3, TrebleGainDb: 0, Echo: Echo{0.45, 0.4}, Compand: Compand{0.2, 4}},
	lunar.WaxingGibbous:  {Overdrive: 3.5, BassGainDb: 2, TrebleGainDb: 1.5, Echo: Echo{0.4, 0.35}, Compand: Compand{0.15, 3.5}},
	lunar.FullMoon:       {Overdrive: 2, BassGainDb: 0, TrebleGainDb: 3, Echo: Echo{0.3, 0.3}, Compand: Compand{0.1, 3}},
	lunar.WaningGibbous:  {Overdrive: 3.5, BassGainDb: 1, TrebleGainDb: 2, Echo: Echo{0.4, 0.35}, Compand: Compand{0.15, 3.5}},
	lunar.LastQuarter:    {Overdrive: 5, BassGainDb: 2.5, TrebleGainDb: 0.5, Echo: Echo{0.45, 0.4}, Compand: Compand{0.2, 4}},
	lunar.WaningCrescent: {Overdrive: 6.5, BassGainDb: 4.5, TrebleGainDb: -0.5, Echo: Echo{0.55, 0.45}, Compand: Compand{0.25, 5}},
}

// timeShift is the time-of-day modifier applied over the phase base.
type timeShift struct {
	overdriveMul float64
	bassAddDb    float64
	trebleAddDb  float64
	echoMul      float64
}

var timeShifts = map[lunar.TimeCategory]timeShift{
	lunar.DeepNight: {overdriveMul: 1.4, bassAddDb: 1, trebleAddDb: 0, echoMul: 1.3},
	lunar.Morning:   {overdriveMul: 0.8, bassAddDb: -2, trebleAddDb: 2, echoMul: 0.9},
	lunar.Afternoon: {overdriveMul: 1.0, bassAddDb: 0, trebleAddDb: 0, echoMul: 1.0},
	lunar.Evening:   {overdriveMul: 1.1, bassAddDb: 1, trebleAddDb: -0.5, echoMul: 1.05},
}

// Synthesize produces the effects vector for the given influence. The
// overdrive floor of 1.0 holds for every influence and override combination.
func Synthesize(inf lunar.Influence, ov *Overrides) Vector {
	v := phaseBases[inf.PhaseName]
	shift := timeShifts[inf.TimeCategory]

	v.Overdrive *= shift.overdriveMul
	v.BassGainDb += shift.bassAddDb
	v.TrebleGainDb += shift.trebleAddDb
	v.Echo.DelaySec *= shift.echoMul
	v.Echo.DecaySec *= shift.echoMul

	if ov != nil {
		if ov.Overdrive != nil {
			v.Overdrive = *ov.Overdrive
		}
		if ov.BassGainDb != nil {
			v.BassGainDb = *ov.BassGainDb
		}
		if ov.TrebleGainDb != nil {
			v.TrebleGainDb = *ov.TrebleGainDb
		}
		if ov.EchoDelaySec != nil {
			v.Echo.DelaySec = *ov.EchoDelaySec
		}
		if ov.EchoDecaySec != nil {
			v.Echo.DecaySec = *ov.EchoDecaySec
		}
	}

	if v.Overdrive < 1.0 {
		v.Overdrive = 1.0
	}

	v.Description = fmt.Sprintf("%s / %s: drive %.1f, bass %+.1fdB, treble %+.1fdB, echo %.2fs",
		inf.PhaseName, inf.TimeCategory, v.Overdrive, v.BassGainDb, v.TrebleGainDb, v.Echo.DelaySec)
	return v
}
