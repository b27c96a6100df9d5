package params_test

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/pibulus/hexbloop-sub002/internal/lunar"
	"github.com/pibulus/hexbloop-sub002/internal/params"
)

// The unity overdrive floor must hold for every timestamp, including the
// dampened morning/full-moon corner, and for adversarial overrides.
func TestOverdriveFloor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sec := rapid.Int64Range(0, 4_000_000_000).Draw(rt, "unix_sec")
		inf := lunar.Compute(time.Unix(sec, 0).UTC())
		v := params.Synthesize(inf, nil)
		if v.Overdrive < 1.0 {
			rt.Fatalf("overdrive below floor: %v (phase %s, time %s)", v.Overdrive, inf.PhaseName, inf.TimeCategory)
		}
	})
}

func TestOverrideBelowFloorIsClamped(t *testing.T) {
	inf := lunar.Compute(time.Date(2024, 6, 21, 9, 0, 0, 0, time.UTC))
	low := 0.2
	v := params.Synthesize(inf, &params.Overrides{Overdrive: &low})
	if v.Overdrive != 1.0 {
		t.Fatalf("override below floor should clamp to 1.0, got %v", v.Overdrive)
	}
}

func TestDeterminism(t *testing.T) {
	inf := lunar.Compute(time.Date(2024, 10, 31, 23, 0, 0, 0, time.UTC))
	a := params.Synthesize(inf, nil)
	b := params.Synthesize(inf, nil)
	if a != b {
		t.Fatalf("identical inputs produced different vectors:\n%+v\n%+v", a, b)
	}
}

func TestOverridesReplaceFields(t *testing.T) {
	inf := lunar.Compute(time.Date(2024, 1, 11, 14, 0, 0, 0, time.UTC))
	bass := -4.5
	delay := 1.25
	v := params.Synthesize(inf, &params.Overrides{BassGainDb: &bass, EchoDelaySec: &delay})
	if v.BassGainDb != bass {
		t.Errorf("bass override not applied: got %v", v.BassGainDb)
	}
	if v.Echo.DelaySec != delay {
		t.Errorf("echo delay override not applied: got %v", v.Echo.DelaySec)
	}
	// Untouched fields keep their computed values.
	base := params.Synthesize(inf, nil)
	if v.TrebleGainDb != base.TrebleGainDb {
		t.Errorf("treble changed without an override: %v vs %v", v.TrebleGainDb, base.TrebleGainDb)
	}
}

// Night amplifies drive relative to morning for the same lunar phase.
func TestNightHeavierThanMorning(t *testing.T) {
	day := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	night := time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)
	dayInf, nightInf := lunar.Compute(day), lunar.Compute(night)
	if dayInf.PhaseName != nightInf.PhaseName {
		t.Skip("chosen timestamps straddle a phase boundary")
	}
	d := params.Synthesize(dayInf, nil)
	n := params.Synthesize(nightInf, nil)
	if n.Overdrive <= d.Overdrive {
		t.Errorf("night drive %v should exceed morning drive %v", n.Overdrive, d.Overdrive)
	}
}

func TestDescriptionMentionsPhase(t *testing.T) {
	inf := lunar.Compute(time.Date(2024, 5, 23, 20, 0, 0, 0, time.UTC))
	v := params.Synthesize(inf, nil)
	if v.Description == "" {
		t.Fatal("empty description")
	}
}
