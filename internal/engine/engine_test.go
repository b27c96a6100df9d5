package engine_test

import (
	"strings"
	"testing"

	"github.com/pibulus/hexbloop-sub002/internal/engine"
	"github.com/pibulus/hexbloop-sub002/internal/params"
)

func sampleVector() params.Vector {
	return params.Vector{
		Overdrive:    8.4,
		BassGainDb:   5,
		TrebleGainDb: -1.5,
		Echo:         params.Echo{DelaySec: 0.5, DecaySec: 0.45},
		Compand:      params.Compand{AttackSec: 0.25, Ratio: 5},
	}
}

func TestSoxArgs(t *testing.T) {
	args := engine.SoxArgs("in.wav", "out.wav", sampleVector())

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"in.wav out.wav",
		"overdrive 8.4",
		"bass 5.0",
		"treble -1.5",
		"echo 0.8 0.7 500 0.45",
		"compand",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("sox args %q missing %q", joined, want)
		}
	}
}

func TestSoxArgsSkipsDisabledEffects(t *testing.T) {
	v := sampleVector()
	v.Echo.DelaySec = 0
	v.Compand.Ratio = 1
	joined := strings.Join(engine.SoxArgs("a", "b", v), " ")
	if strings.Contains(joined, "echo") || strings.Contains(joined, "compand") {
		t.Errorf("disabled effects leaked into args: %q", joined)
	}
}

func TestEffectsFilterGraphApproximation(t *testing.T) {
	graph := engine.EffectsFilterGraph(sampleVector())

	for _, want := range []string{"volume=", "alimiter", "bass=g=5.0", "treble=g=-1.5", "aecho=0.8:0.7:500:0.45", "acompressor=", "ratio=5.0"} {
		if !strings.Contains(graph, want) {
			t.Errorf("filter graph %q missing %q", graph, want)
		}
	}
	// Comma-chained single -af value, no stray whitespace.
	if strings.ContainsAny(graph, " \t") {
		t.Errorf("filter graph contains whitespace: %q", graph)
	}
}

func TestMasteringChainIsFixed(t *testing.T) {
	chain := engine.MasteringFilterChain()
	if engine.MasteringFilterChain() != chain {
		t.Fatal("mastering chain must be stable")
	}
	// EQ before compression before limiting.
	eq := strings.Index(chain, "equalizer")
	comp := strings.Index(chain, "acompressor")
	lim := strings.Index(chain, "alimiter")
	if !(eq >= 0 && eq < comp && comp < lim) {
		t.Fatalf("chain order wrong: %q", chain)
	}
}

func TestChainDropsEmpties(t *testing.T) {
	if got := engine.Chain("a", "", "  ", "b"); got != "a,b" {
		t.Errorf("Chain = %q", got)
	}
}

func TestEnergyFromMeanVolume(t *testing.T) {
	cases := []struct {
		db   float64
		want float64
	}{
		{-60, 0},
		{-40, 0},
		{-5, 1},
		{0, 1},
	}
	for _, tc := range cases {
		if got := engine.EnergyFromMeanVolume(tc.db); got != tc.want {
			t.Errorf("EnergyFromMeanVolume(%v) = %v, want %v", tc.db, got, tc.want)
		}
	}
	mid := engine.EnergyFromMeanVolume(-22.5)
	if mid <= 0 || mid >= 1 {
		t.Errorf("mid-range energy should be interior: %v", mid)
	}
}

func TestDefaultFeatures(t *testing.T) {
	f := engine.DefaultFeatures()
	if f.Energy != 0.5 || f.TempoBpm != 120 {
		t.Errorf("unexpected defaults %+v", f)
	}
}
