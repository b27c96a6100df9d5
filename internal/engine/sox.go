package engine

import (
	"context"
	"fmt"

	"github.com/pibulus/hexbloop-sub002/internal/params"
)

// Sox is the effects engine: overdrive, tone, echo, and compression with
// character.
type Sox struct {
	Bin    string
	runner *Runner
}

// NewSox returns an effects engine over the given binary, "sox" when empty.
func NewSox(bin string) *Sox {
	if bin == "" {
		bin = "sox"
	}
	return &Sox{Bin: bin, runner: &Runner{}}
}

// Available reports whether the sox binary resolves.
func (s *Sox) Available() bool { return s.runner.Available(s.Bin) }

// Process applies the parameter vector to in, writing out.
func (s *Sox) Process(ctx context.Context, in, out string, v params.Vector) error {
	_, err := s.runner.Run(ctx, s.Bin, SoxArgs(in, out, v)...)
	if err != nil {
		return fmt.Errorf("effects stage: %w", err)
	}
	return nil
}

// SoxArgs builds the effect chain for the vector. Exported for tests; the
// chain is a pure function of the vector.
func SoxArgs(in, out string, v params.Vector) []string {
	args := []string{in, out,
		"overdrive", fmt.Sprintf("%.1f", v.Overdrive),
		"bass", fmt.Sprintf("%.1f", v.BassGainDb),
		"treble", fmt.Sprintf("%.1f", v.TrebleGainDb),
	}
	if v.Echo.DelaySec > 0 {
		args = append(args, "echo", "0.8", "0.7",
			fmt.Sprintf("%.0f", v.Echo.DelaySec*1000),
			fmt.Sprintf("%.2f", clamp01(v.Echo.DecaySec)))
	}
	if v.Compand.Ratio > 1 {
		// attack,decay then a simple soft-knee transfer shaped by the ratio.
		args = append(args, "compand",
			fmt.Sprintf("%.2f,%.2f", v.Compand.AttackSec, v.Compand.AttackSec*3),
			fmt.Sprintf("6:-70,-60,-%.0f", 30/v.Compand.Ratio),
			"-5", "-90", "0.2")
	}
	return args
}

func clamp01(v float64) float64 {
	if v < 0.01 {
		return 0.01
	}
	if v > 0.99 {
		return 0.99
	}
	return v
}
