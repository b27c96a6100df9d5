// Package report builds a session report from a batch run: which files went
// in, what they became, and the temporal influence that shaped them.
package report

import (
	"time"

	"github.com/pibulus/hexbloop-sub002/internal/lunar"
	"github.com/pibulus/hexbloop-sub002/internal/pipeline"
)

// Report is the complete, renderable record of one processing session.
type Report struct {
	Session SessionMeta `json:"session"`
	Moon    MoonMeta    `json:"moon"`
	Tracks  []Track     `json:"tracks"`
}

// SessionMeta holds summary metadata about the batch.
type SessionMeta struct {
	StartTime time.Time `json:"start_time"`
	StopTime  time.Time `json:"stop_time"`
	Duration  string    `json:"duration"` // human-readable, e.g. "1m42s"
	OutputDir string    `json:"output_dir"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Cancelled int       `json:"cancelled"`
}

// MoonMeta snapshots the temporal influence the session ran under.
type MoonMeta struct {
	Phase         string  `json:"phase"`
	CycleFraction float64 `json:"cycle_fraction"`
	Illumination  float64 `json:"illumination"`
	TimeOfDay     string  `json:"time_of_day"`
}

// Track is the per-file outcome row.
type Track struct {
	Name     string   `json:"name"`
	Source   string   `json:"source"`
	Output   string   `json:"output,omitempty"`
	Artwork  string   `json:"artwork,omitempty"`
	Status   string   `json:"status"`
	Notes    []string `json:"notes,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Build assembles a Report from a finished batch.
func Build(inf lunar.Influence, outputDir string, start, stop time.Time, results []pipeline.Result) *Report {
	rep := &Report{
		Session: SessionMeta{
			StartTime: start,
			StopTime:  stop,
			Duration:  stop.Sub(start).Round(time.Second).String(),
			OutputDir: outputDir,
		},
		Moon: MoonMeta{
			Phase:         inf.PhaseName.String(),
			CycleFraction: inf.LunarPhase,
			Illumination:  inf.Illumination,
			TimeOfDay:     inf.TimeCategory.String(),
		},
	}
	for _, r := range results {
		t := Track{
			Name:    r.GeneratedName,
			Source:  r.OriginalPath,
			Output:  r.OutputPath,
			Artwork: r.ArtworkPath,
			Status:  string(r.Status),
			Notes:   r.Notes,
		}
		if r.Err != nil {
			t.Error = r.Err.Error()
		}
		switch r.Status {
		case pipeline.StatusSucceeded:
			rep.Session.Succeeded++
		case pipeline.StatusFailed:
			rep.Session.Failed++
		case pipeline.StatusCancelled:
			rep.Session.Cancelled++
		}
		rep.Tracks = append(rep.Tracks, t)
	}
	return rep
}
