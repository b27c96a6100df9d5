package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/pibulus/hexbloop-sub002/internal/lunar"
	"github.com/pibulus/hexbloop-sub002/internal/pipeline"
)

func sampleResults() []pipeline.Result {
	return []pipeline.Result{
		{
			Status:        pipeline.StatusSucceeded,
			OriginalPath:  "in/demo.wav",
			OutputPath:    "out/moonlit_whisper.mp3",
			GeneratedName: "moonlit_whisper",
			ArtworkPath:   "out/moonlit_whisper_cover.png",
			Notes:         []string{"effects applied via ffmpeg fallback"},
		},
		{
			Status:       pipeline.StatusFailed,
			OriginalPath: "in/broken.wav",
			Err:          errors.New("mastering failed"),
		},
	}
}

func TestBuildCountsOutcomes(t *testing.T) {
	inf := lunar.Compute(time.Date(2024, 9, 1, 21, 0, 0, 0, time.UTC))
	start := time.Date(2024, 9, 1, 21, 0, 0, 0, time.UTC)
	rep := Build(inf, "out", start, start.Add(90*time.Second), sampleResults())

	if rep.Session.Succeeded != 1 || rep.Session.Failed != 1 || rep.Session.Cancelled != 0 {
		t.Errorf("unexpected counts: %+v", rep.Session)
	}
	if rep.Session.Duration != "1m30s" {
		t.Errorf("expected duration 1m30s, got %s", rep.Session.Duration)
	}
	if len(rep.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(rep.Tracks))
	}
	if rep.Tracks[1].Error != "mastering failed" {
		t.Errorf("expected error carried into track, got %q", rep.Tracks[1].Error)
	}
}

func TestMarkdownSections(t *testing.T) {
	inf := lunar.Compute(time.Date(2024, 9, 1, 21, 0, 0, 0, time.UTC))
	now := time.Now()
	rep := Build(inf, "out", now, now, sampleResults())

	data, err := (&MarkdownRenderer{}).Render(rep)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"<!-- hexbloop-report-version: 1 -->",
		"## Summary",
		"## Moon",
		"## Tracks",
		"## Notes",
		"moonlit_whisper",
		"effects applied via ffmpeg fallback",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

// Rendering to markdown and parsing the embedded payload back must recover
// the exact report, whatever values the run produced.
func TestMarkdownRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(rt, "tracks")
		results := make([]pipeline.Result, n)
		for i := range results {
			results[i] = pipeline.Result{
				Status:        rapid.SampledFrom([]pipeline.Status{pipeline.StatusSucceeded, pipeline.StatusFailed, pipeline.StatusCancelled}).Draw(rt, "status"),
				OriginalPath:  rapid.StringMatching(`[a-z]{1,12}\.wav`).Draw(rt, "src"),
				GeneratedName: rapid.StringMatching(`[a-z_]{3,20}`).Draw(rt, "name"),
			}
		}
		inf := lunar.Compute(time.Unix(rapid.Int64Range(0, 4e9).Draw(rt, "ts"), 0).UTC())
		now := time.Now().UTC().Truncate(time.Second)
		rep := Build(inf, "out", now, now.Add(time.Minute), results)

		data, err := (&MarkdownRenderer{}).Render(rep)
		if err != nil {
			rt.Fatalf("Render: %v", err)
		}
		got, err := (&MarkdownParser{}).Parse(data)
		if err != nil {
			rt.Fatalf("Parse: %v", err)
		}
		// Compare re-rendered bytes; time.Time values survive JSON but not
		// reflect.DeepEqual.
		again, err := (&MarkdownRenderer{}).Render(got)
		if err != nil {
			rt.Fatalf("Render parsed report: %v", err)
		}
		if string(data) != string(again) {
			rt.Errorf("round trip diverged:\nwant %s\ngot  %s", data, again)
		}
	})
}

func TestMarkdownParserRejectsGarbage(t *testing.T) {
	if _, err := (&MarkdownParser{}).Parse([]byte("# just some markdown\n")); err == nil {
		t.Error("expected error for input without the version sentinel")
	}
	if _, err := (&MarkdownParser{}).Parse([]byte("<!-- hexbloop-report-version: 1 -->\n<!-- hexbloop-data: !!! -->\n")); err == nil {
		t.Error("expected error for corrupted payload")
	}
}
