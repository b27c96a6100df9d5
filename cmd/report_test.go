package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pibulus/hexbloop-sub002/internal/lunar"
	"github.com/pibulus/hexbloop-sub002/internal/pipeline"
	"github.com/pibulus/hexbloop-sub002/internal/report"
)

func writtenReport(t *testing.T, renderer report.Renderer, name string) string {
	t.Helper()
	inf := lunar.Compute(time.Date(2024, 9, 1, 21, 0, 0, 0, time.UTC))
	now := time.Now()
	rep := report.Build(inf, "out", now, now.Add(time.Minute), []pipeline.Result{
		{
			Status:        pipeline.StatusSucceeded,
			OriginalPath:  "in/demo.wav",
			OutputPath:    "out/moonlit_whisper.mp3",
			GeneratedName: "moonlit_whisper",
		},
		{
			Status:       pipeline.StatusFailed,
			OriginalPath: "in/broken.wav",
		},
	})
	data, err := renderer.Render(rep)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReportCommandSummarizesMarkdown(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	path := writtenReport(t, &report.MarkdownRenderer{}, "session.md")

	out, err := executeCommand(rootCmd, "report", path)
	if err != nil {
		t.Fatalf("report command error: %v", err)
	}
	for _, want := range []string{"moonlit_whisper", "succeeded 1, failed 1, cancelled 0", "moon:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestReportCommandReadsJSON(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	path := writtenReport(t, &report.JSONRenderer{}, "session.json")

	out, err := executeCommand(rootCmd, "report", path)
	if err != nil {
		t.Fatalf("report command error: %v", err)
	}
	if !strings.Contains(out, "moonlit_whisper -> out/moonlit_whisper.mp3") {
		t.Errorf("expected track line in output, got:\n%s", out)
	}
}

func TestReportCommandRejectsNonReport(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	path := filepath.Join(tmp, "notes.md")
	if err := os.WriteFile(path, []byte("# just notes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := executeCommand(rootCmd, "report", path); err == nil {
		t.Error("expected an error for a file without the report sentinel")
	}
}
