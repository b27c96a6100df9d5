package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Renderer serializes a Report to bytes.
type Renderer interface {
	Render(rep *Report) ([]byte, error)
}

// JSONRenderer renders a Report as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(rep *Report) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}

// MarkdownRenderer renders a Report as human-readable Markdown with an
// embedded base64 JSON payload for lossless round-trip parsing.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(rep *Report) ([]byte, error) {
	jsonBytes, err := json.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(jsonBytes)

	var sb strings.Builder

	// Sentinel and embedded payload.
	sb.WriteString("<!-- hexbloop-report-version: 1 -->\n")
	fmt.Fprintf(&sb, "<!-- hexbloop-data: %s -->\n\n", encoded)

	// Title.
	fmt.Fprintf(&sb, "# hexbloop session — %s\n\n",
		rep.Session.StopTime.Format("2006-01-02 15:04:05 MST"),
	)

	// ## Summary
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Duration: %s\n", rep.Session.Duration)
	fmt.Fprintf(&sb, "- Output: %s\n", rep.Session.OutputDir)
	fmt.Fprintf(&sb, "- Succeeded: %d, failed: %d, cancelled: %d\n",
		rep.Session.Succeeded, rep.Session.Failed, rep.Session.Cancelled)
	sb.WriteString("\n")

	// ## Moon
	sb.WriteString("## Moon\n\n")
	fmt.Fprintf(&sb, "- Phase: %s (%.1f%% through the cycle)\n",
		rep.Moon.Phase, rep.Moon.CycleFraction*100)
	fmt.Fprintf(&sb, "- Illumination: %.0f%%\n", rep.Moon.Illumination*100)
	fmt.Fprintf(&sb, "- Time of day: %s\n", rep.Moon.TimeOfDay)
	sb.WriteString("\n")

	// ## Tracks
	sb.WriteString("## Tracks\n\n")
	if len(rep.Tracks) == 0 {
		sb.WriteString("_No tracks processed._\n")
	} else {
		sb.WriteString("| Name | Source | Output | Status |\n")
		sb.WriteString("|------|--------|--------|--------|\n")
		for _, t := range rep.Tracks {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", t.Name, t.Source, t.Output, t.Status)
		}
	}
	sb.WriteString("\n")

	// ## Notes
	var notes []string
	for _, t := range rep.Tracks {
		for _, n := range t.Notes {
			notes = append(notes, fmt.Sprintf("%s: %s", t.Name, n))
		}
		if t.Error != "" {
			notes = append(notes, fmt.Sprintf("%s: %s", t.Name, t.Error))
		}
	}
	sb.WriteString("## Notes\n\n")
	if len(notes) == 0 {
		sb.WriteString("_Clean run._\n")
	} else {
		for _, n := range notes {
			fmt.Fprintf(&sb, "- %s\n", n)
		}
	}
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}
