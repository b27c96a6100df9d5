package naming_test

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/pibulus/hexbloop-sub002/internal/chaos"
	"github.com/pibulus/hexbloop-sub002/internal/counter"
	"github.com/pibulus/hexbloop-sub002/internal/lunar"
	"github.com/pibulus/hexbloop-sub002/internal/naming"
)

func TestToAlpha(t *testing.T) {
	cases := map[int]string{1: "A", 2: "B", 26: "Z", 27: "AA", 28: "AB", 52: "AZ", 53: "BA", 702: "ZZ", 703: "AAA"}
	for n, want := range cases {
		if got := naming.ToAlpha(n); got != want {
			t.Errorf("ToAlpha(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestToRoman(t *testing.T) {
	cases := map[int]string{1: "i", 4: "iv", 9: "ix", 14: "xiv", 40: "xl", 90: "xc", 400: "cd", 1994: "mcmxciv", 2024: "mmxxiv", 3999: "mmmcmxcix"}
	for n, want := range cases {
		if got := naming.ToRoman(n); got != want {
			t.Errorf("ToRoman(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFormatNumberPadding(t *testing.T) {
	if got := naming.FormatNumber(naming.Numeric, 7, 3); got != "007" {
		t.Errorf("numeric padding: got %q", got)
	}
	if got := naming.FormatNumber(naming.Alphabetic, 27, 3); got != "AA" {
		t.Errorf("alphabetic: got %q", got)
	}
	if got := naming.FormatNumber(naming.Roman, 4, 3); got != "iv" {
		t.Errorf("roman: got %q", got)
	}
}

func batcher(t *testing.T) *naming.Batcher {
	t.Helper()
	store := counter.NewStoreAt(filepath.Join(t.TempDir(), "c.json"))
	return naming.NewBatcher(naming.NewGenerator(chaos.NewSource(4242)), store)
}

func testInfluence() lunar.Influence {
	return lunar.Compute(time.Date(2024, 9, 1, 21, 0, 0, 0, time.UTC))
}

func TestSequentialScheme(t *testing.T) {
	b := batcher(t)
	opts := naming.DefaultBatchOptions()
	opts.Scheme = naming.Sequential
	opts.Prefix = "demo"

	recs := b.GenerateBatch(testInfluence(), make([]string, 3), opts)
	want := []string{"demo_001", "demo_002", "demo_003"}
	for i, r := range recs {
		if r.Text != want[i] {
			t.Errorf("record %d = %q, want %q", i, r.Text, want[i])
		}
	}
}

func TestTimestampSchemeNamesAreDistinct(t *testing.T) {
	b := batcher(t)
	opts := naming.DefaultBatchOptions()
	opts.Scheme = naming.Timestamp

	recs := b.GenerateBatch(testInfluence(), make([]string, 5), opts)
	seen := map[string]bool{}
	for _, r := range recs {
		if seen[r.Text] {
			t.Fatalf("timestamp scheme produced duplicate %q", r.Text)
		}
		seen[r.Text] = true
		if r.NumberingToken == "" {
			t.Fatalf("timestamp scheme must number every file, got %+v", r)
		}
	}
}

func TestHybridSchemeAppendsCounter(t *testing.T) {
	b := batcher(t)
	opts := naming.DefaultBatchOptions()
	opts.Scheme = naming.Hybrid
	opts.Numbering = naming.Roman

	recs := b.GenerateBatch(testInfluence(), make([]string, 4), opts)
	for i, r := range recs {
		if !strings.HasSuffix(r.Text, naming.ToRoman(i+1)) {
			t.Errorf("record %d %q lacks roman counter %q", i, r.Text, naming.ToRoman(i+1))
		}
		if !naming.Valid(r.Text) {
			t.Errorf("invalid hybrid name %q", r.Text)
		}
	}
}

func TestFixedStyleAppliesToEveryRecord(t *testing.T) {
	b := batcher(t)
	opts := naming.DefaultBatchOptions()
	opts.Style, opts.StyleFixed = naming.Dark, true

	recs := b.GenerateBatch(testInfluence(), make([]string, 6), opts)
	for i, r := range recs {
		if r.Style != naming.Dark {
			t.Errorf("record %d style = %v, want dark", i, r.Style)
		}
	}
}

func TestPreserveScheme(t *testing.T) {
	b := batcher(t)
	opts := naming.DefaultBatchOptions()
	opts.Scheme = naming.Preserve

	recs := b.GenerateBatch(testInfluence(), []string{"/music/demo take.wav"}, opts)
	if recs[0].Text != "demotake_blooped" {
		t.Errorf("preserve name = %q", recs[0].Text)
	}
}

func TestPreserveSchemeSameStemsStayDistinct(t *testing.T) {
	b := batcher(t)
	opts := naming.DefaultBatchOptions()
	opts.Scheme = naming.Preserve

	recs := b.GenerateBatch(testInfluence(), []string{"/music/demo.wav", "/music/demo.mp3", "/music/demo.flac"}, opts)
	seen := map[string]bool{}
	for _, r := range recs {
		if seen[r.Text] {
			t.Fatalf("preserve scheme produced duplicate %q for same-stem inputs", r.Text)
		}
		seen[r.Text] = true
		if !naming.Valid(r.Text) {
			t.Errorf("invalid preserve name %q", r.Text)
		}
	}
	if recs[0].Text != "demo_blooped" {
		t.Errorf("first record = %q, want the plain stem", recs[0].Text)
	}
}

// Names become output paths, so every scheme must be collision-free within a
// batch regardless of seed or batch size.
func TestBatchNamesNeverCollide(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64Range(1, 1<<40).Draw(rt, "seed")
		size := rapid.IntRange(2, 24).Draw(rt, "size")
		scheme := rapid.SampledFrom([]naming.Scheme{
			naming.Mystical, naming.Sequential, naming.Timestamp, naming.Hybrid, naming.Preserve,
		}).Draw(rt, "scheme")

		store := counter.NewStoreAt(filepath.Join(t.TempDir(), "c.json"))
		b := naming.NewBatcher(naming.NewGenerator(chaos.NewSource(seed)), store)
		opts := naming.DefaultBatchOptions()
		opts.Scheme = scheme

		originals := make([]string, size)
		for i := range originals {
			// Repeated stems are the worst case for the preserve scheme.
			originals[i] = "/in/take.wav"
		}

		recs := b.GenerateBatch(testInfluence(), originals, opts)
		seen := map[string]bool{}
		for i, r := range recs {
			if seen[r.Text] {
				rt.Fatalf("scheme %v seed %d: duplicate name %q at index %d", scheme, seed, r.Text, i)
			}
			seen[r.Text] = true
			if !naming.Valid(r.Text) {
				rt.Errorf("scheme %v produced invalid name %q", scheme, r.Text)
			}
		}
	})
}

// Seed 42 draws the same mystical base twice in a ten-file batch; the batch
// must still come out with ten distinct names.
func TestMysticalSchemeDeduplicatesRepeatedDraws(t *testing.T) {
	store := counter.NewStoreAt(filepath.Join(t.TempDir(), "c.json"))
	b := naming.NewBatcher(naming.NewGenerator(chaos.NewSource(42)), store)
	opts := naming.DefaultBatchOptions()
	opts.Scheme = naming.Mystical

	recs := b.GenerateBatch(testInfluence(), make([]string, 10), opts)
	seen := map[string]bool{}
	for _, r := range recs {
		if seen[r.Text] {
			t.Fatalf("mystical batch produced duplicate %q", r.Text)
		}
		seen[r.Text] = true
	}
}

func TestSessionFolderClaims(t *testing.T) {
	b := batcher(t)
	inf := testInfluence()

	a, err := b.SessionFolder(inf, naming.GlobalFolder)
	if err != nil {
		t.Fatal(err)
	}
	bb, err := b.SessionFolder(inf, naming.GlobalFolder)
	if err != nil {
		t.Fatal(err)
	}
	if a == bb {
		t.Fatalf("two folder claims returned the same slot %q", a)
	}
	if a != "session_001" || bb != "session_002" {
		t.Errorf("unexpected folder names %q, %q", a, bb)
	}
}

func TestMoonFolderUsesPhaseKey(t *testing.T) {
	b := batcher(t)
	inf := testInfluence()
	name, err := b.SessionFolder(inf, naming.MoonFolder)
	if err != nil {
		t.Fatal(err)
	}
	phase := strings.ReplaceAll(inf.PhaseName.String(), " ", "_")
	if !strings.HasPrefix(name, phase) {
		t.Errorf("moon folder %q does not carry phase %q", name, phase)
	}
}

func TestNoFolderIsEmpty(t *testing.T) {
	b := batcher(t)
	name, err := b.SessionFolder(testInfluence(), naming.NoFolder)
	if err != nil || name != "" {
		t.Fatalf("NoFolder should be a no-op, got %q, %v", name, err)
	}
}
