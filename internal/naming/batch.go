package naming

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pibulus/hexbloop-sub002/internal/counter"
	"github.com/pibulus/hexbloop-sub002/internal/lunar"
)

// Scheme selects how a batch of files is named.
type Scheme int

const (
	Mystical   Scheme = iota // independent generated name per file
	Sequential               // fixed prefix + counter
	Timestamp                // shared session timestamp + per-file counter
	Hybrid                   // generated base + counter suffix
	Preserve                 // original stem + marker suffix
)

var schemeNames = [...]string{"mystical", "sequential", "timestamp", "hybrid", "preserve"}

func (s Scheme) String() string {
	if s < Mystical || s > Preserve {
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
	return schemeNames[s]
}

// ParseScheme resolves a scheme from config, defaulting to mystical.
func ParseScheme(s string) Scheme {
	for i, name := range schemeNames {
		if s == name {
			return Scheme(i)
		}
	}
	return Mystical
}

// FolderScheme selects the counter key used for session folder names.
type FolderScheme int

const (
	NoFolder    FolderScheme = iota
	DateFolder               // counter keyed by calendar date
	MoonFolder               // counter keyed by lunar phase name
	GlobalFolder             // one monotonic counter
)

// ParseFolderScheme resolves a folder scheme from config.
func ParseFolderScheme(s string) FolderScheme {
	switch s {
	case "date":
		return DateFolder
	case "moon":
		return MoonFolder
	case "global":
		return GlobalFolder
	}
	return NoFolder
}

// BatchOptions carries the caller-configured batch naming behavior.
type BatchOptions struct {
	Scheme     Scheme
	Prefix     string // sequential scheme base
	Suffix     string // preserve scheme marker
	Numbering  NumberingStyle
	Padding    int
	Separator  string
	Folder     FolderScheme
	Style      Style // generated-name style when StyleFixed
	StyleFixed bool  // force Style instead of the influence-weighted pick
}

// DefaultBatchOptions returns the defaults used when config is silent.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Scheme:    Mystical,
		Prefix:    "track",
		Suffix:    "_blooped",
		Numbering: Numeric,
		Padding:   3,
		Separator: "_",
	}
}

// Batcher names whole batches, claiming session-folder slots through the
// counter store.
type Batcher struct {
	gen   *Generator
	store counter.Store
}

// NewBatcher returns a Batcher. store may be nil when no folder scheme is in
// use; folder claims against a nil store fail.
func NewBatcher(gen *Generator, store counter.Store) *Batcher {
	return &Batcher{gen: gen, store: store}
}

// GenerateBatch names len(originals) files under opts. originals supplies
// the stems for the preserve scheme; other schemes only use its length.
func (b *Batcher) GenerateBatch(inf lunar.Influence, originals []string, opts BatchOptions) []Record {
	sep := opts.Separator
	if sep == "" {
		sep = "_"
	}

	// The timestamp scheme shares one session stamp across the batch, so a
	// per-file counter is mandatory to keep names distinct.
	stamp := time.Now().Format("20060102_150405")

	records := make([]Record, len(originals))
	seen := make(map[string]struct{}, len(originals))
	for i, orig := range originals {
		n := i + 1
		token := FormatNumber(opts.Numbering, n, opts.Padding)

		switch opts.Scheme {
		case Sequential:
			prefix := opts.Prefix
			if prefix == "" {
				prefix = "track"
			}
			records[i] = Record{
				Text:           Sanitize(prefix+sep+token, Mixed),
				Style:          Mixed,
				NumberingToken: token,
			}
		case Timestamp:
			records[i] = Record{
				Text:           Sanitize("session"+sep+stamp+sep+token, Mixed),
				Style:          Mixed,
				NumberingToken: token,
			}
		case Hybrid:
			r := b.draw(inf, opts)
			r.NumberingToken = token
			r.Text = Sanitize(r.Text+sep+token, r.Style)
			records[i] = r
		case Preserve:
			stem := strings.TrimSuffix(filepath.Base(orig), filepath.Ext(orig))
			text := Sanitize(stem+opts.Suffix, Mixed)
			if !Valid(text) {
				text = fallbackName(time.Now())
			}
			records[i] = Record{Text: text, Style: Mixed}
		default: // Mystical
			records[i] = b.draw(inf, opts)
		}

		if !Valid(records[i].Text) {
			records[i].Text = fallbackName(time.Now())
		}

		// Names double as output paths, so a repeat within the batch would
		// overwrite a sibling's file.
		records[i] = b.uniquify(records[i], seen, inf, opts, sep, token)
		seen[records[i].Text] = struct{}{}
	}
	return records
}

// draw generates one name, honoring a configured fixed style.
func (b *Batcher) draw(inf lunar.Influence, opts BatchOptions) Record {
	if opts.StyleFixed {
		return b.gen.GenerateStyled(inf, opts.Style)
	}
	return b.gen.Generate(inf)
}

// uniquify rewrites rec until its text is unused within the batch. Generated
// schemes redraw first; otherwise the numbering token is appended, trimming
// the base so the suffix always fits under the length ceiling.
func (b *Batcher) uniquify(rec Record, seen map[string]struct{}, inf lunar.Influence, opts BatchOptions, sep, token string) Record {
	if _, dup := seen[rec.Text]; !dup {
		return rec
	}
	if opts.Scheme == Mystical {
		for tries := 0; tries < 8; tries++ {
			r := b.draw(inf, opts)
			if !Valid(r.Text) {
				continue
			}
			if _, dup := seen[r.Text]; !dup {
				return r
			}
		}
	}
	base := rec.Text
	rec.NumberingToken = token
	for n := 0; ; n++ {
		suffix := sep + token
		if n > 0 {
			suffix += sep + strconv.Itoa(n)
		}
		head := base
		if over := len([]rune(base)) + len([]rune(suffix)) - maxNameLen; over > 0 {
			head = string([]rune(base)[:len([]rune(base))-over])
		}
		rec.Text = Sanitize(head+suffix, rec.Style)
		if _, dup := seen[rec.Text]; !dup {
			return rec
		}
	}
}

// SessionFolder claims the next folder slot for the scheme and returns the
// folder name. The counter claim is atomic, so two sessions under the same
// key can never receive the same folder even across process restarts.
func (b *Batcher) SessionFolder(inf lunar.Influence, scheme FolderScheme) (string, error) {
	if scheme == NoFolder {
		return "", nil
	}
	if b.store == nil {
		return "", fmt.Errorf("session folders require a counter store")
	}

	var key, label string
	switch scheme {
	case DateFolder:
		key = "date:" + time.Now().Format("2006-01-02")
		label = time.Now().Format("2006-01-02")
	case MoonFolder:
		phase := strings.ReplaceAll(inf.PhaseName.String(), " ", "_")
		key = "moon:" + phase
		label = phase
	default:
		key = "global"
		label = "session"
	}

	n, err := b.store.Next(key)
	if err != nil {
		return "", fmt.Errorf("claiming session folder slot: %w", err)
	}
	return fmt.Sprintf("%s_%03d", label, n), nil
}
