// Package pipeline sequences the per-file mastering state machine:
// validate → effects → mastering → artwork → metadata → cleanup. Each stage
// with a degraded path swallows its own failure into a diagnostic note; each
// file's failure is isolated from the rest of the batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pibulus/hexbloop-sub002/internal/artwork"
	"github.com/pibulus/hexbloop-sub002/internal/chaos"
	"github.com/pibulus/hexbloop-sub002/internal/config"
	"github.com/pibulus/hexbloop-sub002/internal/counter"
	"github.com/pibulus/hexbloop-sub002/internal/engine"
	"github.com/pibulus/hexbloop-sub002/internal/lunar"
	"github.com/pibulus/hexbloop-sub002/internal/metadata"
	"github.com/pibulus/hexbloop-sub002/internal/naming"
	"github.com/pibulus/hexbloop-sub002/internal/params"
)

// EffectsEngine is one strategy for the effects stage. Strategies are tried
// in order; any failure moves to the next.
type EffectsEngine interface {
	Name() string
	Apply(ctx context.Context, in, out string, v params.Vector) error
}

// MasteringEngine runs the corrective mastering pass.
type MasteringEngine interface {
	Master(ctx context.Context, in, out string, spec engine.OutputSpec) error
}

// CoverRenderer produces the cover image file.
type CoverRenderer interface {
	Render(in artwork.Inputs, opts artwork.Options, path string) error
}

// TagEmbedder writes metadata into the finished file.
type TagEmbedder interface {
	Embed(ctx context.Context, path string, tags metadata.Tags) error
}

// FeatureAnalyzer estimates audio features; it never fails, only degrades.
type FeatureAnalyzer interface {
	Analyze(ctx context.Context, path string) engine.Features
}

// Orchestrator owns the wired collaborators. Fields are exported so tests
// can substitute fakes behind the narrow interfaces.
type Orchestrator struct {
	Cfg       config.Config
	Effects   []EffectsEngine
	Mastering MasteringEngine
	Cover     CoverRenderer
	Embedder  TagEmbedder
	Analyzer  FeatureAnalyzer
	Batcher   *naming.Batcher
	Progress  ProgressFunc
	Log       *slog.Logger
	Now       func() time.Time
}

// New wires an Orchestrator over the real external engines.
func New(cfg config.Config, store counter.Store) *Orchestrator {
	sox := engine.NewSox(cfg.SoxBin)
	ff := engine.NewFFmpeg(cfg.FFmpegBin, cfg.FFprobeBin)
	analyzer := engine.NewAnalyzer(ff)
	if cfg.AubioBin != "" {
		analyzer.AubioBin = cfg.AubioBin
	}

	var src *chaos.Source
	if cfg.Seed != 0 {
		src = chaos.NewSource(cfg.Seed)
	}

	return &Orchestrator{
		Cfg: cfg,
		Effects: []EffectsEngine{
			&soxEffects{sox},
			&ffmpegEffects{ff},
		},
		Mastering: ff,
		Cover: fileCover{export: artwork.ExportOptions{
			Format:      cfg.ArtworkFormat,
			JPEGQuality: cfg.JPEGQuality,
		}},
		Embedder:  metadata.NewEmbedder(ff),
		Analyzer:  analyzer,
		Batcher:   naming.NewBatcher(naming.NewGenerator(src), store),
		Progress:  func(Event) {},
		Log:       slog.Default(),
		Now:       time.Now,
	}
}

// soxEffects adapts the sox engine to the strategy interface.
type soxEffects struct{ sox *engine.Sox }

func (s *soxEffects) Name() string { return "sox" }
func (s *soxEffects) Apply(ctx context.Context, in, out string, v params.Vector) error {
	return s.sox.Process(ctx, in, out, v)
}

// ffmpegEffects is the approximating fallback strategy.
type ffmpegEffects struct{ ff *engine.FFmpeg }

func (f *ffmpegEffects) Name() string { return "ffmpeg" }
func (f *ffmpegEffects) Apply(ctx context.Context, in, out string, v params.Vector) error {
	return f.ff.ApplyEffects(ctx, in, out, v)
}

// fileCover renders covers through the artwork package, encoding with the
// configured export options.
type fileCover struct {
	export artwork.ExportOptions
}

func (f fileCover) Render(in artwork.Inputs, opts artwork.Options, path string) error {
	img, err := artwork.Generate(in, opts)
	if err != nil {
		return err
	}
	return artwork.WriteFile(path, img, f.export)
}

func (o *Orchestrator) emit(e Event) {
	if o.Progress != nil {
		o.Progress(e)
	}
}

// batchOptions translates config into naming batch options.
func (o *Orchestrator) batchOptions() naming.BatchOptions {
	opts := naming.DefaultBatchOptions()
	opts.Scheme = naming.ParseScheme(o.Cfg.NamingScheme)
	opts.Numbering = naming.ParseNumberingStyle(o.Cfg.NumberingStyle)
	if o.Cfg.Prefix != "" {
		opts.Prefix = o.Cfg.Prefix
	}
	if o.Cfg.Suffix != "" {
		opts.Suffix = o.Cfg.Suffix
	}
	if o.Cfg.Separator != "" {
		opts.Separator = o.Cfg.Separator
	}
	if o.Cfg.Padding > 0 {
		opts.Padding = o.Cfg.Padding
	}
	opts.Folder = naming.ParseFolderScheme(o.Cfg.FolderScheme)
	if style, ok := naming.ParseStyle(o.Cfg.NamingStyle); ok {
		opts.Style, opts.StyleFixed = style, true
	}
	return opts
}

// ProcessBatch runs the pipeline over inputs and returns one Result per
// input, in order. Files run sequentially unless Cfg.Workers > 1.
func (o *Orchestrator) ProcessBatch(ctx context.Context, inputs []string) []Result {
	inf := lunar.Compute(o.Now())
	opts := o.batchOptions()
	records := o.Batcher.GenerateBatch(inf, inputs, opts)

	outDir := o.Cfg.OutputDir
	if folder, err := o.Batcher.SessionFolder(inf, opts.Folder); err != nil {
		o.Log.Warn("session folder claim failed, writing to output dir", "error", err)
	} else if folder != "" {
		outDir = filepath.Join(outDir, folder)
	}

	results := make([]Result, len(inputs))
	workers := o.Cfg.Workers
	if workers <= 1 {
		for i, in := range inputs {
			results[i] = o.processFile(ctx, in, records[i], outDir, inf, i, len(inputs))
		}
		return results
	}

	// Bounded workers; every file gets its own workspace and its own seeded
	// generators, so the only shared state is the counter store.
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = o.processFile(ctx, in, records[i], outDir, inf, i, len(inputs))
		}(i, in)
	}
	wg.Wait()
	return results
}

// ProcessFile runs the pipeline for a single input.
func (o *Orchestrator) ProcessFile(ctx context.Context, input string) Result {
	return o.ProcessBatch(ctx, []string{input})[0]
}

func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// processFile is the sequential per-file state machine. Cleanup runs exactly
// once on every exit path, including panics from collaborator fakes.
func (o *Orchestrator) processFile(ctx context.Context, input string, rec naming.Record, outDir string, inf lunar.Influence, index, total int) (res Result) {
	res = Result{OriginalPath: input, GeneratedName: rec.Text, Status: StatusFailed}
	base := filepath.Base(input)

	o.emit(Event{Index: index, Total: total, FileName: base, Stage: StageValidating})
	if err := o.validate(input); err != nil {
		res.Err = err
		// No workspace yet, but every exit path reports cleanup exactly once.
		o.emit(Event{Index: index, Total: total, FileName: base, Stage: StageCleaningUp})
		return res
	}

	workDir, err := os.MkdirTemp("", "hexbloop-"+uuid.NewString()[:8]+"-*")
	if err != nil {
		res.Err = fmt.Errorf("creating workspace: %w", err)
		o.emit(Event{Index: index, Total: total, FileName: base, Stage: StageCleaningUp})
		return res
	}
	defer func() {
		o.emit(Event{Index: index, Total: total, FileName: base, Stage: StageCleaningUp})
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			o.Log.Warn("workspace cleanup failed", "dir", workDir, "error", rmErr)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Status = StatusCancelled
		return res
	}

	vector := params.Synthesize(inf, nil)
	current := input

	if !o.Cfg.DisableEffects {
		o.emit(Event{Index: index, Total: total, FileName: base, Stage: StageEffects})
		out := filepath.Join(workDir, "fx"+filepath.Ext(input))
		note, err := o.runEffects(ctx, current, out, vector)
		if err != nil {
			if cancelled(err) {
				res.Status = StatusCancelled
				return res
			}
			res.Err = err
			return res
		}
		if note != "" {
			res.Notes = append(res.Notes, note)
		}
		current = out
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		res.Err = fmt.Errorf("creating output directory: %w", err)
		return res
	}
	outPath := filepath.Join(outDir, rec.Text+"."+strings.TrimPrefix(o.Cfg.Format, "."))

	if o.Cfg.DisableMastering {
		if err := copyFile(current, outPath); err != nil {
			res.Err = fmt.Errorf("writing output: %w", err)
			return res
		}
	} else {
		o.emit(Event{Index: index, Total: total, FileName: base, Stage: StageMastering})
		spec := engine.OutputSpec{Format: o.Cfg.Format, BitRate: o.Cfg.BitRate, SampleRate: o.Cfg.SampleRate}
		if err := o.Mastering.Master(ctx, current, outPath, spec); err != nil {
			if cancelled(err) {
				res.Status = StatusCancelled
				return res
			}
			res.Err = stageErr(StageMastering, ErrToolFailed, err)
			return res
		}
	}

	if !o.Cfg.DisableArtwork {
		o.emit(Event{Index: index, Total: total, FileName: base, Stage: StageArtwork})
		artPath, err := o.runArtwork(ctx, outPath, rec, inf)
		if err != nil {
			if cancelled(err) {
				res.Status = StatusCancelled
				return res
			}
			// Artwork failures never abort the audio.
			o.Log.Warn("artwork generation failed", "file", base, "error", err)
			res.Notes = append(res.Notes, (&StageError{Stage: StageArtwork, Err: fmt.Errorf("%w: %w", ErrArtworkFailed, err)}).Error())
		} else {
			res.ArtworkPath = artPath
		}
	}

	if !o.Cfg.DisableMetadata {
		o.emit(Event{Index: index, Total: total, FileName: base, Stage: StageMetadata})
		tags := metadata.Tags{
			Title:       rec.Text,
			Artist:      o.Cfg.Artist,
			Album:       o.Cfg.Album,
			Genre:       metadata.GenreForStyle(rec.Style),
			Comment:     vector.Description,
			ArtworkPath: res.ArtworkPath,
		}
		if err := o.Embedder.Embed(ctx, outPath, tags); err != nil {
			if cancelled(err) {
				res.Status = StatusCancelled
				return res
			}
			// Deliver the untagged file rather than failing.
			o.Log.Warn("metadata embed failed", "file", base, "error", err)
			res.Notes = append(res.Notes, (&StageError{Stage: StageMetadata, Err: fmt.Errorf("%w: %w", ErrMetadataFailed, err)}).Error())
		}
	}

	res.Status = StatusSucceeded
	res.OutputPath = outPath
	res.Err = nil
	return res
}

// validate rejects anything that is not an existing regular file with an
// allow-listed audio extension.
func (o *Orchestrator) validate(input string) error {
	info, err := os.Stat(input)
	if err != nil {
		return stageErr(StageValidating, ErrInvalidInput, err)
	}
	if !info.Mode().IsRegular() {
		return stageErr(StageValidating, ErrInvalidInput, fmt.Errorf("%s is not a regular file", input))
	}
	ext := strings.ToLower(filepath.Ext(input))
	for _, allowed := range o.Cfg.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}
	return stageErr(StageValidating, ErrInvalidInput, fmt.Errorf("unrecognized audio extension %q", ext))
}

// runEffects walks the strategy list in order. The returned note names the
// winning strategy when it was not the primary.
func (o *Orchestrator) runEffects(ctx context.Context, in, out string, v params.Vector) (string, error) {
	var lastErr error
	anyRan := false
	for i, eng := range o.Effects {
		err := eng.Apply(ctx, in, out, v)
		if err == nil {
			if i > 0 {
				return fmt.Sprintf("effects applied via %s fallback", eng.Name()), nil
			}
			return "", nil
		}
		if cancelled(err) {
			return "", err
		}
		if !errors.Is(err, engine.ErrToolUnavailable) {
			anyRan = true
		}
		o.Log.Debug("effects strategy failed, trying next", "strategy", eng.Name(), "error", err)
		lastErr = err
	}
	if anyRan {
		return "", stageErr(StageEffects, ErrToolFailed, lastErr)
	}
	return "", stageErr(StageEffects, ErrToolUnavailable, lastErr)
}

// runArtwork renders the cover next to the output file.
func (o *Orchestrator) runArtwork(ctx context.Context, outPath string, rec naming.Record, inf lunar.Influence) (string, error) {
	feats := engine.DefaultFeatures()
	if o.Analyzer != nil {
		feats = o.Analyzer.Analyze(ctx, outPath)
	}

	in := artwork.Inputs{
		Style:       artStyleFor(rec.Style),
		Seed:        seedFor(rec.Text, o.Cfg.Seed),
		AudioEnergy: feats.Energy,
		TempoBpm:    feats.TempoBpm,
		MoonPhase:   inf.LunarPhase,
	}
	size := o.Cfg.ArtworkSize
	if size <= 0 {
		size = artwork.DefaultOptions().Width
	}
	opts := artwork.Options{Width: size, Height: size, Label: rec.Text, FontPath: o.Cfg.FontPath}

	ext := o.Cfg.ArtworkFormat
	if ext == "" {
		ext = "png"
	}
	artPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "_cover." + ext
	if err := o.Cover.Render(in, opts, artPath); err != nil {
		return "", err
	}
	return artPath, nil
}

// artStyleFor maps the name's vocabulary onto an artwork style family.
func artStyleFor(style naming.Style) string {
	switch style {
	case naming.Sparklepop:
		return "vaporwave"
	case naming.Dark:
		return "witchhouse"
	case naming.Glitch:
		return "glitchcore"
	default:
		return "auto"
	}
}

// seedFor derives the artwork seed from the generated name so the cover is
// reproducible for a given name, tweaked by the configured base seed.
func seedFor(name string, base int64) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64()&0x7fffffffffffffff) ^ base
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
