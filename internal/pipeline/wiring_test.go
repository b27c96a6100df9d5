package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/pibulus/hexbloop-sub002/internal/config"
	"github.com/pibulus/hexbloop-sub002/internal/counter"
)

// The configured artwork format and JPEG quality must reach the cover
// encoder, not stop at the config struct.
func TestNewWiresCoverExportOptions(t *testing.T) {
	cfg := config.Defaults()
	cfg.ArtworkFormat = "jpeg"
	cfg.JPEGQuality = 55

	o := New(cfg, counter.NewStoreAt(filepath.Join(t.TempDir(), "c.json")))
	fc, ok := o.Cover.(fileCover)
	if !ok {
		t.Fatalf("expected the default cover renderer, got %T", o.Cover)
	}
	if fc.export.Format != "jpeg" {
		t.Errorf("export format = %q, want jpeg", fc.export.Format)
	}
	if fc.export.JPEGQuality != 55 {
		t.Errorf("export quality = %d, want 55", fc.export.JPEGQuality)
	}
}
