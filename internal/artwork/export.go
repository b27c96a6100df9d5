package artwork

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ExportOptions control the encoded output.
type ExportOptions struct {
	Format         string               // "png" or "jpeg"; inferred from path when empty
	PNGCompression png.CompressionLevel // png only
	JPEGQuality    int                  // jpeg only, 1-100
}

// DefaultExportOptions favors smaller files at default speed.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:         "png",
		PNGCompression: png.DefaultCompression,
		JPEGQuality:    90,
	}
}

// Encode streams img to w. This is the write path to use for large canvases;
// nothing is buffered beyond the encoder's own working set.
func Encode(w io.Writer, img image.Image, opts ExportOptions) error {
	switch strings.ToLower(opts.Format) {
	case "", "png":
		enc := png.Encoder{CompressionLevel: opts.PNGCompression}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("encoding png: %w", err)
		}
		return nil
	case "jpg", "jpeg":
		q := opts.JPEGQuality
		if q < 1 || q > 100 {
			q = DefaultExportOptions().JPEGQuality
		}
		if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
			return fmt.Errorf("encoding jpeg: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported artwork format %q", opts.Format)
	}
}

// WriteFile is the whole-buffer convenience path: encode to path, format
// inferred from the extension when opts.Format is empty.
func WriteFile(path string, img image.Image, opts ExportOptions) error {
	if opts.Format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".jpg", ".jpeg":
			opts.Format = "jpeg"
		default:
			opts.Format = "png"
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating artwork file: %w", err)
	}
	if err := Encode(f, img, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing artwork file: %w", err)
	}
	return nil
}
