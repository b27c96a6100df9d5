// Package config loads and merges hexbloop settings. The merged Config is
// the single configuration object handed to the pipeline; the UI shell that
// produced it is somebody else's problem.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable hexbloop settings.
type Config struct {
	OutputDir  string `json:"output_dir"`
	Format     string `json:"format"`      // mp3 | wav | flac | m4a | ogg
	BitRate    string `json:"bit_rate"`    // lossy formats, e.g. "320k"
	SampleRate int    `json:"sample_rate"` // e.g. 44100

	// Stage toggles; zero value runs the full pipeline.
	DisableEffects   bool `json:"disable_effects"`
	DisableMastering bool `json:"disable_mastering"`
	DisableArtwork   bool `json:"disable_artwork"`
	DisableMetadata  bool `json:"disable_metadata"`

	// Naming options.
	NamingScheme   string `json:"naming_scheme"` // mystical | sequential | timestamp | hybrid | preserve
	NamingStyle    string `json:"naming_style"`  // sparklepop | dark | glitch | mixed | auto
	Prefix         string `json:"prefix"`        // sequential scheme
	Suffix         string `json:"suffix"`        // preserve scheme
	Separator      string `json:"separator"`
	NumberingStyle string `json:"numbering_style"` // numeric | alphabetic | roman
	Padding        int    `json:"padding"`
	FolderScheme   string `json:"folder_scheme"` // none | date | moon | global
	Seed           int64  `json:"seed"`          // 0 = non-reproducible

	// Artwork options.
	ArtworkSize   int    `json:"artwork_size"`
	ArtworkFormat string `json:"artwork_format"` // png | jpeg
	JPEGQuality   int    `json:"jpeg_quality"`
	FontPath      string `json:"font_path"` // label overlay face, optional

	// Metadata defaults.
	Artist string `json:"artist"`
	Album  string `json:"album"`

	// External binaries; empty means resolve from PATH.
	SoxBin     string `json:"sox_bin"`
	FFmpegBin  string `json:"ffmpeg_bin"`
	FFprobeBin string `json:"ffprobe_bin"`
	AubioBin   string `json:"aubio_bin"`

	// Batch concurrency; 1 = sequential.
	Workers int `json:"workers"`

	// Accepted input extensions (with dots).
	AllowedExtensions []string `json:"allowed_extensions"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		OutputDir:      ".",
		Format:         "mp3",
		BitRate:        "320k",
		SampleRate:     44100,
		NamingScheme:   "mystical",
		NamingStyle:    "auto",
		Separator:      "_",
		NumberingStyle: "numeric",
		Padding:        3,
		FolderScheme:   "none",
		ArtworkSize:    800,
		ArtworkFormat:  "png",
		JPEGQuality:    90,
		Artist:         "hexbloop",
		Album:          "chaos sessions",
		Workers:        1,
		AllowedExtensions: []string{
			".mp3", ".wav", ".flac", ".m4a", ".aac", ".ogg", ".aiff", ".aif",
		},
	}
}

// LoadGlobal reads ~/.config/hexbloop/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "hexbloop", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .hexbloopconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".hexbloopconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults. Stage toggles OR
// together: disabling a stage anywhere disables it.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, layer := range []*Config{global, project} {
		if layer == nil {
			continue
		}
		applyStrings(&result, layer)
		if layer.SampleRate != 0 {
			result.SampleRate = layer.SampleRate
		}
		if layer.Padding != 0 {
			result.Padding = layer.Padding
		}
		if layer.ArtworkSize != 0 {
			result.ArtworkSize = layer.ArtworkSize
		}
		if layer.JPEGQuality != 0 {
			result.JPEGQuality = layer.JPEGQuality
		}
		if layer.Workers != 0 {
			result.Workers = layer.Workers
		}
		if layer.Seed != 0 {
			result.Seed = layer.Seed
		}
		if len(layer.AllowedExtensions) > 0 {
			result.AllowedExtensions = layer.AllowedExtensions
		}
		result.DisableEffects = result.DisableEffects || layer.DisableEffects
		result.DisableMastering = result.DisableMastering || layer.DisableMastering
		result.DisableArtwork = result.DisableArtwork || layer.DisableArtwork
		result.DisableMetadata = result.DisableMetadata || layer.DisableMetadata
	}
	return result
}

// applyStrings copies every non-empty string field from layer.
func applyStrings(result, layer *Config) {
	pairs := []struct {
		dst *string
		src string
	}{
		{&result.OutputDir, layer.OutputDir},
		{&result.Format, layer.Format},
		{&result.BitRate, layer.BitRate},
		{&result.NamingScheme, layer.NamingScheme},
		{&result.NamingStyle, layer.NamingStyle},
		{&result.Prefix, layer.Prefix},
		{&result.Suffix, layer.Suffix},
		{&result.Separator, layer.Separator},
		{&result.NumberingStyle, layer.NumberingStyle},
		{&result.FolderScheme, layer.FolderScheme},
		{&result.ArtworkFormat, layer.ArtworkFormat},
		{&result.FontPath, layer.FontPath},
		{&result.Artist, layer.Artist},
		{&result.Album, layer.Album},
		{&result.SoxBin, layer.SoxBin},
		{&result.FFmpegBin, layer.FFmpegBin},
		{&result.FFprobeBin, layer.FFprobeBin},
		{&result.AubioBin, layer.AubioBin},
	}
	for _, p := range pairs {
		if p.src != "" {
			*p.dst = p.src
		}
	}
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
