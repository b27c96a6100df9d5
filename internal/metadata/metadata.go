// Package metadata embeds tags and cover art into mastered output. MP3 gets
// direct ID3v2 writes; other containers go through an ffmpeg stream-copy
// remux. Embedding failures degrade: the caller keeps the untagged file.
package metadata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/pibulus/hexbloop-sub002/internal/engine"
	"github.com/pibulus/hexbloop-sub002/internal/naming"
)

// Tags are the values written into the output file.
type Tags struct {
	Title       string
	Artist      string
	Album       string
	Genre       string
	Comment     string
	ArtworkPath string // optional cover image (png or jpeg)
}

// GenreForStyle maps a naming style to the genre tag.
func GenreForStyle(style naming.Style) string {
	switch style {
	case naming.Sparklepop:
		return "Hyperpop"
	case naming.Dark:
		return "Darkwave"
	case naming.Glitch:
		return "Glitch"
	default:
		return "Electronic"
	}
}

// Embedder writes tags into finished files.
type Embedder struct {
	ffmpeg *engine.FFmpeg
}

// NewEmbedder returns an Embedder using f for non-MP3 containers.
func NewEmbedder(f *engine.FFmpeg) *Embedder {
	return &Embedder{ffmpeg: f}
}

// Embed writes tags into path in place.
func (e *Embedder) Embed(ctx context.Context, path string, tags Tags) error {
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		return e.embedID3(path, tags)
	}
	return e.embedRemux(ctx, path, tags)
}

// embedID3 writes ID3v2 frames directly, cover art included.
func (e *Embedder) embedID3(path string, tags Tags) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("opening id3 tag: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(tags.Title)
	tag.SetArtist(tags.Artist)
	tag.SetAlbum(tags.Album)
	tag.SetGenre(tags.Genre)
	if tags.Comment != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding: id3v2.EncodingUTF8,
			Language: "eng",
			Text:     tags.Comment,
		})
	}

	if tags.ArtworkPath != "" {
		art, err := os.ReadFile(tags.ArtworkPath)
		if err != nil {
			return fmt.Errorf("reading artwork: %w", err)
		}
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    mimeFor(tags.ArtworkPath),
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     art,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("saving id3 tag: %w", err)
	}
	return nil
}

// embedRemux rewrites the container with metadata via stream copy, then
// swaps the result over the original.
func (e *Embedder) embedRemux(ctx context.Context, path string, tags Tags) error {
	tmp := path + ".tagged" + filepath.Ext(path)
	args := RemuxArgs(path, tmp, tags)

	runner := &engine.Runner{}
	if _, err := runner.Run(ctx, e.ffmpeg.Bin, args...); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("metadata remux: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing tagged file: %w", err)
	}
	return nil
}

// RemuxArgs builds the ffmpeg stream-copy command for tags. Cover art rides
// along only for containers that carry attached pictures.
func RemuxArgs(in, out string, tags Tags) []string {
	args := []string{"-y", "-i", in}

	withArt := tags.ArtworkPath != "" && supportsAttachedArt(out)
	if withArt {
		args = append(args, "-i", tags.ArtworkPath, "-map", "0:a", "-map", "1", "-disposition:v", "attached_pic")
	}

	args = append(args, "-c", "copy")
	for k, v := range map[string]string{
		"title":   tags.Title,
		"artist":  tags.Artist,
		"album":   tags.Album,
		"genre":   tags.Genre,
		"comment": tags.Comment,
	} {
		if v != "" {
			args = append(args, "-metadata", k+"="+v)
		}
	}
	return append(args, out)
}

func supportsAttachedArt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m4a", ".mp4", ".flac":
		return true
	}
	return false
}

func mimeFor(path string) string {
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".jpg" || ext == ".jpeg" {
		return "image/jpeg"
	}
	return "image/png"
}
