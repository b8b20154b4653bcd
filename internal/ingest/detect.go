// Package ingest discovers media files, routes them through extraction
// and chunking, and lands the results in the manifest and the index.
package ingest

import (
	"path/filepath"
	"strings"

	"github.com/karimjaber/mediarag/internal/chunk"
)

// extensionToType maps file extensions to source types.
var extensionToType = map[string]chunk.SourceType{
	".pdf":  chunk.SourceTypePDF,
	".mp3":  chunk.SourceTypeAudio,
	".wav":  chunk.SourceTypeAudio,
	".m4a":  chunk.SourceTypeAudio,
	".flac": chunk.SourceTypeAudio,
	".ogg":  chunk.SourceTypeAudio,
	".mp4":  chunk.SourceTypeVideo,
	".mov":  chunk.SourceTypeVideo,
	".mkv":  chunk.SourceTypeVideo,
	".webm": chunk.SourceTypeVideo,
	".avi":  chunk.SourceTypeVideo,
	".png":  chunk.SourceTypeImage,
	".jpg":  chunk.SourceTypeImage,
	".jpeg": chunk.SourceTypeImage,
	".gif":  chunk.SourceTypeImage,
	".webp": chunk.SourceTypeImage,
	".srt":  chunk.SourceTypeSRT,
}

// DetectType returns the source type for a filename based on its
// extension. The second return is false for unrecognized files.
func DetectType(filename string) (chunk.SourceType, bool) {
	t, ok := extensionToType[strings.ToLower(filepath.Ext(filename))]
	return t, ok
}

// SourceIDFromPath derives a stable source id from a file path: the
// base name without extension, lowercased, with spaces replaced.
func SourceIDFromPath(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.ToLower(base)
	return strings.ReplaceAll(base, " ", "_")
}
