package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/karimjaber/mediarag/internal/chunk"
)

// skipDirs are directory names skipped entirely during traversal.
var skipDirs = []string{
	".git",
	".mediarag",
	"node_modules",
	".idea",
	".vscode",
}

// FileInfo holds metadata about a single media file discovered during
// traversal.
type FileInfo struct {
	Path        string           // Absolute path on disk.
	RelPath     string           // Path relative to the root directory.
	Size        int64            // File size in bytes.
	Type        chunk.SourceType // Detected media type.
	ContentHash string           // SHA-256 hex digest of the file content.
}

// ScanConfig controls the behaviour of the Scan function.
type ScanConfig struct {
	RootDir string   // Root directory to walk.
	Include []string // Glob patterns — only matching files are included.
	Exclude []string // Glob patterns — matching files are excluded.
}

// Scan traverses the directory tree rooted at config.RootDir and returns
// metadata for every media file that passes filtering. Files with
// unrecognized extensions are skipped silently.
func Scan(config ScanConfig) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	var files []FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if d.IsDir() {
			if shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		mediaType, ok := DetectType(path)
		if !ok {
			return nil
		}

		if !matchesInclude(relPath, config.Include) {
			return nil
		}
		if matchesExclude(relPath, config.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		hash, err := hashFile(path)
		if err != nil {
			return nil
		}

		files = append(files, FileInfo{
			Path:        path,
			RelPath:     filepath.ToSlash(relPath),
			Size:        info.Size(),
			Type:        mediaType,
			ContentHash: hash,
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", config.RootDir, err)
	}

	return files, nil
}

func shouldSkipDir(name string) bool {
	for _, skip := range skipDirs {
		if strings.EqualFold(name, skip) {
			return true
		}
	}
	return false
}

// matchesInclude returns true if the path matches any include pattern.
// An empty pattern list includes everything.
func matchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// matchesExclude returns true if the path matches any exclude pattern.
func matchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny checks if relPath matches any of the given glob patterns.
// It uses doublestar for ** support and also matches bare filenames.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}

		base := filepath.Base(normalized)
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// hashFile computes the SHA-256 digest of the given file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
