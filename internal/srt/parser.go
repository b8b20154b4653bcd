// Package srt parses SubRip subtitle files into timed segments.
package srt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/karimjaber/mediarag/internal/chunk"
)

var (
	blockSplit    = regexp.MustCompile(`\n\s*\n`)
	timestampLine = regexp.MustCompile(`(\d{2}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2},\d{3})`)
)

// Parse converts SRT content into ordered segments. Blocks with a
// missing sequence number, an unparseable timestamp line, or fewer than
// three lines are skipped rather than failing the whole file.
func Parse(content string) []chunk.Segment {
	var segments []chunk.Segment

	for _, block := range blockSplit.Split(strings.TrimSpace(content), -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}

		seq, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}

		m := timestampLine.FindStringSubmatch(strings.TrimSpace(lines[1]))
		if m == nil {
			continue
		}

		start, err := parseTimestamp(m[1])
		if err != nil {
			continue
		}
		end, err := parseTimestamp(m[2])
		if err != nil {
			continue
		}

		segments = append(segments, chunk.Segment{
			Sequence: seq,
			StartSec: start,
			EndSec:   end,
			Text:     strings.TrimSpace(strings.Join(lines[2:], "\n")),
		})
	}

	return segments
}

// parseTimestamp converts an SRT timestamp (HH:MM:SS,mmm) to seconds.
func parseTimestamp(ts string) (float64, error) {
	ts = strings.Replace(ts, ",", ".", 1)
	parts := strings.Split(ts, ":")

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, err
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}
