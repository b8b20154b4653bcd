package chunk

import "strings"

// DefaultWindowSeconds is the maximum temporal span of one chunk for
// time-based sources.
const DefaultWindowSeconds = 30.0

// WindowSegments groups time-ordered segments into windows whose span
// does not exceed windowSeconds. A window closes when the next segment
// would extend it past the limit and it already holds at least one
// segment, so a single oversized segment still becomes its own window
// rather than being split. Windows whose combined text is empty are
// suppressed. An empty input yields an empty output.
func WindowSegments(segments []Segment, windowSeconds float64) []Window {
	if windowSeconds <= 0 {
		windowSeconds = DefaultWindowSeconds
	}

	var windows []Window
	var current []Segment
	var windowStart float64

	flush := func() {
		if len(current) == 0 {
			return
		}
		w := Window{
			Text:         joinTexts(current),
			StartSec:     windowStart,
			EndSec:       current[len(current)-1].EndSec,
			SegmentCount: len(current),
		}
		if strings.TrimSpace(w.Text) != "" {
			windows = append(windows, w)
		}
		current = nil
	}

	for _, seg := range segments {
		if len(current) > 0 && seg.EndSec-windowStart > windowSeconds {
			flush()
			windowStart = seg.StartSec
		} else if len(current) == 0 {
			windowStart = seg.StartSec
		}
		current = append(current, seg)
	}
	flush()

	return windows
}

// joinTexts space-joins segment texts. Missing text contributes an
// empty string rather than an error.
func joinTexts(segments []Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}

// Page is one extracted page of a paginated document.
type Page struct {
	Number int
	Text   string
}

// PageChunks maps pages of a source to chunks one-to-one, dropping
// pages whose extracted text is empty or whitespace.
func PageChunks(src Source, pages []Page) []Chunk {
	var chunks []Chunk
	for _, p := range pages {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		chunks = append(chunks, NewPageChunk(src, p.Number, p.Text))
	}
	return chunks
}
