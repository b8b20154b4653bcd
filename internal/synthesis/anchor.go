package synthesis

import (
	"fmt"
	"strconv"
)

// FormatAnchor renders positional metadata as a short citation marker,
// most specific scheme first: a timestamp range beats a page, a page
// beats a slide. Values that fail to parse fall through to the next
// rule; nothing applicable yields an empty string.
func FormatAnchor(metadata map[string]string) string {
	if start, okS := parseNumber(metadata, "start_sec"); okS {
		if end, okE := parseNumber(metadata, "end_sec"); okE {
			return fmt.Sprintf("[%02d:%02d-%02d:%02d]",
				int(start)/60, int(start)%60,
				int(end)/60, int(end)%60)
		}
	}

	if page, ok := parseNumber(metadata, "page"); ok {
		return fmt.Sprintf("[Page %d]", int(page))
	}

	if slide, ok := parseNumber(metadata, "slide"); ok {
		return fmt.Sprintf("[Slide %d]", int(slide))
	}

	return ""
}

// parseNumber reads a metadata field as a float. Absent or
// non-numeric values report !ok rather than an error.
func parseNumber(metadata map[string]string, key string) (float64, bool) {
	raw, ok := metadata[key]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
