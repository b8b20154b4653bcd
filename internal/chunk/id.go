package chunk

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// DeterministicID derives a stable 40-char hex identifier from source
// coordinates so updates overwrite instead of duplicating. Absent
// optional fields serialize as the placeholder "nil", which keeps a
// missing value distinguishable from a legitimate zero.
func DeterministicID(sourceID string, sourceType SourceType, page, slide *int, startSec, endSec *float64, extra string) string {
	key := fmt.Sprintf("src=%s|type=%s|page=%s|slide=%s|start=%s|end=%s|%s",
		sourceID, sourceType,
		intField(page), intField(slide),
		floatField(startSec), floatField(endSec),
		extra,
	)
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// intField renders an optional integer in canonical form.
func intField(v *int) string {
	if v == nil {
		return "nil"
	}
	return strconv.Itoa(*v)
}

// floatField renders an optional float in canonical form. The shortest
// round-trip representation is used so 1.0 and 1 hash identically no
// matter how the value was parsed upstream.
func floatField(v *float64) string {
	if v == nil {
		return "nil"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// ContentHash returns the sha256 hex digest of the given text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
