package synthesis

import (
	"path"
	"strings"

	"github.com/karimjaber/mediarag/internal/index"
)

// summaryIDPrefix marks document-summary records in the index.
const summaryIDPrefix = "summary_"

// Tiered splits retrieved results into the two evidence tiers. Order
// within each list follows the input order, which reflects the index's
// relevance ranking.
type Tiered struct {
	Summaries []index.Result
	Chunks    []index.Result
	Total     int
}

// Categorize assigns each result to a tier. A result is a summary when
// its ID carries the summary prefix or its metadata type says so; the
// ID/type heuristic is the sole discriminator.
func Categorize(results []index.Result) Tiered {
	t := Tiered{Total: len(results)}
	for _, r := range results {
		if strings.HasPrefix(r.ID, summaryIDPrefix) || r.Metadata["type"] == "document_summary" {
			t.Summaries = append(t.Summaries, r)
		} else {
			t.Chunks = append(t.Chunks, r)
		}
	}
	return t
}

// SourceID resolves a display identifier for a result. The fallback
// order is fixed because downstream citation text depends on it:
// explicit metadata, then the youtube:// video id, then the object
// store filename stem, then the result's own ID, then "unknown".
func SourceID(r index.Result) string {
	if sid, ok := r.Metadata["source_id"]; ok && sid != "" {
		return sid
	}

	uri := r.Metadata["source_uri"]
	if uri != "" {
		if i := strings.Index(uri, "youtube://"); i >= 0 {
			rest := uri[i+len("youtube://"):]
			if j := strings.Index(rest, "/"); j >= 0 {
				rest = rest[:j]
			}
			return rest
		}
		if strings.Contains(uri, "gs://") {
			base := path.Base(uri)
			// Stem is everything before the first dot.
			if i := strings.Index(base, "."); i >= 0 {
				base = base[:i]
			}
			return base
		}
	}

	if r.ID != "" {
		return r.ID
	}
	return "unknown"
}
