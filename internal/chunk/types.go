package chunk

import "time"

// SourceType identifies the kind of source a chunk was extracted from.
type SourceType string

const (
	SourceTypePDF   SourceType = "pdf"
	SourceTypeAudio SourceType = "audio"
	SourceTypeVideo SourceType = "video"
	SourceTypeImage SourceType = "image"
	SourceTypeSRT   SourceType = "srt"
)

// Segment is the atomic unit of extracted content before windowing:
// one subtitle entry, one ASR segment. Immutable once produced.
type Segment struct {
	Sequence int
	StartSec float64
	EndSec   float64
	Text     string
}

// Window is a group of consecutive segments bounded by a maximum
// temporal span. It carries no source identity; see NewTimeChunk.
type Window struct {
	Text         string
	StartSec     float64
	EndSec       float64
	SegmentCount int
}

// Source describes the document a set of chunks belongs to.
type Source struct {
	ID    string
	Type  SourceType
	Title string
	URI   string
	Lang  string
}

// Chunk is the unit persisted to the index. At most one positional
// scheme (page, slide, or start/end seconds) is populated. The ID is a
// deterministic function of the source coordinates, so re-ingesting the
// same source overwrites rather than duplicates.
type Chunk struct {
	ID           string
	SourceID     string
	SourceType   SourceType
	Title        string
	URI          string
	Text         string
	TextOriginal string // pre-translation text, when translation ran
	Lang         string
	Page         *int
	Slide        *int
	StartSec     *float64
	EndSec       *float64
	DurationSec  float64
	SegmentCount int
	ContentHash  string
	CreatedAt    time.Time
}

// NewTimeChunk builds a chunk from a time window of the given source.
func NewTimeChunk(src Source, w Window) Chunk {
	start, end := w.StartSec, w.EndSec
	return Chunk{
		ID:           DeterministicID(src.ID, src.Type, nil, nil, &start, &end, ""),
		SourceID:     src.ID,
		SourceType:   src.Type,
		Title:        src.Title,
		URI:          src.URI,
		Text:         w.Text,
		Lang:         src.Lang,
		StartSec:     &start,
		EndSec:       &end,
		DurationSec:  end - start,
		SegmentCount: w.SegmentCount,
		ContentHash:  ContentHash(w.Text),
		CreatedAt:    time.Now().UTC(),
	}
}

// NewPageChunk builds a chunk from one extracted page of the given source.
func NewPageChunk(src Source, page int, text string) Chunk {
	p := page
	return Chunk{
		ID:          DeterministicID(src.ID, src.Type, &p, nil, nil, nil, ""),
		SourceID:    src.ID,
		SourceType:  src.Type,
		Title:       src.Title,
		URI:         src.URI,
		Text:        text,
		Lang:        src.Lang,
		Page:        &p,
		ContentHash: ContentHash(text),
		CreatedAt:   time.Now().UTC(),
	}
}

// NewPlainChunk builds a chunk with no positional anchor, such as an
// image caption. The extra string disambiguates multiple anchor-free
// chunks from the same source.
func NewPlainChunk(src Source, text, extra string) Chunk {
	return Chunk{
		ID:          DeterministicID(src.ID, src.Type, nil, nil, nil, nil, extra),
		SourceID:    src.ID,
		SourceType:  src.Type,
		Title:       src.Title,
		URI:         src.URI,
		Text:        text,
		Lang:        src.Lang,
		ContentHash: ContentHash(text),
		CreatedAt:   time.Now().UTC(),
	}
}
