package synthesis

import (
	"fmt"
	"strings"

	"github.com/karimjaber/mediarag/internal/index"
)

const (
	summaryTextLimit = 500
	chunkTextLimit   = 300
)

// promptHeader steers the generator toward confident, cited answers
// over the two evidence tiers. The section ordering and framing below
// are load-bearing; tests assert structure, not exact wording.
var promptHeader = []string{
	"You are an expert research assistant analyzing documents from a mixed-media library.",
	"Your task is to provide a direct, comprehensive answer based on two tiers of information:",
	"- Tier 1: Document summaries (high-level context with speaker/author metadata)",
	"- Tier 2: Specific chunks with precise anchors (detailed evidence)",
	"",
	"IMPORTANT INSTRUCTIONS:",
	"- If the question asks about a specific person's views, and you see that person",
	"  listed as speaker/author in the summaries, USE THEIR CONTENT.",
	"- Be direct and confident in attributing statements when the metadata clearly identifies the speaker.",
	"- Don't say 'the documents don't attribute' if the speaker metadata shows who is speaking.",
	"",
	"CITATION RULES:",
	"- Always cite sources using [S1], [S2] for summaries and [C1], [C2] for chunks",
	"- Include anchors like [Page 5] or [12:30-13:45] when citing chunks",
	"- Prefer citing specific chunks over summaries when available",
	"- Multiple citations are encouraged: [C1][C2]",
	"",
}

// BuildPrompt renders the synthesis prompt: instruction header, Tier 1
// summaries, Tier 2 chunks with anchors, the question, and answer
// instructions, in that fixed order.
//
// A summary with neither descriptive metadata nor text is not rendered
// but still consumes its [S#] index, leaving a numbering gap. The gap
// keeps indices aligned with list positions in the returned evidence.
func BuildPrompt(question string, summaries, chunks []index.Result, language string) string {
	lines := append([]string{}, promptHeader...)

	if len(summaries) > 0 {
		lines = append(lines, "=== TIER 1: DOCUMENT SUMMARIES ===")
		for i, s := range summaries {
			title := s.Title
			if title == "" {
				title = s.Metadata["title"]
			}
			if title == "" {
				title = "Unknown Document"
			}

			var docMeta []string
			if speaker := s.Metadata["speaker"]; speaker != "" {
				docMeta = append(docMeta, "Speaker: "+speaker)
			} else if author := s.Metadata["author"]; author != "" {
				docMeta = append(docMeta, "Author: "+author)
			}
			if org := s.Metadata["organization"]; org != "" {
				docMeta = append(docMeta, "Organization: "+org)
			}
			if date := s.Metadata["date"]; date != "" {
				docMeta = append(docMeta, "Date: "+date)
			}
			if docType := s.Metadata["document_type"]; docType != "" {
				docMeta = append(docMeta, "Type: "+docType)
			}
			metaStr := strings.Join(docMeta, " | ")

			text := s.Text
			if text == "" {
				text = s.Metadata["text"]
			}

			if text == "" && metaStr == "" {
				continue
			}

			lines = append(lines, fmt.Sprintf("\n[S%d] %s", i+1, title))
			if metaStr != "" {
				lines = append(lines, "   "+metaStr)
			}
			if text != "" {
				lines = append(lines, "   Summary: "+truncate(text, summaryTextLimit))
			}
		}
		lines = append(lines, "")
	}

	if len(chunks) > 0 {
		lines = append(lines, "=== TIER 2: SPECIFIC CHUNKS (WITH ANCHORS) ===")
		for i, c := range chunks {
			text := c.Text
			if text == "" {
				text = c.Metadata["text"]
			}
			if text == "" {
				text = c.Metadata["text_original"]
			}

			sourceLine := SourceID(c)
			if anchor := FormatAnchor(c.Metadata); anchor != "" {
				sourceLine += " " + anchor
			}

			lines = append(lines, fmt.Sprintf("\n[C%d] %s", i+1, sourceLine))
			lines = append(lines, "   "+truncate(text, chunkTextLimit))
		}
		lines = append(lines, "")
	}

	if len(summaries) == 0 && len(chunks) == 0 {
		lines = append(lines, "=== NO RELEVANT DOCUMENTS FOUND ===", "")
	}

	answerLanguage := language
	if answerLanguage == "en" {
		answerLanguage = "English"
	}

	lines = append(lines,
		"=== QUESTION ===",
		question,
		"",
		"=== INSTRUCTIONS ===",
		fmt.Sprintf("Answer in %s.", answerLanguage),
		"Structure your answer as follows:",
		"1. Direct answer to the question (2-3 sentences)",
		"2. Supporting evidence with citations",
		"3. Additional context if relevant",
		"",
		"IMPORTANT:",
		"- Cite every factual claim",
		"- Use [S1], [S2] for summaries and [C1], [C2] for chunks",
		"- When citing chunks, mention the anchor: 'According to the analysis [C1][Page 5]...'",
		"- For video/audio: 'As stated in the interview [C2][12:30-13:45]...'",
		"- Be specific and precise",
		"- If the sources don't fully answer the question, acknowledge the gaps",
		"",
		"Now provide your synthesized answer:",
	)

	return strings.Join(lines, "\n")
}

// truncate cuts text at limit runes with an ellipsis marker.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
