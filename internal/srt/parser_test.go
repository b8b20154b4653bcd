package srt

import "testing"

const sample = `1
00:00:20,000 --> 00:00:24,400
First subtitle line
continued on a second line

2
00:00:24,600 --> 00:00:27,800
Next subtitle

not-a-number
00:00:30,000 --> 00:00:32,000
Skipped block

3
garbage timestamp
Also skipped
`

func TestParse(t *testing.T) {
	segments := Parse(sample)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}

	first := segments[0]
	if first.Sequence != 1 {
		t.Errorf("expected sequence 1, got %d", first.Sequence)
	}
	if first.StartSec != 20.0 {
		t.Errorf("expected start 20.0, got %f", first.StartSec)
	}
	if first.EndSec != 24.4 {
		t.Errorf("expected end 24.4, got %f", first.EndSec)
	}
	if first.Text != "First subtitle line\ncontinued on a second line" {
		t.Errorf("unexpected text: %q", first.Text)
	}

	if segments[1].Sequence != 2 {
		t.Errorf("expected sequence 2, got %d", segments[1].Sequence)
	}
}

func TestParse_HourTimestamps(t *testing.T) {
	content := `1
01:02:03,500 --> 01:02:05,000
Late in the recording
`
	segments := Parse(content)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	want := 1*3600 + 2*60 + 3.5
	if segments[0].StartSec != want {
		t.Errorf("expected start %f, got %f", want, segments[0].StartSec)
	}
}

func TestParse_Empty(t *testing.T) {
	if got := Parse(""); len(got) != 0 {
		t.Errorf("expected no segments for empty input, got %d", len(got))
	}
}

func TestParse_CRLFTolerance(t *testing.T) {
	// Windows line endings inside the text are preserved as-is after trim;
	// block structure still parses when separated by blank lines.
	content := "1\n00:00:01,000 --> 00:00:02,000\nhello\n\n2\n00:00:03,000 --> 00:00:04,000\nworld\n"
	segments := Parse(content)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
}
