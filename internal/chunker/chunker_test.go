package chunker

import (
	"fmt"
	"strings"
	"testing"
)

// words builds a space-joined sequence of n distinct words.
func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestNew_RejectsInvalidWindow(t *testing.T) {
	cases := []struct {
		name      string
		size      int
		overlap   int
		wantError bool
	}{
		{"valid", 500, 50, false},
		{"zero overlap", 100, 0, false},
		{"overlap equals size", 100, 100, true},
		{"overlap exceeds size", 100, 150, true},
		{"zero size", 0, 0, true},
		{"negative overlap", 100, -1, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.size, tc.overlap)
			if tc.wantError && err == nil {
				t.Errorf("New(%d, %d): expected error, got nil", tc.size, tc.overlap)
			}
			if !tc.wantError && err != nil {
				t.Errorf("New(%d, %d): unexpected error: %v", tc.size, tc.overlap, err)
			}
		})
	}
}

func TestSplit_EmptyText(t *testing.T) {
	s, err := New(500, 50)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, text := range []string{"", "   ", "\n\t  \n"} {
		if chunks := s.Split(text); len(chunks) != 0 {
			t.Errorf("Split(%q): expected no chunks, got %d", text, len(chunks))
		}
	}
}

func TestSplit_SingleChunk(t *testing.T) {
	s, err := New(500, 50)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// 120 words fit in one window; no snapping on the final chunk.
	chunks := s.Split(words(120))
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}

	c := chunks[0]
	if c.Index != 0 {
		t.Errorf("Index: expected 0, got %d", c.Index)
	}
	if c.StartWord != 0 || c.EndWord != 120 {
		t.Errorf("Word range: expected [0, 120), got [%d, %d)", c.StartWord, c.EndWord)
	}
	if c.WordCount != 120 {
		t.Errorf("WordCount: expected 120, got %d", c.WordCount)
	}
	if c.Text != words(120) {
		t.Errorf("Text was altered for a single-window document")
	}
}

// TestSplit_OverlapBookkeeping covers the reference scenario: 1200 words
// with a 500-word window and 50-word overlap produce exactly three chunks
// advancing by 450 words each.
func TestSplit_OverlapBookkeeping(t *testing.T) {
	s, err := New(500, 50)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	chunks := s.Split(words(1200))
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}

	wantStart := []int{0, 450, 900}
	wantEnd := []int{500, 950, 1200}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("Chunk %d: Index = %d", i, c.Index)
		}
		if c.StartWord != wantStart[i] {
			t.Errorf("Chunk %d: StartWord = %d, want %d", i, c.StartWord, wantStart[i])
		}
		if c.EndWord != wantEnd[i] {
			t.Errorf("Chunk %d: EndWord = %d, want %d", i, c.EndWord, wantEnd[i])
		}
		if c.WordCount != c.EndWord-c.StartWord {
			t.Errorf("Chunk %d: WordCount = %d, want %d", i, c.WordCount, c.EndWord-c.StartWord)
		}
	}
}

// TestSplit_CoversAllWords checks the no-gap invariant across assorted
// window shapes: chunk ranges must union to the whole word sequence and
// indexes must be contiguous from zero.
func TestSplit_CoversAllWords(t *testing.T) {
	cases := []struct {
		n, size, overlap int
	}{
		{1, 10, 0},
		{10, 10, 3},
		{11, 10, 3},
		{257, 64, 16},
		{1200, 500, 50},
		{999, 100, 99},
	}

	for _, tc := range cases {
		name := fmt.Sprintf("n=%d size=%d overlap=%d", tc.n, tc.size, tc.overlap)
		t.Run(name, func(t *testing.T) {
			s, err := New(tc.size, tc.overlap)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			chunks := s.Split(words(tc.n))

			covered := make([]bool, tc.n)
			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("Chunk %d has Index %d", i, c.Index)
				}
				if c.StartWord >= c.EndWord {
					t.Errorf("Chunk %d has empty range [%d, %d)", i, c.StartWord, c.EndWord)
				}
				for w := c.StartWord; w < c.EndWord; w++ {
					covered[w] = true
				}
			}
			for w, ok := range covered {
				if !ok {
					t.Fatalf("Word %d not covered by any chunk", w)
				}
			}
		})
	}
}

func TestSplit_SentenceSnapping(t *testing.T) {
	s, err := New(10, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// The 8th word ends a sentence; the first chunk's text should stop
	// right after it while the word window stays at 10 words.
	text := "one two three four five six seven end. nine ten eleven twelve thirteen fourteen fifteen sixteen"
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("Expected at least 2 chunks, got %d", len(chunks))
	}

	first := chunks[0]
	if !strings.HasSuffix(first.Text, "end.") {
		t.Errorf("Expected text snapped to sentence end, got %q", first.Text)
	}
	if strings.Contains(first.Text, "nine") || strings.Contains(first.Text, "ten") {
		t.Errorf("Snapped text still contains trailing words: %q", first.Text)
	}
	if first.EndWord != 10 {
		t.Errorf("EndWord must reflect the untruncated window: got %d, want 10", first.EndWord)
	}
	if first.WordCount != 10 {
		t.Errorf("WordCount must reflect the untruncated window: got %d, want 10", first.WordCount)
	}
}

func TestSplit_SnapPicksRightmostBoundary(t *testing.T) {
	s, err := New(10, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	text := "alpha beta. gamma delta! epsilon zeta eta? theta iota kappa lambda mu nu xi omicron pi"
	chunks := s.Split(text)

	// "eta?" is the right-most sentence end inside the first window.
	if !strings.HasSuffix(chunks[0].Text, "eta?") {
		t.Errorf("Expected snap at right-most boundary, got %q", chunks[0].Text)
	}
}

func TestSplit_NoSnapOnFinalChunk(t *testing.T) {
	s, err := New(10, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Sentence end mid-text, but the whole text fits one window: no snap.
	text := "one two. three four five"
	chunks := s.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("Final chunk must keep its full text, got %q", chunks[0].Text)
	}
}

func TestSplit_NoBoundaryInTail(t *testing.T) {
	s, err := New(5, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	chunks := s.Split(words(12))
	// No punctuation anywhere: every chunk keeps its joined window text.
	for i, c := range chunks {
		want := strings.Join(strings.Fields(words(12))[c.StartWord:c.EndWord], " ")
		if c.Text != want {
			t.Errorf("Chunk %d: text altered without a sentence boundary: %q", i, c.Text)
		}
	}
}
