// Package chunker splits extracted document text into overlapping,
// sentence-aligned word windows for indexing and retrieval.
package chunker

import (
	"errors"
	"strings"
)

// Default window parameters, matching the service configuration defaults.
const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50

	// boundaryTail is how many trailing words are inspected when looking
	// for a sentence boundary to snap the chunk text to.
	boundaryTail = 50
)

// ErrInvalidWindow is returned when the requested window parameters would
// make the split cursor stall or regress.
var ErrInvalidWindow = errors.New("chunker: overlap must be smaller than chunk size")

// Chunk is one contiguous word-range fragment of a document.
//
// StartWord and EndWord are 0-based offsets into the document's word
// sequence. Consecutive chunks overlap by the configured word count; the
// union of all [StartWord, EndWord) ranges covers every word exactly once
// or more. When sentence snapping truncates Text, EndWord still reflects
// the full untruncated window so overlap bookkeeping stays exact.
type Chunk struct {
	Index     int
	Text      string
	StartWord int
	EndWord   int
	WordCount int
}

// Splitter produces chunks of roughly chunkSize words with a fixed overlap
// between consecutive chunks.
type Splitter struct {
	chunkSize int
	overlap   int
}

// New validates the window parameters and returns a Splitter. A zero or
// negative chunk size, a negative overlap, or overlap >= chunkSize is
// rejected here so Split itself never has to guard against a
// non-terminating cursor.
func New(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 || overlap < 0 || overlap >= chunkSize {
		return nil, ErrInvalidWindow
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split breaks text into ordered chunks. Text with no words yields an
// empty slice. The function is pure: no I/O, deterministic output.
func (s *Splitter) Split(text string) []Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []Chunk
	start := 0
	for start < len(words) {
		end := start + s.chunkSize
		if end > len(words) {
			end = len(words)
		}
		window := words[start:end]
		candidate := strings.Join(window, " ")

		// Snap to the right-most sentence end in the trailing words, but
		// only when more of the document follows: the overlap region will
		// re-cover whatever the snap discards.
		if end < len(words) {
			candidate = snapToSentence(candidate, window)
		}

		chunks = append(chunks, Chunk{
			Index:     len(chunks),
			Text:      strings.TrimSpace(candidate),
			StartWord: start,
			EndWord:   end,
			WordCount: len(window),
		})

		start += s.chunkSize - s.overlap
	}
	return chunks
}

// snapToSentence truncates candidate just past the last '.', '!' or '?'
// found in its final boundaryTail words. If the tail holds no sentence
// end, candidate is returned unchanged.
func snapToSentence(candidate string, window []string) string {
	tailStart := len(window) - boundaryTail
	if tailStart < 0 {
		tailStart = 0
	}
	tail := strings.Join(window[tailStart:], " ")

	idx := strings.LastIndexAny(tail, ".!?")
	if idx < 0 {
		return candidate
	}
	return candidate[:len(candidate)-len(tail)+idx+1]
}
