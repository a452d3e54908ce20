package documents

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparator splits text into paragraphs before merging
const DefaultSeparator = "\n\n"

// Splitter cuts text on a separator and merges the pieces back into chunks
// of at most ChunkSize characters, carrying up to ChunkOverlap characters
// of trailing context into the next chunk.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separator    string
}

// NewSplitter creates a paragraph splitter. overlap is clamped below size.
func NewSplitter(size, overlap int) *Splitter {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return &Splitter{
		ChunkSize:    size,
		ChunkOverlap: overlap,
		Separator:    DefaultSeparator,
	}
}

// Split returns the chunks of text in order
func (s *Splitter) Split(text string) []string {
	var pieces []string
	for _, piece := range strings.Split(text, s.Separator) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		pieces = append(pieces, s.window(piece)...)
	}
	return s.merge(pieces)
}

// window hard-splits a piece that alone exceeds the chunk size
func (s *Splitter) window(piece string) []string {
	if utf8.RuneCountInString(piece) <= s.ChunkSize {
		return []string{piece}
	}

	runes := []rune(piece)
	step := s.ChunkSize - s.ChunkOverlap
	var out []string
	for start := 0; start < len(runes); start += step {
		end := min(start+s.ChunkSize, len(runes))
		out = append(out, strings.TrimSpace(string(runes[start:end])))
		if end == len(runes) {
			break
		}
	}
	return out
}

func (s *Splitter) merge(pieces []string) []string {
	sepLen := utf8.RuneCountInString(s.Separator)
	var chunks []string
	var current []string
	total := 0

	for _, piece := range pieces {
		length := utf8.RuneCountInString(piece)
		joined := 0
		if len(current) > 0 {
			joined = sepLen
		}

		if total+length+joined > s.ChunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, s.Separator))

			// drop leading pieces until what is left fits the overlap
			for len(current) > 0 && (total > s.ChunkOverlap || total+length+sepLen > s.ChunkSize) {
				drop := utf8.RuneCountInString(current[0])
				if len(current) > 1 {
					drop += sepLen
				}
				total -= drop
				current = current[1:]
			}
		}

		if len(current) > 0 {
			total += sepLen
		}
		current = append(current, piece)
		total += length
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, s.Separator))
	}
	return chunks
}
