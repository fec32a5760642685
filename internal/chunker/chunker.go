// Package chunker splits document text into overlapping windows sized for
// embedding and retrieval.
package chunker

import (
	"fmt"

	"github.com/avolkhin/docchat-backend/internal/entity"
)

// Split cuts text into windows of at most size runes, preferring to end a
// window just after a sentence or paragraph boundary. Each window after the
// first begins overlap runes before the end of the previous one, so local
// context survives the cut. Windows are exact substrings of text and the
// algorithm has no randomness: identical input and parameters always yield
// identical chunks. Empty input yields no chunks.
func Split(text string, size, overlap int) ([]entity.Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", entity.ErrInvalidChunkConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, size), got %d", entity.ErrInvalidChunkConfig, overlap)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	var chunks []entity.Chunk
	start := 0
	idx := 0
	for {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, entity.Chunk{Text: string(runes[start:]), Index: idx})
			break
		}

		// The cut may move back to a sentence boundary, but never so far
		// that the next window fails to make progress past this one.
		minCut := start + size/2
		if m := start + overlap + 1; m > minCut {
			minCut = m
		}

		cut := end
		for i := end; i > minCut; i-- {
			if isBoundary(runes[i-1]) {
				cut = i
				break
			}
		}

		chunks = append(chunks, entity.Chunk{Text: string(runes[start:cut]), Index: idx})
		start = cut - overlap
		idx++
	}

	return chunks, nil
}

func isBoundary(r rune) bool {
	switch r {
	case '.', '!', '?', '\n':
		return true
	}
	return false
}
