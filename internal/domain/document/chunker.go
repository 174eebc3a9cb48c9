package document

import (
	"strings"

	"github.com/Edgame2/castiel2-sub001/internal/domain/assembly"
)

// charsPerToken mirrors the estimation heuristic so chunk sizes in
// tokens translate to character windows.
const charsPerToken = 4

// defaultChunkTokens bounds sentence and paragraph chunks, which have
// no explicit size in the config.
const defaultChunkTokens = 512

// PlanChunks splits extracted text into chunks per the vectorization
// config. Chunks are non-empty; empty text yields no chunks.
func PlanChunks(text string, cfg assembly.VectorizationConfig) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	switch cfg.ChunkingStrategy {
	case assembly.ChunkSentence:
		return packUnits(splitSentences(text), defaultChunkTokens)
	case assembly.ChunkParagraph:
		return packUnits(splitParagraphs(text), defaultChunkTokens)
	default:
		return fixedWindows(text, cfg.ChunkSize, cfg.ChunkOverlap)
	}
}

// fixedWindows slides a character window of chunkSize tokens with the
// given token overlap between consecutive windows.
func fixedWindows(text string, chunkTokens, overlapTokens int) []string {
	if chunkTokens <= 0 {
		chunkTokens = defaultChunkTokens
	}
	if overlapTokens < 0 || overlapTokens >= chunkTokens {
		overlapTokens = 0
	}
	window := chunkTokens * charsPerToken
	stride := (chunkTokens - overlapTokens) * charsPerToken

	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += stride {
		end := start + window
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// packUnits greedily groups units (sentences or paragraphs) into
// chunks of at most maxTokens. A single oversized unit becomes its own
// chunk rather than being split.
func packUnits(units []string, maxTokens int) []string {
	var chunks []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentTokens = 0
		}
	}

	for _, unit := range units {
		tokens := assembly.EstimateTokens(unit)
		if currentTokens > 0 && currentTokens+tokens > maxTokens {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(unit)
		currentTokens += tokens
	}
	flush()
	return chunks
}

func splitSentences(text string) []string {
	var units []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				units = append(units, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		units = append(units, s)
	}
	return units
}

func splitParagraphs(text string) []string {
	var units []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			units = append(units, p)
		}
	}
	return units
}
