package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// SlideRecord is the extracted text of a single slide. Records are built once
// during deck parsing and never mutated afterwards.
type SlideRecord struct {
	SlideNumber int
	Title       string
	Content     []string
}

// Empty reports whether the slide carried no usable text. Empty slides are
// dropped from the extraction but still counted in TotalSlides.
func (s SlideRecord) Empty() bool {
	return s.Title == "" && len(s.Content) == 0
}

// DeckExtraction is the structured result of parsing a slide deck.
type DeckExtraction struct {
	TotalSlides int
	Slides      []SlideRecord
	FullText    string
}

// BuildFullText assembles the concatenated text view of the retained slides:
// a "Slide {n}: {title}" line followed by the slide's content lines, slides
// separated by newlines.
func BuildFullText(slides []SlideRecord) string {
	parts := make([]string, 0, len(slides))
	for _, slide := range slides {
		lines := make([]string, 0, len(slide.Content)+1)
		lines = append(lines, fmt.Sprintf("Slide %d: %s", slide.SlideNumber, slide.Title))
		lines = append(lines, slide.Content...)
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n")
}

// Deck is a stored uploaded presentation.
type Deck struct {
	ID           int64
	OriginalName string
	StoredPath   string
	SlideCount   int
	UploadedAt   time.Time
}

// Material is a generated study-material artifact, tracked for history
// listing and re-download.
type Material struct {
	ID           int64
	DeckID       sql.NullInt64
	MaterialType string
	Difficulty   string
	WeakSpots    string
	FileName     string
	StoredPath   string
	PageCount    int
	WordCount    int
	CreatedAt    time.Time
	DeckName     sql.NullString
}

// WeakSpotList splits the stored comma-joined weak spots back into topics.
func (m Material) WeakSpotList() []string {
	return SplitWeakSpots(m.WeakSpots)
}

// SplitWeakSpots parses a comma-separated topic string into trimmed,
// non-blank entries, order preserved, duplicates allowed.
func SplitWeakSpots(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, spot := range strings.Split(raw, ",") {
		if spot = strings.TrimSpace(spot); spot != "" {
			out = append(out, spot)
		}
	}
	return out
}
