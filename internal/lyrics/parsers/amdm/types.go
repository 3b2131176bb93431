package amdm

import (
	"errors"
	"time"
)

// ErrTargetNotFound is returned when the page has no chords block.
var ErrTargetNotFound = errors.New("target element not found")

// LyricsResult is untimed lyric text extracted from a page. Song sections are
// separated by one blank line so that each becomes its own lyric block.
type LyricsResult struct {
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	Blocks    int       `json:"blocks"`
	FetchedAt time.Time `json:"fetched_at"`
}

// SectionType represents different song sections
type SectionType string

const (
	SectionVerse  SectionType = "Куплет"
	SectionChorus SectionType = "Припев"
	SectionBridge SectionType = "Переход"
	SectionIntro  SectionType = "Вступление"
	SectionSolo   SectionType = "Проигрыш"
	SectionOutro  SectionType = "Кода"
)

// ProcessingConfig says which sections carry lyrics. Lines of an unwanted
// section are dropped up to the next section marker or blank line.
type ProcessingConfig struct {
	AllowedSections  []SectionType
	UnwantedSections []SectionType
}

func (c *ProcessingConfig) unwanted(name string) bool {
	for _, s := range c.UnwantedSections {
		if string(s) == name {
			return true
		}
	}
	return false
}
