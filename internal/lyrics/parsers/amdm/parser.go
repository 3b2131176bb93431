package amdm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sukalov/yoke/internal/logger"
)

const chordsBlockSelector = `pre[itemprop="chordsBlock"].field__podbor_new.podbor__text`

// chordMark stands in for removed chord markup so that chord-only lines can be
// told apart from the blank lines that separate verses.
const chordMark = "\u2063"

// Parser handles the HTML parsing and lyrics extraction
type Parser struct {
	client *Client
	config *ProcessingConfig
}

// NewParser creates a new AmDm parser
func NewParser() *Parser {
	return &Parser{
		client: NewClient(),
		config: &ProcessingConfig{
			AllowedSections:  []SectionType{SectionVerse, SectionChorus, SectionBridge},
			UnwantedSections: []SectionType{SectionIntro, SectionSolo, SectionOutro},
		},
	}
}

// ExtractLyrics fetches an AmDm page and returns its lyrics as untimed,
// paragraph-separated text.
func (p *Parser) ExtractLyrics(ctx context.Context, url string) (*LyricsResult, error) {
	logger.Debug(fmt.Sprintf("ExtractLyrics: fetching page %s", url))

	html, err := p.client.FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}

	text, err := p.Extract(html)
	if err != nil {
		logger.Error(fmt.Sprintf("ExtractLyrics: %s\nError: %v", url, err))
		return nil, err
	}

	blocks := 0
	if text != "" {
		blocks = strings.Count(text, "\n\n") + 1
	}
	logger.Debug(fmt.Sprintf("ExtractLyrics: %s gave %d chars in %d blocks", url, len(text), blocks))

	return &LyricsResult{
		URL:       url,
		Text:      text,
		Blocks:    blocks,
		FetchedAt: time.Now(),
	}, nil
}

// Extract pulls the lyrics out of an AmDm page.
func (p *Parser) Extract(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(chordsBlockSelector).First()
	if selection.Length() == 0 {
		return "", ErrTargetNotFound
	}

	selection.Find(".podbor__chord").ReplaceWithHtml(chordMark)
	selection.Find(".podbor__author-comment").Remove()

	return p.processTextLines(selection.Text()), nil
}
