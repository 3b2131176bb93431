package amdm

import (
	"regexp"
	"strings"
)

var (
	sectionMarker  = regexp.MustCompile(`^\[([^\]:]+):?\]:?`)
	chordSeparator = regexp.MustCompile(`^[\s|]*$`)
	commentBlock   = regexp.MustCompile(`/\*[^*]*\*?/?`)
)

// processTextLines groups the page text into paragraphs. Blank lines and
// section markers end a paragraph; chord-only and separator lines vanish
// without ending one.
func (p *Parser) processTextLines(cleanText string) string {
	var (
		paragraphs [][]string
		current    []string
		skipping   bool
	)
	breakParagraph := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, current)
			current = nil
		}
	}

	for _, line := range strings.Split(cleanText, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			breakParagraph()
			skipping = false
			continue
		}

		if m := sectionMarker.FindStringSubmatch(trimmed); m != nil {
			breakParagraph()
			skipping = p.config.unwanted(strings.TrimSpace(m[1]))
			continue
		}

		if skipping {
			continue
		}

		cleanLine := p.cleanLine(trimmed)
		if cleanLine == "" {
			continue
		}
		current = append(current, cleanLine)
	}
	breakParagraph()

	joined := make([]string, 0, len(paragraphs))
	for _, para := range paragraphs {
		joined = append(joined, strings.Join(para, "\n"))
	}
	return strings.Join(joined, "\n\n")
}

// cleanLine strips chord marks, comment artifacts and stray punctuation left
// by the page markup. Lines made only of chords or bar separators come back
// empty.
func (p *Parser) cleanLine(line string) string {
	line = strings.ReplaceAll(line, chordMark, "")
	if chordSeparator.MatchString(line) {
		return ""
	}

	line = commentBlock.ReplaceAllString(line, "")
	line = strings.ReplaceAll(line, "*", "")
	line = strings.ReplaceAll(line, "/", "")

	return strings.TrimSpace(line)
}
