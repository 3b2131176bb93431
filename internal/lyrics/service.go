package lyrics

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sukalov/yoke/internal/logger"
	"github.com/sukalov/yoke/internal/lyrics/parsers/amdm"
)

// ImportResult is untimed lyric text fetched from a lyrics site.
type ImportResult struct {
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	Blocks    int       `json:"blocks"`
	FetchedAt time.Time `json:"fetched_at"`
}

type extractor interface {
	ExtractLyrics(ctx context.Context, url string) (*amdm.LyricsResult, error)
}

// Service picks a parser by the host of the page.
type Service struct {
	amdmParser extractor
}

func NewService() *Service {
	return &Service{
		amdmParser: amdm.NewParser(),
	}
}

// ExtractLyrics fetches untimed lyrics from a supported site.
func (s *Service) ExtractLyrics(ctx context.Context, rawURL string) (*ImportResult, error) {
	logger.Debug(fmt.Sprintf("ExtractLyrics called with URL: %s", rawURL))

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q", rawURL)
	}

	host := strings.ToLower(u.Hostname())
	if host == "amdm.ru" || strings.HasSuffix(host, ".amdm.ru") {
		return s.extractFromAmdm(ctx, rawURL)
	}

	logger.Error(fmt.Sprintf("Unsupported URL source: %s", rawURL))
	return nil, fmt.Errorf("unsupported URL source: %s", host)
}

func (s *Service) extractFromAmdm(ctx context.Context, rawURL string) (*ImportResult, error) {
	result, err := s.amdmParser.ExtractLyrics(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("amdm.ru: %w", err)
	}

	return &ImportResult{
		URL:       result.URL,
		Text:      result.Text,
		Source:    "amdm.ru",
		Blocks:    result.Blocks,
		FetchedAt: result.FetchedAt,
	}, nil
}
