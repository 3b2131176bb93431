// Package tui previews timed lyrics in the terminal against a playback clock.
package tui

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sukalov/yoke/internal/logger"
	"github.com/sukalov/yoke/internal/lyrics"
	"github.com/sukalov/yoke/internal/utils"
)

const seekStep = 5 * time.Second

// Options configure a preview. The clock runs in video time: lyrics are
// looked up at the clock minus Delay, and the title card covers the first
// Titlecard of it.
type Options struct {
	Title           string
	Lead            time.Duration
	Length          time.Duration
	Delay           time.Duration
	Titlecard       time.Duration
	Tick            time.Duration
	SungColor       string
	UnsungColor     string
	BackgroundColor string

	// LogFile receives log lines while the preview owns the terminal. Empty
	// discards them.
	LogFile string
}

type tickMsg time.Time

type model struct {
	parsed   *lyrics.ParsedLyrics
	opts     Options
	styles   stageStyles
	progress progress.Model

	position time.Duration
	playing  bool
	lastTick time.Time

	tags   []string
	warned map[string]bool

	width    int
	quitting bool
}

func newModel(parsed *lyrics.ParsedLyrics, opts Options) model {
	if opts.Tick <= 0 {
		opts.Tick = 50 * time.Millisecond
	}
	bar := progress.New(progress.WithSolidFill(opts.SungColor), progress.WithoutPercentage())
	return model{
		parsed:   parsed,
		opts:     opts,
		styles:   newStageStyles(opts.SungColor, opts.UnsungColor, opts.BackgroundColor),
		progress: bar,
		playing:  true,
		warned:   make(map[string]bool),
	}
}

// Run shows the preview until the user quits and returns the tags captured
// with the tag key, in order.
func Run(parsed *lyrics.ParsedLyrics, opts Options) ([]string, error) {
	out := log.New(io.Discard, "", 0)
	if opts.LogFile != "" {
		f, err := tea.LogToFile(opts.LogFile, "yoke")
		if err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
		defer f.Close()
		out = log.New(f, "", log.LstdFlags)
	}
	prev := logger.SetOutput(out)
	defer logger.SetOutput(prev)

	p := tea.NewProgram(newModel(parsed, opts), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	return finalModel.(model).tags, nil
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.opts.Tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(msg.Width-4, 10)
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		if m.playing && !m.lastTick.IsZero() {
			m.seek(m.position + now.Sub(m.lastTick))
			if m.opts.Length > 0 && m.position >= m.end() {
				m.playing = false
			}
		}
		m.lastTick = now
		m.warnAnomaly()
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Pause):
			m.playing = !m.playing
		case key.Matches(msg, keys.Back):
			m.seek(m.position - seekStep)
		case key.Matches(msg, keys.Forward):
			m.seek(m.position + seekStep)
		case key.Matches(msg, keys.Start):
			m.seek(0)
		case key.Matches(msg, keys.End):
			m.seek(m.end())
		case key.Matches(msg, keys.Tag):
			m.tags = append(m.tags, lyrics.FormatTag(m.songTime()))
		}
		m.warnAnomaly()
		return m, nil
	}

	return m, nil
}

// songTime is the lyric clock, which trails the video clock by Delay.
func (m model) songTime() time.Duration {
	return m.position - m.opts.Delay
}

func (m model) highlight() lyrics.Highlight {
	return m.parsed.HighlightAt(m.songTime(), m.opts.Lead)
}

// end is the video length: the delay plus the song length, or plus the end
// of the last block when the length is unknown.
func (m model) end() time.Duration {
	if m.opts.Length > 0 {
		return m.opts.Delay + m.opts.Length
	}
	var end time.Duration
	for _, e := range m.parsed.Timeline() {
		if e.Range.End > end {
			end = e.Range.End
		}
	}
	return m.opts.Delay + end
}

func (m *model) seek(pos time.Duration) {
	if pos < 0 {
		pos = 0
	}
	if m.opts.Length > 0 && pos > m.end() {
		pos = m.end()
	}
	m.position = pos
}

// warnAnomaly logs a broken timestamp pair the first time it is played.
func (m model) warnAnomaly() {
	h := m.highlight()
	if h.Anomaly == nil {
		return
	}
	id := fmt.Sprintf("%d:%v", h.BlockIndex, h.Anomaly)
	if m.warned[id] {
		return
	}
	m.warned[id] = true
	logger.Warn(fmt.Sprintf("block %d at %s: %v", h.BlockIndex+1, utils.FormatPosition(m.songTime()), h.Anomaly))
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	h := m.highlight()
	title := styleTitle.Render(m.opts.Title)
	stage := m.styles.stage.Render(m.renderLyrics(h))
	if m.position < m.opts.Titlecard {
		stage = m.styles.stage.Render(styleTitlecard.Render(m.opts.Title))
	}

	clock := utils.FormatPosition(m.position)
	if end := m.end(); end > 0 {
		clock += " / " + utils.FormatPosition(end)
	}
	state := "playing"
	if !m.playing {
		state = "paused"
	}

	var percent float64
	if end := m.end(); end > 0 {
		percent = float64(m.position) / float64(end)
	}

	status := fmt.Sprintf("%s  %s", clock, state)
	if len(m.tags) > 0 {
		status += "  last tag " + m.tags[len(m.tags)-1]
	}
	if h.Anomaly != nil {
		status += fmt.Sprintf("  ⚠ block %d timing is out of order", h.BlockIndex+1)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		stage,
		m.progress.ViewAs(min(percent, 1)),
		styleStatusBar.Render(status),
		styleStatusBar.Render(m.helpLine()),
	)
}

func (m model) renderLyrics(h lyrics.Highlight) string {
	if !h.Visible {
		return styleEmpty.Render("♪")
	}

	var b strings.Builder
	paint := func(text string, style lipgloss.Style) {
		for i, line := range strings.Split(text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(style.Render(line))
			}
		}
	}
	paint(h.Sung, m.styles.sung)
	paint(h.Unsung, m.styles.unsung)
	return strings.TrimRight(b.String(), "\n")
}

func (m model) helpLine() string {
	var parts []string
	for _, b := range keys.help() {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return strings.Join(parts, " • ")
}
